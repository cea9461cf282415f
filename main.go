package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hotel-review-scraper/config"
	"hotel-review-scraper/models"
	"hotel-review-scraper/scraper"
	"hotel-review-scraper/scraper/booking"
	"hotel-review-scraper/services"
	"hotel-review-scraper/storage"
	"hotel-review-scraper/utils"
)

const (
	csvFileName  = "final_hotel_data.csv"
	xlsxFileName = "final_hotel_data.xlsx"
)

// app carries the process-wide state shared by every command.
type app struct {
	cfg    *config.Config
	runID  string
	logger *utils.Logger
}

func main() {
	cfg := config.Load()
	a := &app{cfg: cfg, runID: uuid.NewString()}

	root := &cobra.Command{
		Use:   "hotel-review-scraper",
		Short: "Scrape hotel metadata and reviews into one dataset",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := utils.NewLogger(utils.LoggerOptions{Level: cfg.LogLevel, File: cfg.LogFile})
			if err != nil {
				return err
			}
			a.logger = logger.With("run_id", a.runID)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scrape(cmd.Context())
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.SnapshotDir, "snapshot-dir", cfg.SnapshotDir, "directory holding per-hotel snapshots")
	root.PersistentFlags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "directory for the final CSV/XLSX files")
	root.Flags().StringVarP(&cfg.InputPath, "input", "i", cfg.InputPath, "hotel list, one \"name, location\" per line")

	root.AddCommand(&cobra.Command{
		Use:   "consolidate",
		Short: "Rebuild the final dataset from the snapshots already on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.consolidate(cmd.Context())
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) scrape(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("=== Hotel review scraper starting ===")
	logger.Info("Config: input %s | mode %s | retries %d x %v | page delay %v",
		cfg.InputPath, cfg.FetchMode, cfg.MaxRetries, cfg.RetryDelay(), cfg.PageDelay())

	entities, err := storage.LoadEntities(cfg.InputPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded %d hotels from %s", len(entities), cfg.InputPath)

	fetcher, closeFetcher := a.newFetcher()
	defer closeFetcher()

	source := booking.New(fetcher, logger, booking.Options{
		BaseURL:  cfg.BaseURL,
		PageSize: cfg.PageSize,
		Pacer:    utils.NewPacer(cfg.PageDelay()),
	})

	store, err := storage.NewSnapshotStore(cfg.SnapshotDir)
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return err
	}

	pipeline := services.NewPipeline(source, store, a.retry(), logger)
	results, keys, err := pipeline.Run(ctx, entities)
	if err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}

	ds, err := services.NewConsolidator(store, logger).Build(keys)
	if err != nil {
		return err
	}
	if err := a.export(ctx, ds); err != nil {
		return err
	}

	reporter := services.NewReportService(logger)
	reporter.Print(os.Stdout, reporter.Generate(a.runID, results, ds))
	return nil
}

func (a *app) consolidate(ctx context.Context) error {
	store, err := storage.NewSnapshotStore(a.cfg.SnapshotDir)
	if err != nil {
		return err
	}
	keys, err := store.Keys()
	if err != nil {
		return err
	}
	a.logger.Info("Consolidating %d snapshots from %s", len(keys), a.cfg.SnapshotDir)

	ds, err := services.NewConsolidator(store, a.logger).Build(keys)
	if err != nil {
		return err
	}
	return a.export(ctx, ds)
}

func (a *app) retry() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		Delay:       a.cfg.RetryDelay(),
		Logger:      a.logger,
	}
}

func (a *app) newFetcher() (scraper.Fetcher, func()) {
	cfg := a.cfg
	if cfg.FetchMode == "browser" {
		a.logger.Info("Using headless browser %q", cfg.ChromeBin)
		bf := scraper.NewBrowserFetcher(cfg.ChromeBin, cfg.UserAgent, cfg.RequestTimeout())
		return bf, bf.Close
	}
	return scraper.NewHTTPFetcher(cfg.UserAgent, cfg.RequestTimeout()), func() {}
}

// export writes the dataset to every configured target. CSV and XLSX
// failures are returned; a Postgres failure is only logged.
func (a *app) export(ctx context.Context, ds *models.Dataset) error {
	cfg, logger := a.cfg, a.logger

	csvPath := filepath.Join(cfg.OutputDir, csvFileName)
	csvWriter, err := storage.NewCSVWriter(csvPath)
	if err != nil {
		return err
	}
	if err := writeAndClose(csvWriter, ds); err != nil {
		return err
	}
	logger.Info("Dataset saved to %s (%d rows)", csvPath, ds.Len())

	if cfg.WriteXLSX {
		xlsxPath := filepath.Join(cfg.OutputDir, xlsxFileName)
		xlsxWriter, err := storage.NewXLSXWriter(xlsxPath)
		if err != nil {
			return err
		}
		if err := writeAndClose(xlsxWriter, ds); err != nil {
			return err
		}
		logger.Info("Dataset saved to %s", xlsxPath)
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.DSN(), a.runID, a.retry())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			return nil
		}
		defer pgWriter.Close()
		if err := pgWriter.Write(ds); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
			return nil
		}
		stored, err := pgWriter.CountRun(ctx)
		if err != nil {
			logger.Warn("Could not verify PostgreSQL row count: %v", err)
			return nil
		}
		logger.Info("Dataset stored in PostgreSQL (table: hotel_reviews, %d rows)", stored)
	}
	return nil
}

func writeAndClose(w storage.DatasetWriter, ds *models.Dataset) error {
	if err := w.Write(ds); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
