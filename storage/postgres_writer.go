package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"hotel-review-scraper/models"
	"hotel-review-scraper/utils"
)

const insertBatchSize = 50

// PostgresWriter stores the consolidated dataset in the hotel_reviews table.
// Every row is tagged with the run that produced it.
type PostgresWriter struct {
	db    *sql.DB
	runID string
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to accept
// connections, runs the schema migration and returns a ready writer.
func NewPostgresWriter(ctx context.Context, dsn, runID string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", db.PingContext); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

// exportCategories returns the fixed categories followed by any extra ones
// the dataset carries, in dataset order.
func exportCategories(ds *models.Dataset) []models.Category {
	cats := append([]models.Category(nil), models.Categories...)
	known := make(map[models.Category]bool, len(cats))
	for _, c := range cats {
		known[c] = true
	}
	for _, c := range ds.Categories {
		if !known[c] {
			known[c] = true
			cats = append(cats, c)
		}
	}
	return cats
}

func reviewColumns(cats []models.Category) []string {
	cols := append([]string{"run_id"}, models.BaseColumns...)
	for _, c := range cats {
		cols = append(cols, c.Column())
	}
	return cols
}

func columnDef(col string) string {
	return pq.QuoteIdentifier(col) + " TEXT NOT NULL DEFAULT ''"
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	var defs []string
	for _, col := range reviewColumns(models.Categories) {
		defs = append(defs, columnDef(col))
	}

	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hotel_reviews (
			id         BIGSERIAL PRIMARY KEY,
			`+strings.Join(defs, ",\n\t\t\t")+`,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_hotel_reviews_run   ON hotel_reviews(run_id);
		CREATE INDEX IF NOT EXISTS idx_hotel_reviews_hotel ON hotel_reviews(hotel_name);
	`)
	return err
}

// Write inserts every dataset row in batches inside one transaction.
// Categories outside the fixed set get their column added first.
func (pw *PostgresWriter) Write(ds *models.Dataset) error {
	if ds.Len() == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	cats := exportCategories(ds)
	for _, c := range cats[len(models.Categories):] {
		stmt := "ALTER TABLE hotel_reviews ADD COLUMN IF NOT EXISTS " + columnDef(c.Column())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("postgres: add column %q: %w", c.Column(), err)
		}
	}

	for i := 0; i < ds.Len(); i += insertBatchSize {
		end := i + insertBatchSize
		if end > ds.Len() {
			end = ds.Len()
		}
		if err := pw.insertBatch(ctx, tx, cats, ds.Rows[i:end]); err != nil {
			tx.Rollback()
			return fmt.Errorf("postgres: insert rows %d-%d: %w", i, end-1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, tx *sql.Tx, cats []models.Category, batch []models.MergedRecord) error {
	cols := reviewColumns(cats)
	// every fixed category column is written, whether or not the dataset saw it
	full := &models.Dataset{Categories: cats, Rows: batch}
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*len(cols))

	for idx := range batch {
		base := idx * len(cols)
		placeholders := make([]string, len(cols))
		for j := range cols {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		valueArgs = append(valueArgs, pw.runID)
		for _, v := range full.Row(idx) {
			valueArgs = append(valueArgs, v)
		}
	}

	query := fmt.Sprintf(`INSERT INTO hotel_reviews (%s) VALUES %s`,
		strings.Join(quoted, ", "), strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, query, valueArgs...)
	return err
}

// CountRun returns how many rows the current run has stored.
func (pw *PostgresWriter) CountRun(ctx context.Context) (int, error) {
	var n int
	err := pw.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotel_reviews WHERE run_id = $1`, pw.runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count run: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
