package storage

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"hotel-review-scraper/models"
)

const (
	snapshotExt = ".snap"
	keyHashLen  = 12
)

// ErrSnapshotNotFound is returned by Load when no snapshot exists for a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// snapshot is the on-disk payload: a gob stream inside a zstd frame.
type snapshot struct {
	Entity models.EntityRef
	Rows   []models.MergedRecord
}

// SnapshotStore keeps one compressed file per hotel holding its merged rows.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates the snapshot directory if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Key returns the filesystem-safe identifier used to name entity's snapshot.
// The readable slug is suffixed with a hash of the exact name and location,
// so entities whose slugs coincide still get distinct keys.
func Key(entity models.EntityRef) string {
	slug := func(s string) string {
		return strings.Trim(unsafeKeyChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	}
	sum := sha256.Sum256([]byte(entity.Name + "\x00" + entity.Location))
	return slug(entity.Name) + "." + slug(entity.Location) + "-" + hex.EncodeToString(sum[:])[:keyHashLen]
}

func (s *SnapshotStore) path(key string) string {
	return filepath.Join(s.dir, key+snapshotExt)
}

// Reset removes every snapshot left in the directory by an earlier run.
func (s *SnapshotStore) Reset() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+snapshotExt))
	if err != nil {
		return fmt.Errorf("snapshot: list: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("snapshot: remove %q: %w", m, err)
		}
	}
	return nil
}

// Save writes rows for entity and returns the snapshot key. The file is
// written to a temporary name and renamed, so a snapshot is either complete
// or absent.
func (s *SnapshotStore) Save(entity models.EntityRef, rows []models.MergedRecord) (string, error) {
	key := Key(entity)
	final := s.path(key)

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("snapshot: create temp for %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if err := encodeSnapshot(tmp, snapshot{Entity: entity, Rows: rows}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("snapshot: encode %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("snapshot: close %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("snapshot: rename %q: %w", key, err)
	}
	return key, nil
}

func encodeSnapshot(f *os.File, snap snapshot) error {
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Load reads the snapshot stored under key.
func (s *SnapshotStore) Load(key string) ([]models.MergedRecord, error) {
	f, err := os.Open(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("snapshot: %q: %w", key, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %q: %w", key, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open zstd %q: %w", key, err)
	}
	defer zr.Close()

	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode %q: %w", key, err)
	}
	return snap.Rows, nil
}

// Keys lists every stored snapshot key in lexical order.
func (s *SnapshotStore) Keys() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+snapshotExt))
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSuffix(filepath.Base(m), snapshotExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// LoadAll reads the given snapshots in order.
func (s *SnapshotStore) LoadAll(keys []string) ([][]models.MergedRecord, error) {
	out := make([][]models.MergedRecord, 0, len(keys))
	for _, k := range keys {
		rows, err := s.Load(k)
		if err != nil {
			return nil, err
		}
		out = append(out, rows)
	}
	return out, nil
}
