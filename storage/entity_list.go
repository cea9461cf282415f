package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"hotel-review-scraper/models"
)

// LoadEntities reads the hotel list at path. See ParseEntities for the format.
func LoadEntities(path string) ([]models.EntityRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: open %q: %w", path, err)
	}
	defer f.Close()

	return ParseEntities(f)
}

// ParseEntities reads one "name, location" pair per line. Lines that do not
// split into exactly two non-blank comma-separated fields are skipped.
func ParseEntities(r io.Reader) ([]models.EntityRef, error) {
	var entities []models.EntityRef

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ",")
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		location := strings.TrimSpace(parts[1])
		if name == "" || location == "" {
			continue
		}
		entities = append(entities, models.EntityRef{Name: name, Location: location})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("input: read: %w", err)
	}
	return entities, nil
}
