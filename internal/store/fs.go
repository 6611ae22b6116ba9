// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// DirStore keeps records on the local filesystem, one directory per date.
// It backs development and tests; production runs use MinioStore.
type DirStore struct {
	base string
}

// NewDirStore creates the base directory if needed.
func NewDirStore(base string) (*DirStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", base, err)
	}
	return &DirStore{base: base}, nil
}

// Put writes the record via a temp file and rename, so readers never see
// a partial object.
func (s *DirStore) Put(_ context.Context, date, id string, rec *types.SummaryRecord) error {
	if err := ValidateKey(date, id); err != nil {
		return err
	}

	dir := filepath.Join(s.base, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating date directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", id, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".put-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing record: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	dest := filepath.Join(dir, id+".json")
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Get reads one record; a missing file maps to ErrNotFound.
func (s *DirStore) Get(_ context.Context, date, id string) (*types.SummaryRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.base, date, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading record %s: %w", ObjectKey(date, id), err)
	}

	var rec types.SummaryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", ObjectKey(date, id), err)
	}
	return &rec, nil
}

// List returns every record under the date directory, sorted by id. A
// missing directory yields an empty slice; a malformed file is counted
// and skipped rather than aborting the listing.
func (s *DirStore) List(_ context.Context, date string) ([]*types.SummaryRecord, int, error) {
	entries, err := os.ReadDir(filepath.Join(s.base, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("listing date %s: %w", date, err)
	}

	var records []*types.SummaryRecord
	skipped := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.base, date, name))
		if err != nil {
			skipped++
			continue
		}
		var rec types.SummaryRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, &rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ArxivID < records[j].ArxivID })
	return records, skipped, nil
}
