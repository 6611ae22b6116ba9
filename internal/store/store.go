// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists summary records in a blob key space partitioned
// by date: one JSON object per paper under "{YYYY-MM-DD}/{id}.json".
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrNotFound is returned by Get when no record exists for (date, id).
var ErrNotFound = errors.New("record not found")

// Store reads and writes summary records. Put overwrites unconditionally
// (the batch orchestrator is the sole writer); List tolerates individual
// malformed objects, returning how many were skipped.
type Store interface {
	Put(ctx context.Context, date, id string, rec *types.SummaryRecord) error
	Get(ctx context.Context, date, id string) (*types.SummaryRecord, error)
	List(ctx context.Context, date string) (records []*types.SummaryRecord, skipped int, err error)
}

// ObjectKey returns the storage key for one record.
func ObjectKey(date, id string) string {
	return date + "/" + id + ".json"
}

// ValidateKey checks the identity invariants before a write: a non-empty
// id and a valid ISO date.
func ValidateKey(date, id string) error {
	if id == "" {
		return errors.New("empty record id")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return nil
}
