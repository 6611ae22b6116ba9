// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one batch run: fetch catalog entries, extract
// text, summarize, and persist, isolating per-paper failures so one bad
// paper never aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Catalog fetches paper metadata for a window ending at end.
type Catalog interface {
	Fetch(ctx context.Context, end time.Time) ([]types.PaperMetadata, error)
}

// Extractor turns a PDF URL into bounded plain text.
type Extractor interface {
	Extract(ctx context.Context, pdfURL string) (string, error)
}

// Summarizer produces a structured summary from metadata and text.
type Summarizer interface {
	Summarize(ctx context.Context, meta types.PaperMetadata, text string) (*types.SummaryRecord, error)
}

// Report holds the outcome of one batch run.
type Report struct {
	Date      string    `json:"date" yaml:"date"`
	Processed int       `json:"processed" yaml:"processed"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Failed    int       `json:"failed" yaml:"failed"`
	Started   time.Time `json:"started" yaml:"started"`
	Finished  time.Time `json:"finished" yaml:"finished"`
}

// Total returns the number of papers seen.
func (r Report) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed. Per-paper failures never
// make the run itself fail.
func (r Report) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline wires the four stages together.
type Pipeline struct {
	Catalog    Catalog
	Extractor  Extractor
	Summarizer Summarizer
	Store      store.Store
}

// Run processes every paper in the window for the given date partition
// (YYYY-MM-DD), writing per-item status lines to w. A catalog failure
// aborts the run with an error; everything after that is caught per paper.
// A record is written only after the full summary is constructed, so an
// interrupted run leaves already-persisted records intact.
func (p *Pipeline) Run(ctx context.Context, date string, w io.Writer) (Report, error) {
	report := Report{Date: date, Started: time.Now()}

	end, err := time.Parse("2006-01-02", date)
	if err != nil {
		return report, fmt.Errorf("invalid run date %q: %w", date, err)
	}
	end = end.Add(24*time.Hour - time.Second)

	papers, err := p.Catalog.Fetch(ctx, end)
	if err != nil {
		return report, fmt.Errorf("fetching catalog: %w", err)
	}
	fmt.Fprintf(w, "fetched %d papers for %s\n", len(papers), date)

	for _, paper := range papers {
		if ctx.Err() != nil {
			report.Finished = time.Now()
			return report, ctx.Err()
		}

		// Papers summarized by an earlier run for this date stay as-is.
		if _, getErr := p.Store.Get(ctx, date, paper.ID); getErr == nil {
			fmt.Fprintf(w, "skipped %s (already stored)\n", paper.ID)
			report.Skipped++
			continue
		} else if !errors.Is(getErr, store.ErrNotFound) {
			fmt.Fprintf(w, "warning: checking %s: %v\n", paper.ID, getErr)
		}

		text, err := p.Extractor.Extract(ctx, paper.PDFURL)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", paper.ID, err)
			report.Failed++
			continue
		}

		rec, err := p.Summarizer.Summarize(ctx, paper, text)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", paper.ID, err)
			report.Failed++
			continue
		}
		rec.StoredDate = date

		if err := p.Store.Put(ctx, date, paper.ID, rec); err != nil {
			fmt.Fprintf(w, "failed  %s: storing record: %v\n", paper.ID, err)
			report.Failed++
			continue
		}

		fmt.Fprintf(w, "stored  %s\n", store.ObjectKey(date, paper.ID))
		report.Processed++
	}

	report.Finished = time.Now()
	fmt.Fprintf(w, "run complete: %d processed, %d skipped, %d failed\n",
		report.Processed, report.Skipped, report.Failed)
	return report, nil
}
