// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-digest/internal/catalog"
	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// --- stage fakes ---

type fakeCatalog struct {
	papers []types.PaperMetadata
	err    error
}

func (f *fakeCatalog) Fetch(context.Context, time.Time) ([]types.PaperMetadata, error) {
	return f.papers, f.err
}

type fakeExtractor struct {
	text    string
	failIDs map[string]error // PDF URL suffix → error
}

func (f *fakeExtractor) Extract(_ context.Context, pdfURL string) (string, error) {
	for suffix, err := range f.failIDs {
		if strings.HasSuffix(pdfURL, suffix) {
			return "", err
		}
	}
	return f.text, nil
}

type fakeSummarizer struct {
	failIDs map[string]error
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, meta types.PaperMetadata, text string) (*types.SummaryRecord, error) {
	f.calls++
	if err, ok := f.failIDs[meta.ID]; ok {
		return nil, err
	}
	return &types.SummaryRecord{
		ArxivID:   meta.ID,
		Title:     meta.Title,
		Authors:   types.AuthorList(meta.Authors),
		Summary:   "Summary of " + text,
		KeyPoints: []string{"point"},
	}, nil
}

func paper(id string) types.PaperMetadata {
	return types.PaperMetadata{
		ID:     id,
		Title:  "Paper " + id,
		PDFURL: "https://arxiv.org/pdf/" + id,
	}
}

func newPipeline(t *testing.T, cat Catalog) (*Pipeline, *store.DirStore) {
	t.Helper()
	st, err := store.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &Pipeline{
		Catalog:    cat,
		Extractor:  &fakeExtractor{text: "Sample paper text"},
		Summarizer: &fakeSummarizer{},
		Store:      st,
	}, st
}

func TestRunEndToEnd(t *testing.T) {
	p, st := newPipeline(t, &fakeCatalog{papers: []types.PaperMetadata{paper("2501.00001")}})
	var out bytes.Buffer

	report, err := p.Run(context.Background(), "2025-01-15", &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Processed != 1 || report.Failed != 0 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}

	rec, err := st.Get(context.Background(), "2025-01-15", "2501.00001")
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if rec.ArxivID != "2501.00001" {
		t.Errorf("ArxivID = %q", rec.ArxivID)
	}
	if rec.StoredDate != "2025-01-15" {
		t.Errorf("StoredDate = %q", rec.StoredDate)
	}
	if rec.Summary != "Summary of Sample paper text" {
		t.Errorf("Summary = %q", rec.Summary)
	}

	records, _, err := st.List(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("listing for the date should include the new record, got %d", len(records))
	}
	if !strings.Contains(out.String(), "2025-01-15/2501.00001.json") {
		t.Errorf("status output should name the object key:\n%s", out.String())
	}
}

func TestRunIsolatesPerPaperFailures(t *testing.T) {
	p, st := newPipeline(t, &fakeCatalog{papers: []types.PaperMetadata{
		paper("2501.00001"), paper("2501.00002"), paper("2501.00003"),
	}})
	p.Extractor = &fakeExtractor{
		text:    "text",
		failIDs: map[string]error{"2501.00001": errors.New("corrupt PDF")},
	}
	p.Summarizer = &fakeSummarizer{
		failIDs: map[string]error{"2501.00002": errors.New("model refused")},
	}

	var out bytes.Buffer
	report, err := p.Run(context.Background(), "2025-01-15", &out)
	if err != nil {
		t.Fatalf("Run() error = %v, per-paper failures must not abort the run", err)
	}
	if report.Processed != 1 || report.Failed != 2 {
		t.Fatalf("report = %+v, want 1 processed, 2 failed", report)
	}
	if !report.HasFailures() {
		t.Error("HasFailures() = false")
	}

	// The surviving paper made it to storage.
	if _, err := st.Get(context.Background(), "2025-01-15", "2501.00003"); err != nil {
		t.Errorf("healthy paper should be persisted: %v", err)
	}
	// Both failures are logged with the paper id.
	for _, id := range []string{"2501.00001", "2501.00002"} {
		if !strings.Contains(out.String(), id) {
			t.Errorf("status output missing failed paper %s:\n%s", id, out.String())
		}
	}
}

func TestRunSkipsAlreadyStored(t *testing.T) {
	p, st := newPipeline(t, &fakeCatalog{papers: []types.PaperMetadata{paper("2501.00001")}})

	existing := &types.SummaryRecord{ArxivID: "2501.00001", Summary: "old"}
	if err := st.Put(context.Background(), "2025-01-15", "2501.00001", existing); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	report, err := p.Run(context.Background(), "2025-01-15", &out)
	if err != nil {
		t.Fatal(err)
	}
	if report.Skipped != 1 || report.Processed != 0 {
		t.Fatalf("report = %+v, want 1 skipped", report)
	}
	if p.Summarizer.(*fakeSummarizer).calls != 0 {
		t.Error("summarizer should not run for an already-stored paper")
	}

	rec, err := st.Get(context.Background(), "2025-01-15", "2501.00001")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Summary != "old" {
		t.Error("existing record must stay untouched")
	}
}

func TestRunAbortsOnCatalogFailure(t *testing.T) {
	cause := catalog.ErrUnavailable
	p, _ := newPipeline(t, &fakeCatalog{err: cause})

	var out bytes.Buffer
	_, err := p.Run(context.Background(), "2025-01-15", &out)
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("err = %v, want catalog.ErrUnavailable", err)
	}
}

func TestRunRejectsBadDate(t *testing.T) {
	p, _ := newPipeline(t, &fakeCatalog{})

	var out bytes.Buffer
	if _, err := p.Run(context.Background(), "15-01-2025", &out); err == nil {
		t.Fatal("non-ISO date should be rejected")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	p, _ := newPipeline(t, &fakeCatalog{papers: []types.PaperMetadata{
		paper("2501.00001"), paper("2501.00002"),
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := p.Run(ctx, "2025-01-15", &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
