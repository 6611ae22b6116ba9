// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries the arXiv API for recently submitted papers.
package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrUnavailable marks network or parse failures against the catalog.
// Callers test with errors.Is; the orchestrator aborts the run on it and
// leaves retrying to the next scheduled invocation.
var ErrUnavailable = errors.New("catalog unavailable")

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivPDFBase is the PDF download endpoint for catalog entries.
var arxivPDFBase = "https://arxiv.org/pdf/"

// Fetcher queries the arXiv API for papers in the configured categories.
type Fetcher struct {
	Client *http.Client
	Config types.CatalogConfig
}

// Fetch returns metadata for papers submitted inside the window ending at
// end, de-duplicated by id and capped at Config.MaxResults. The result is
// a finite one-shot slice; ordering follows the catalog (newest first).
func (f *Fetcher) Fetch(ctx context.Context, end time.Time) ([]types.PaperMetadata, error) {
	cats := f.Config.Categories
	if len(cats) == 0 {
		cats = []string{"cs.LG", "cs.AI", "stat.ML"}
	}
	maxResults := f.Config.MaxResults
	if maxResults <= 0 {
		maxResults = 25
	}
	windowDays := f.Config.WindowDays
	if windowDays <= 0 {
		windowDays = 1
	}
	start := end.AddDate(0, 0, -windowDays)

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, buildQuery(cats, start, end), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 3)
	if err != nil {
		return nil, fmt.Errorf("%w: arXiv API request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: arXiv API returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: parsing arXiv response: %v", ErrUnavailable, err)
	}

	seen := make(map[string]bool)
	var papers []types.PaperMetadata
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		p := types.PaperMetadata{
			ID:       id,
			Title:    collapseSpaces(entry.Title),
			Abstract: collapseSpaces(entry.Summary),
			PDFURL:   arxivPDFBase + id,
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, c := range entry.Categories {
			p.Categories = append(p.Categories, c.Term)
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Published = t
		}

		// The API applies the submittedDate filter, but entries at the
		// window edge can drift past it; re-check here.
		if !p.Published.IsZero() && (p.Published.Before(start) || p.Published.After(end)) {
			continue
		}

		papers = append(papers, p)
		if len(papers) >= maxResults {
			break
		}
	}
	return papers, nil
}

// buildQuery constructs the search_query parameter: a category disjunction
// joined with a submittedDate range.
func buildQuery(categories []string, start, end time.Time) string {
	terms := make([]string, len(categories))
	for i, c := range categories {
		terms[i] = "cat:" + c
	}
	window := fmt.Sprintf("submittedDate:[%s+TO+%s]",
		start.UTC().Format("200601021504"), end.UTC().Format("200601021504"))
	return "(" + strings.Join(terms, "+OR+") + ")+AND+" + window
}

// collapseSpaces trims the string and folds internal whitespace runs
// (the Atom feed wraps long titles across indented lines).
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2501.00001v1" → "2501.00001").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
