// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract downloads paper PDFs and extracts their plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// maxPDFBytes bounds the download size; arXiv PDFs are a few MB.
const maxPDFBytes = 64 << 20

// Extractor downloads PDFs and turns them into bounded plain text for the
// summarization prompt.
type Extractor struct {
	Client *http.Client
	Config types.ExtractionConfig
}

// Extract downloads the PDF at pdfURL and returns its text, concatenated
// page by page and truncated to the configured character budget on a
// whitespace boundary. Download failures return *FetchError; parse
// failures return *ExtractError.
func (e *Extractor) Extract(ctx context.Context, pdfURL string) (string, error) {
	data, err := e.download(ctx, pdfURL)
	if err != nil {
		return "", err
	}

	text, err := extractText(data)
	if err != nil {
		return "", &ExtractError{URL: pdfURL, Err: err}
	}

	maxChars := e.Config.MaxChars
	if maxChars <= 0 {
		maxChars = 8000
	}
	return truncateAtBoundary(text, maxChars), nil
}

func (e *Extractor) download(ctx context.Context, pdfURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pdfURL, Err: err}
	}
	req.Header.Set("User-Agent", e.Config.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, e.Client, req, 3)
	if err != nil {
		return nil, &FetchError{URL: pdfURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: pdfURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "pdf") {
		return nil, &FetchError{URL: pdfURL, Err: fmt.Errorf("unexpected content type %q", ct)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
	if err != nil {
		return nil, &FetchError{URL: pdfURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	return data, nil
}

// extractText parses the PDF and concatenates per-page text with a blank
// line at each page boundary. The parser panics on some malformed inputs,
// so the whole pass runs under a recover.
func extractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return "", errors.New("no extractable text")
	}
	return strings.Join(pages, "\n\n"), nil
}

// truncateAtBoundary caps text at maxChars, cutting on the last whitespace
// boundary before the limit so no word is split.
func truncateAtBoundary(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	cut := text[:maxChars]
	idx := strings.LastIndexFunc(cut, unicode.IsSpace)
	if idx <= 0 {
		// No boundary inside the budget; a single giant token gets cut hard.
		return cut
	}
	return strings.TrimRightFunc(cut[:idx], unicode.IsSpace)
}
