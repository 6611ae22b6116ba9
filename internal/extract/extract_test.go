// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func testExtractor() *Extractor {
	return &Extractor{
		Client: http.DefaultClient,
		Config: types.ExtractionConfig{
			HTTPConfig: types.HTTPConfig{UserAgent: "test/0.1"},
			MaxChars:   8000,
		},
	}
}

func TestExtractNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testExtractor().Extract(context.Background(), ts.URL+"/missing.pdf")

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if !strings.Contains(fe.Error(), "404") {
		t.Errorf("error should carry the status, got %q", fe.Error())
	}
}

func TestExtractRejectsNonPDFContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>captcha</html>"))
	}))
	defer ts.Close()

	_, err := testExtractor().Extract(context.Background(), ts.URL)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 truncated garbage"))
	}))
	defer ts.Close()

	_, err := testExtractor().Extract(context.Background(), ts.URL)

	var ee *ExtractError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want *ExtractError", err)
	}
}

func TestExtractNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // Closed before use so the dial fails.

	_, err := testExtractor().Extract(context.Background(), ts.URL)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	fetchErr := error(&FetchError{URL: "u", Err: errors.New("x")})
	extractErr := error(&ExtractError{URL: "u", Err: errors.New("x")})

	var fe *FetchError
	if errors.As(extractErr, &fe) {
		t.Error("ExtractError should not match *FetchError")
	}
	var ee *ExtractError
	if errors.As(fetchErr, &ee) {
		t.Error("FetchError should not match *ExtractError")
	}
}

func TestTruncateAtBoundary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"under budget unchanged", "short text", 100, "short text"},
		{"exactly at budget", "ten chars!", 10, "ten chars!"},
		{"cuts on word boundary", "alpha beta gamma", 12, "alpha beta"},
		{"never splits mid-word", "alpha betagamma", 12, "alpha"},
		{"no boundary hard cut", "abcdefghijklmnop", 5, "abcde"},
		{"trailing whitespace trimmed", "one  two   three", 9, "one  two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateAtBoundary(tt.text, tt.maxChars)
			if got != tt.want {
				t.Errorf("truncateAtBoundary(%q, %d) = %q, want %q", tt.text, tt.maxChars, got, tt.want)
			}
			if len(got) > tt.maxChars {
				t.Errorf("result exceeds budget: %d > %d", len(got), tt.maxChars)
			}
		})
	}
}
