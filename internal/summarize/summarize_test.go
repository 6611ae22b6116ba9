// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const validOutput = `{
	"summary": "A thorough study of gradient descent.",
	"key_points": ["fast", "simple", "scales"],
	"methodology": "Benchmarks on three datasets.",
	"results": "Improved accuracy by 4%.",
	"implications": "Cheaper training runs."
}`

// --- mock backend ---

type mockBackend struct {
	responses    []string
	errs         []error
	calls        int
	temperatures []float64
}

func (m *mockBackend) Complete(_ context.Context, _ string, temperature float64) (string, error) {
	i := m.calls
	m.calls++
	m.temperatures = append(m.temperatures, temperature)

	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	var resp string
	if i < len(m.responses) {
		resp = m.responses[i]
	}
	return resp, err
}

func testMeta() types.PaperMetadata {
	return types.PaperMetadata{
		ID:        "2501.00001",
		Title:     "Gradient Descent Revisited",
		Authors:   []string{"Ada Lovelace", "Alan Turing"},
		Abstract:  "We revisit gradient descent.",
		Published: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummarizeSuccess(t *testing.T) {
	backend := &mockBackend{responses: []string{validOutput}}
	s := &Summarizer{Backend: backend, Model: "claude-test"}

	rec, err := s.Summarize(context.Background(), testMeta(), "Sample paper text")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if rec.ArxivID != "2501.00001" {
		t.Errorf("ArxivID = %q", rec.ArxivID)
	}
	if rec.Title != "Gradient Descent Revisited" {
		t.Errorf("Title = %q, want metadata title", rec.Title)
	}
	if len(rec.Authors) != 2 {
		t.Errorf("Authors = %v", rec.Authors)
	}
	if rec.Summary != "A thorough study of gradient descent." {
		t.Errorf("Summary = %q", rec.Summary)
	}
	if len(rec.KeyPoints) != 3 {
		t.Errorf("KeyPoints = %v", rec.KeyPoints)
	}
	if rec.PublishedDate != "2025-01-15" {
		t.Errorf("PublishedDate = %q", rec.PublishedDate)
	}
	if rec.Model != "claude-test" {
		t.Errorf("Model = %q", rec.Model)
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
}

func TestSummarizeRetriesOnceOnMalformedOutput(t *testing.T) {
	backend := &mockBackend{responses: []string{"I cannot summarize this paper.", validOutput}}
	s := &Summarizer{Backend: backend}

	rec, err := s.Summarize(context.Background(), testMeta(), "text")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if rec.Summary == "" {
		t.Error("retry should have produced a record")
	}
	if backend.calls != 2 {
		t.Fatalf("backend called %d times, want exactly 2", backend.calls)
	}
	if backend.temperatures[0] != defaultTemperature || backend.temperatures[1] != 0 {
		t.Errorf("temperatures = %v, want retry at zero", backend.temperatures)
	}
}

func TestSummarizeFailsAfterSingleRetry(t *testing.T) {
	backend := &mockBackend{responses: []string{"garbage", "more garbage"}}
	s := &Summarizer{Backend: backend}

	_, err := s.Summarize(context.Background(), testMeta(), "text")

	var se *SummarizationError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SummarizationError", err)
	}
	if se.PaperID != "2501.00001" {
		t.Errorf("PaperID = %q", se.PaperID)
	}
	if backend.calls != 2 {
		t.Fatalf("backend called %d times, want exactly 2", backend.calls)
	}
}

func TestSummarizeRetriesTransientBackendError(t *testing.T) {
	backend := &mockBackend{
		responses: []string{"", validOutput},
		errs:      []error{errors.New("503 upstream"), nil},
	}
	s := &Summarizer{Backend: backend}

	if _, err := s.Summarize(context.Background(), testMeta(), "text"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend called %d times, want 2", backend.calls)
	}
}

func TestSummarizeCapsKeyPoints(t *testing.T) {
	points := make([]string, 14)
	for i := range points {
		points[i] = fmt.Sprintf("point %d", i)
	}
	out, _ := json.Marshal(map[string]any{
		"summary": "s", "key_points": points,
		"methodology": "", "results": "", "implications": "",
	})

	backend := &mockBackend{responses: []string{string(out)}}
	s := &Summarizer{Backend: backend}

	rec, err := s.Summarize(context.Background(), testMeta(), "text")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(rec.KeyPoints) != maxKeyPoints {
		t.Errorf("len(KeyPoints) = %d, want %d", len(rec.KeyPoints), maxKeyPoints)
	}
}

func TestParseResponseStripsFences(t *testing.T) {
	fenced := "```json\n" + validOutput + "\n```"
	resp, err := parseResponse(fenced)
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}
	if resp.Summary == "" {
		t.Error("fenced JSON should parse")
	}
}

func TestParseResponseRejectsEmptySummary(t *testing.T) {
	if _, err := parseResponse(`{"summary": "  ", "key_points": []}`); err == nil {
		t.Error("blank summary should be rejected")
	}
}

func TestPromptEmbedsMetadata(t *testing.T) {
	prompt, err := renderPrompt(testMeta(), "TRUNCATED TEXT HERE")
	if err != nil {
		t.Fatalf("renderPrompt() error = %v", err)
	}
	for _, want := range []string{
		"Gradient Descent Revisited",
		"Ada Lovelace, Alan Turing",
		"We revisit gradient descent.",
		"TRUNCATED TEXT HERE",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClaudeBackendComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "claude-test" || len(req.Messages) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{{Type: "text", Text: "hello"}},
		})
	}))
	defer ts.Close()

	claudeAPIURL = ts.URL
	backend := &ClaudeBackend{APIKey: "test-key", Model: "claude-test", Client: ts.Client()}

	got, err := backend.Complete(context.Background(), "prompt", 0.2)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Complete() = %q", got)
	}
}

func TestClaudeBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(claudeResponse{
			Error: &claudeError{Type: "invalid_request_error", Message: "bad model"},
		})
	}))
	defer ts.Close()

	claudeAPIURL = ts.URL
	backend := &ClaudeBackend{APIKey: "k", Model: "m", Client: ts.Client()}

	if _, err := backend.Complete(context.Background(), "prompt", 0.2); err == nil {
		t.Fatal("expected error for HTTP 400")
	}
}
