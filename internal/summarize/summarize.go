// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces structured natural-language summaries of
// papers through a generative AI backend.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// maxKeyPoints caps stored key points; rendering truncates further.
const maxKeyPoints = 10

// defaultTemperature is used on the first attempt; the single retry drops
// to zero to coax schema-conformant output from a model that refused or
// rambled the first time.
const defaultTemperature = 0.2

// Backend issues one structured-completion request. Implementations must
// honor ctx cancellation. The production backend is ClaudeBackend; tests
// supply mocks.
type Backend interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// SummarizationError marks a summary that could not be produced after the
// retry: service failure, timeout, or persistently malformed output.
type SummarizationError struct {
	PaperID string
	Err     error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarizing %s: %v", e.PaperID, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// responseJSON is the schema the model is instructed to return. All fields
// are always present downstream, though possibly empty.
type responseJSON struct {
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"key_points"`
	Methodology  string   `json:"methodology"`
	Results      string   `json:"results"`
	Implications string   `json:"implications"`
}

// Summarizer turns extracted paper text into SummaryRecords.
type Summarizer struct {
	Backend Backend

	// Model is stamped into produced records for provenance.
	Model string
}

// Summarize builds one prompt from the metadata and extracted text, calls
// the backend, and parses the structured response. Malformed output gets
// exactly one retry at temperature zero before the paper is given up on.
// Identity fields always come from the metadata, never from model output.
func (s *Summarizer) Summarize(ctx context.Context, meta types.PaperMetadata, text string) (*types.SummaryRecord, error) {
	prompt, err := renderPrompt(meta, text)
	if err != nil {
		return nil, &SummarizationError{PaperID: meta.ID, Err: fmt.Errorf("rendering prompt: %w", err)}
	}

	resp, err := s.complete(ctx, meta.ID, prompt)
	if err != nil {
		return nil, err
	}

	keyPoints := resp.KeyPoints
	if len(keyPoints) > maxKeyPoints {
		keyPoints = keyPoints[:maxKeyPoints]
	}

	rec := &types.SummaryRecord{
		ArxivID:      meta.ID,
		Title:        meta.Title,
		Authors:      types.AuthorList(meta.Authors),
		Summary:      resp.Summary,
		KeyPoints:    keyPoints,
		Methodology:  resp.Methodology,
		Results:      resp.Results,
		Implications: resp.Implications,
		Model:        s.Model,
	}
	if !meta.Published.IsZero() {
		rec.PublishedDate = meta.Published.Format("2006-01-02")
	}
	return rec, nil
}

// complete calls the backend and validates the response, retrying once at
// temperature zero on malformed output or a transient call failure.
func (s *Summarizer) complete(ctx context.Context, paperID, prompt string) (*responseJSON, error) {
	raw, err := s.Backend.Complete(ctx, prompt, defaultTemperature)
	if err == nil {
		if resp, parseErr := parseResponse(raw); parseErr == nil {
			return resp, nil
		} else {
			err = parseErr
		}
	}

	raw, retryErr := s.Backend.Complete(ctx, prompt, 0)
	if retryErr != nil {
		return nil, &SummarizationError{PaperID: paperID, Err: fmt.Errorf("retry after %v: %w", err, retryErr)}
	}
	resp, parseErr := parseResponse(raw)
	if parseErr != nil {
		return nil, &SummarizationError{PaperID: paperID, Err: fmt.Errorf("retry after %v: %w", err, parseErr)}
	}
	return resp, nil
}

// parseResponse decodes the model output, tolerating markdown fences, and
// enforces the output contract: valid JSON with a non-empty summary.
func parseResponse(raw string) (*responseJSON, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var resp responseJSON
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return nil, fmt.Errorf("model output missing summary")
	}
	return &resp, nil
}
