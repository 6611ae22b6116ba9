// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
)

// AuthorList is an ordered list of author names. Stored records written by
// earlier versions of the pipeline sometimes hold a single comma-separated
// string instead of a JSON array; unmarshaling normalizes both shapes so the
// rendering layer only ever sees a list.
type AuthorList []string

// UnmarshalJSON accepts either a JSON array of strings or a single string.
func (a *AuthorList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}

	*a = nil
	for _, name := range strings.Split(single, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*a = append(*a, name)
		}
	}
	return nil
}

// SummaryRecord is the persisted structured summary for one paper. The
// storage identity is (stored date, ArxivID); a rerun for the same id
// overwrites the record in place.
type SummaryRecord struct {
	// ArxivID is the catalog identifier of the summarized paper.
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title, taken from catalog metadata.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors, taken from catalog metadata.
	Authors AuthorList `json:"authors" yaml:"authors"`

	// Summary is a paraphrase of the paper produced by the model.
	Summary string `json:"summary" yaml:"summary"`

	// KeyPoints holds short takeaways in model order. Rendering truncates
	// to the first five; storage caps at ten.
	KeyPoints []string `json:"key_points" yaml:"key_points"`

	// Methodology describes the methods used.
	Methodology string `json:"methodology" yaml:"methodology"`

	// Results summarizes the main results.
	Results string `json:"results" yaml:"results"`

	// Implications describes potential applications.
	Implications string `json:"implications" yaml:"implications"`

	// PublishedDate is the paper's publication date (ISO, YYYY-MM-DD).
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// StoredDate is the date partition the record was written under.
	StoredDate string `json:"stored_date,omitempty" yaml:"stored_date,omitempty"`

	// Model identifies the model that produced the summary.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}
