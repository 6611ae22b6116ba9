// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperMetadata holds catalog metadata for one paper. It is sourced from
// the arXiv API and never mutated after fetch.
type PaperMetadata struct {
	// ID is the catalog-assigned identifier (e.g. "2501.00001"), unique
	// within one fetch.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PDFURL is the download location for the paper PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Published is the publication date reported by the catalog.
	Published time.Time `json:"published" yaml:"published"`

	// Categories lists the subject categories (e.g. "cs.LG").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}
