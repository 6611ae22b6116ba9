// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "fmt"

// FetchError marks a failure to download the PDF: network error, non-200
// response, or an unexpected content type. The orchestrator logs it as a
// per-paper cause and moves on.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError marks a downloaded document that could not be parsed:
// corrupt, encrypted, or containing no extractable text.
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
