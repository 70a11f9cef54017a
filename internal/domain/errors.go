package domain

import "errors"

// Terminal error categories. Operations wrap the underlying cause with one
// of these sentinels; callers branch with errors.Is.
var (
	// ErrFetch covers network and HTTP failures while downloading a page.
	ErrFetch = errors.New("fetch failed")

	// ErrExtraction means no title or no body text was found in a page.
	ErrExtraction = errors.New("extraction failed")

	// ErrGeneration covers text-generation model failures.
	ErrGeneration = errors.New("generation failed")

	// ErrStorage covers embedding and index write/read failures.
	ErrStorage = errors.New("storage failed")

	// ErrSearch covers index query failures and related-search generation.
	ErrSearch = errors.New("search failed")
)
