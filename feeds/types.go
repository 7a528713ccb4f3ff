// Package feeds turns RSS/Atom documents into normalized entries that are
// ready to be posted
package feeds

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Fetcher retrieves and parses a feed into its items
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]*gofeed.Item, error)
}

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

// LanguageDetector guesses the ISO 639-1 code of a text
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// ParseError is returned when an entry has no usable timestamp
type ParseError struct {
	EntryURL string
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("entry %s: missing %s time", e.EntryURL, e.Field)
	}
	return fmt.Sprintf("entry %s: invalid %s time %q: %v", e.EntryURL, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
