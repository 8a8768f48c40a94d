package domain

import "time"

// ResultFilter narrows a pipeline result for display.
// The zero value keeps every item.
type ResultFilter struct {
	// MaxAgeDays drops posts older than this many days (0 disables).
	MaxAgeDays int

	// TextOnly drops posts without self-text.
	TextOnly bool

	// Intent keeps only items classified with this intent (empty disables).
	Intent Intent
}

// IsZero returns true if the filter keeps everything.
func (f ResultFilter) IsZero() bool {
	return f.MaxAgeDays <= 0 && !f.TextOnly && f.Intent == ""
}

// Match reports whether an item passes the filter.
func (f ResultFilter) Match(it ResultItem, now time.Time) bool {
	if f.MaxAgeDays > 0 {
		cutoff := now.Add(-time.Duration(f.MaxAgeDays) * 24 * time.Hour)
		if it.Post.CreatedAt.Before(cutoff) {
			return false
		}
	}
	if f.TextOnly && !it.Post.HasBody() {
		return false
	}
	if f.Intent != "" {
		if it.Classification == nil || it.Classification.Intent != f.Intent {
			return false
		}
	}
	return true
}
