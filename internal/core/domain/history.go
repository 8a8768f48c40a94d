package domain

import "time"

// HistoryEntry records a past query. Results are never stored.
type HistoryEntry struct {
	ID          int64       `json:"id"`
	Term        string      `json:"term"`
	Scope       SearchScope `json:"scope"`
	Limit       int         `json:"limit"`
	ResultCount int         `json:"result_count"`
	SearchedAt  time.Time   `json:"searched_at"`
}

// DefaultHistoryLimit is how many entries are kept and listed.
const DefaultHistoryLimit = 20
