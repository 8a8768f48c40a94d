package domain

import "time"

// BatchState is the lifecycle stage of one pipeline run.
type BatchState string

// Pipeline states. A run moves strictly forward.
const (
	StateFetching    BatchState = "fetching"
	StateClassifying BatchState = "classifying"
	StateAggregated  BatchState = "aggregated"
	StateCancelled   BatchState = "cancelled"
)

// ItemStatus is the outcome of classifying one post.
type ItemStatus string

// Item statuses.
const (
	// StatusClassified means a classification is attached.
	StatusClassified ItemStatus = "classified"

	// StatusFailed means classification gave up with an error.
	StatusFailed ItemStatus = "failed"

	// StatusPending means the post was never processed (the run was cancelled first).
	StatusPending ItemStatus = "pending"
)

// ResultItem pairs a post with its classification or error.
// Exactly one of Classification and Err is set unless Status is pending.
type ResultItem struct {
	Post           Post            `json:"post"`
	Classification *Classification `json:"classification,omitempty"`
	Err            *ItemError      `json:"error,omitempty"`
	Status         ItemStatus      `json:"status"`
	Attempts       int             `json:"attempts,omitempty"`
}

// PipelineResult is the ordered outcome of one run.
// Items follow the Fetcher's order and hold one entry per distinct post id.
type PipelineResult struct {
	RunID      string       `json:"run_id"`
	Query      SearchQuery  `json:"query"`
	State      BatchState   `json:"state"`
	Items      []ResultItem `json:"items"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// NewPendingItems builds one pending slot per post, preserving order.
func NewPendingItems(posts []Post) []ResultItem {
	items := make([]ResultItem, len(posts))
	for i, p := range posts {
		items[i] = ResultItem{Post: p, Status: StatusPending}
	}
	return items
}

// Counts tallies items by status.
func (r *PipelineResult) Counts() map[ItemStatus]int {
	counts := map[ItemStatus]int{
		StatusClassified: 0,
		StatusFailed:     0,
		StatusPending:    0,
	}
	for _, it := range r.Items {
		counts[it.Status]++
	}
	return counts
}

// IntentCounts tallies classified items by intent.
func (r *PipelineResult) IntentCounts() map[Intent]int {
	counts := make(map[Intent]int)
	for _, it := range r.Items {
		if it.Classification != nil {
			counts[it.Classification.Intent]++
		}
	}
	return counts
}

// SentimentCounts tallies classified items by sentiment.
func (r *PipelineResult) SentimentCounts() map[Sentiment]int {
	counts := make(map[Sentiment]int)
	for _, it := range r.Items {
		if it.Classification != nil {
			counts[it.Classification.Sentiment]++
		}
	}
	return counts
}

// Duration returns how long the run took.
func (r *PipelineResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Filter returns a copy of the result keeping only items that match f.
// Order is preserved.
func (r *PipelineResult) Filter(f ResultFilter, now time.Time) *PipelineResult {
	out := *r
	out.Items = make([]ResultItem, 0, len(r.Items))
	for _, it := range r.Items {
		if f.Match(it, now) {
			out.Items = append(out.Items, it)
		}
	}
	return &out
}

// FilterOrAll applies f like Filter, but returns r unchanged when f would
// remove every item of a non-empty result. The second result reports
// whether that fallback happened.
func (r *PipelineResult) FilterOrAll(f ResultFilter, now time.Time) (*PipelineResult, bool) {
	if f.IsZero() {
		return r, false
	}
	out := r.Filter(f, now)
	if len(out.Items) == 0 && len(r.Items) > 0 {
		return r, true
	}
	return out, false
}
