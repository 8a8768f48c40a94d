package domain

import (
	"strings"
	"time"
)

// SearchScope selects how a query term is interpreted.
type SearchScope string

// Available scopes.
const (
	// ScopeKeyword searches all of Reddit for the term.
	ScopeKeyword SearchScope = "keyword"

	// ScopeSubreddit lists posts from the community named by the term.
	ScopeSubreddit SearchScope = "subreddit"
)

// IsValid returns true if the scope is recognised.
func (s SearchScope) IsValid() bool {
	return s == ScopeKeyword || s == ScopeSubreddit
}

// String returns the string representation.
func (s SearchScope) String() string {
	return string(s)
}

// SortOrder is the listing order requested from the platform.
type SortOrder string

// Available sort orders.
const (
	SortNew       SortOrder = "new"
	SortRelevance SortOrder = "relevance"
	SortHot       SortOrder = "hot"
	SortTop       SortOrder = "top"
	SortComments  SortOrder = "comments"
)

// TimeWindow restricts results to a recent period (search and top listings only).
type TimeWindow string

// Available time windows.
const (
	TimeHour  TimeWindow = "hour"
	TimeDay   TimeWindow = "day"
	TimeWeek  TimeWindow = "week"
	TimeMonth TimeWindow = "month"
	TimeYear  TimeWindow = "year"
	TimeAll   TimeWindow = "all"
)

// Query limits.
const (
	// MinQueryLimit is the smallest accepted page size.
	MinQueryLimit = 1

	// MaxQueryLimit is the largest page Reddit returns in a single listing.
	MaxQueryLimit = 100

	// DefaultQueryLimit is used when no limit is supplied.
	DefaultQueryLimit = 25
)

// SearchQuery describes what to fetch. It is immutable once built.
type SearchQuery struct {
	// Term is the keyword, or the community name when Scope is subreddit.
	Term string `json:"term" validate:"required,max=512"`

	// Scope selects keyword search or community listing.
	Scope SearchScope `json:"scope" validate:"required,oneof=keyword subreddit"`

	// Limit is the maximum number of posts returned.
	Limit int `json:"limit" validate:"min=1,max=100"`

	// Sort is the listing order (default new).
	Sort SortOrder `json:"sort,omitempty" validate:"omitempty,oneof=new relevance hot top comments"`

	// Time is the recency window (default all).
	Time TimeWindow `json:"time,omitempty" validate:"omitempty,oneof=hour day week month year all"`
}

// NewSearchQuery builds a query with defaults applied.
// Subreddit terms have any "r/" prefix removed.
func NewSearchQuery(term string, scope SearchScope, limit int) SearchQuery {
	term = strings.TrimSpace(term)
	if scope == ScopeSubreddit {
		term = strings.TrimPrefix(strings.TrimPrefix(term, "/"), "r/")
	}
	if limit == 0 {
		limit = DefaultQueryLimit
	}
	return SearchQuery{
		Term:  term,
		Scope: scope,
		Limit: limit,
		Sort:  SortNew,
		Time:  TimeAll,
	}
}

// WithSort returns a copy of the query with the given order.
func (q SearchQuery) WithSort(s SortOrder) SearchQuery {
	q.Sort = s
	return q
}

// WithTime returns a copy of the query with the given window.
func (q SearchQuery) WithTime(t TimeWindow) SearchQuery {
	q.Time = t
	return q
}

// Post is a normalised Reddit submission. Identity is ID.
type Post struct {
	// ID is the platform's base36 post id (without the t3_ prefix).
	ID string `json:"id"`

	// Title is the post title (non-empty for valid posts).
	Title string `json:"title"`

	// Body is the self-text; empty for link and media posts.
	Body string `json:"body"`

	// URL is the thread permalink.
	URL string `json:"url"`

	// LinkURL is the outbound link for link posts.
	LinkURL string `json:"link_url,omitempty"`

	// Subreddit is the community name without the r/ prefix.
	Subreddit string `json:"subreddit"`

	// Author is the poster's username.
	Author string `json:"author"`

	// CreatedAt is the submission time in UTC.
	CreatedAt time.Time `json:"created_at"`

	// Score is the net vote count.
	Score int `json:"score"`

	// CommentCount is the number of comments.
	CommentCount int `json:"comment_count"`
}

// HasBody returns true if the post carries self-text.
func (p Post) HasBody() bool {
	return strings.TrimSpace(p.Body) != ""
}
