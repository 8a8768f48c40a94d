package domain

import (
	"net/url"
	"strings"
)

// ThreadSummary is the condensed form of a full discussion thread.
type ThreadSummary struct {
	// PostID is the Reddit post id when SourceURL is a Reddit thread, else empty.
	PostID string `json:"post_id,omitempty"`

	// Title is the page title reported by the extractor.
	Title string `json:"title,omitempty"`

	// Text is the summary, no longer than the configured maximum.
	Text string `json:"summary"`

	// SourceURL is the thread that was summarised.
	SourceURL string `json:"source_url"`

	// Truncated is true when the model's output was cut to fit.
	Truncated bool `json:"truncated,omitempty"`

	// MainTopics are the most frequent content words of the thread.
	MainTopics []string `json:"main_topics,omitempty"`

	// Metadata describes the extracted page.
	Metadata SummaryMetadata `json:"metadata"`
}

// WordsPerMinute is the reading speed behind SummaryMetadata.ReadingMinutes.
const WordsPerMinute = 200

// SummaryMetadata describes the page a summary was built from.
type SummaryMetadata struct {
	Domain         string `json:"domain"`
	WordCount      int    `json:"word_count"`
	ReadingMinutes int    `json:"estimated_reading_time"`
}

// NewSummaryMetadata derives page metadata from the source URL and the
// extracted text. Reading time rounds up and is zero only for empty text.
func NewSummaryMetadata(rawURL, text string) SummaryMetadata {
	md := SummaryMetadata{WordCount: len(strings.Fields(text))}
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		md.Domain = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	if md.WordCount > 0 {
		md.ReadingMinutes = (md.WordCount + WordsPerMinute - 1) / WordsPerMinute
	}
	return md
}

// ExtractedContent is the readable content of a web page.
type ExtractedContent struct {
	URL   string
	Title string
	Text  string
}

// PostIDFromURL returns the post id embedded in a Reddit thread URL
// (https://www.reddit.com/r/<sub>/comments/<id>/<slug>/ or https://redd.it/<id>).
func PostIDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	if host == "redd.it" && len(parts) == 1 {
		return parts[0]
	}
	if host != "reddit.com" && !strings.HasSuffix(host, ".reddit.com") {
		return ""
	}
	for i, p := range parts {
		if p == "comments" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
