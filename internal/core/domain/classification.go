package domain

import "strings"

// Intent is the purpose of a post as judged by the classifier.
type Intent string

// Available intents.
const (
	IntentQuestion   Intent = "question"
	IntentPainPoint  Intent = "pain_point"
	IntentAdvice     Intent = "advice"
	IntentDiscussion Intent = "discussion"
	IntentOther      Intent = "other"
)

// AllIntents lists every intent in display order.
func AllIntents() []Intent {
	return []Intent{IntentQuestion, IntentPainPoint, IntentAdvice, IntentDiscussion, IntentOther}
}

// IsValid returns true if the intent is recognised.
func (i Intent) IsValid() bool {
	switch i {
	case IntentQuestion, IntentPainPoint, IntentAdvice, IntentDiscussion, IntentOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// Description returns a human-readable label.
func (i Intent) Description() string {
	switch i {
	case IntentQuestion:
		return "Question"
	case IntentPainPoint:
		return "Pain point"
	case IntentAdvice:
		return "Advice"
	case IntentDiscussion:
		return "Discussion"
	case IntentOther:
		return "Other"
	default:
		return unknownDescription
	}
}

// ParseIntent matches a label exactly, case-insensitively, after trimming
// whitespace. The second result is false when the label is not one of the
// fixed intents.
func ParseIntent(label string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(label)))
	if !i.IsValid() {
		return IntentOther, false
	}
	return i, true
}

// Sentiment is the overall emotional tone of a post.
type Sentiment string

// Available sentiments.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
	SentimentUnknown  Sentiment = "unknown"
)

// ParseSentiment matches a label case-insensitively, defaulting to unknown.
func ParseSentiment(label string) Sentiment {
	s := Sentiment(strings.ToLower(strings.TrimSpace(label)))
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed:
		return s
	default:
		return SentimentUnknown
	}
}

// MaxTopics is the number of topic tags kept per classification.
const MaxTopics = 3

// Classification is the classifier's verdict for one post.
type Classification struct {
	// PostID identifies the classified post.
	PostID string `json:"post_id"`

	// Intent is one of the fixed intents.
	Intent Intent `json:"intent"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence"`

	// Rationale is a short justification, possibly empty.
	Rationale string `json:"rationale,omitempty"`

	// Sentiment is the post's tone.
	Sentiment Sentiment `json:"sentiment,omitempty"`

	// Topics holds up to MaxTopics short tags.
	Topics []string `json:"topics,omitempty"`

	// Cached is true when the result was served from the classification cache.
	Cached bool `json:"cached,omitempty"`
}

// FallbackClassification is the verdict recorded when the model output cannot be understood.
func FallbackClassification(postID, rationale string) Classification {
	return Classification{
		PostID:     postID,
		Intent:     IntentOther,
		Confidence: 0,
		Rationale:  rationale,
		Sentiment:  SentimentUnknown,
	}
}

// ClampConfidence forces c into [0, 1].
func ClampConfidence(c float64) float64 {
	switch {
	case c != c: // NaN
		return 0
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
