package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// defaultConfidence is used when the model names a valid intent but omits a confidence.
const defaultConfidence = 0.5

const classifySystem = "You are a precise classifier. Answer with JSON only."

// classifyFallbackPrompt is used when no prompt store is configured.
const classifyFallbackPrompt = `Classify the intent of this Reddit post as one of: question, pain_point, advice, discussion, other.
Respond with a JSON object: {"intent": "...", "confidence": 0.0-1.0, "rationale": "...", "sentiment": "positive|neutral|negative|mixed", "topics": ["..."]}

Title: %s
Body: %s`

// IntentClassifier labels posts with an intent using the LLM.
// Malformed model output never fails a call: it becomes an "other" verdict
// with zero confidence. Only transport failures are returned.
type IntentClassifier struct {
	llm      driven.LLMService
	cache    driven.ClassificationCache
	prompts  driven.PromptStore
	settings domain.ClassifierSettings
}

// NewIntentClassifier creates a classifier. cache and prompts may be nil.
func NewIntentClassifier(
	llm driven.LLMService,
	cache driven.ClassificationCache,
	prompts driven.PromptStore,
	settings domain.ClassifierSettings,
) *IntentClassifier {
	return &IntentClassifier{
		llm:      llm,
		cache:    cache,
		prompts:  prompts,
		settings: settings,
	}
}

// Classify returns the intent of post.
func (c *IntentClassifier) Classify(ctx context.Context, post domain.Post) (domain.Classification, error) {
	if strings.TrimSpace(post.Title) == "" {
		return domain.Classification{}, fmt.Errorf("%w: post %s has no title", domain.ErrInvalidInput, post.ID)
	}
	if c.llm == nil {
		return domain.Classification{}, domain.ErrLLMUnavailable
	}

	key := CacheKey(post.Title, post.Body)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			cached.PostID = post.ID
			cached.Cached = true
			return cached, nil
		}
	}

	raw, err := c.llm.Generate(ctx, c.buildPrompt(post), driven.GenerateOptions{
		MaxTokens:   c.settings.MaxOutputTokens,
		Temperature: c.settings.Temperature,
		System:      classifySystem,
		JSON:        true,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindMalformed {
			logger.Debug("Malformed LLM response for %s: %v", post.ID, err)
			return domain.FallbackClassification(post.ID, "model response was malformed"), nil
		}
		return domain.Classification{}, err
	}

	result, ok := parseClassification(raw)
	if !ok {
		logger.Debug("Unparseable classification for %s: %q", post.ID, truncateRunes(raw, 120))
		return domain.FallbackClassification(post.ID, "model output could not be parsed"), nil
	}
	result.PostID = post.ID

	if c.cache != nil {
		c.cache.Put(key, result)
	}
	return result, nil
}

// CacheKey derives the classification cache key from a post's content.
func CacheKey(title, body string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + body))
	return hex.EncodeToString(sum[:])
}

// buildPrompt fills the template with title and body cut to the rune budget.
// The title is kept whole when it fits; the body gets what is left.
func (c *IntentClassifier) buildPrompt(post domain.Post) string {
	budget := c.settings.MaxInputChars
	if budget <= 0 {
		budget = domain.DefaultAppSettings().Classifier.MaxInputChars
	}
	title := truncateRunes(strings.TrimSpace(post.Title), budget)
	body := truncateRunes(strings.TrimSpace(post.Body), budget-len([]rune(title)))
	if body == "" {
		body = "(no body)"
	}
	return fmt.Sprintf(c.template(), title, body)
}

func (c *IntentClassifier) template() string {
	if c.prompts == nil {
		return classifyFallbackPrompt
	}
	tmpl, err := c.prompts.Load(driven.PromptClassifyIntent)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return classifyFallbackPrompt
	}
	return tmpl
}

type classificationResponse struct {
	Intent     string          `json:"intent"`
	Confidence json.RawMessage `json:"confidence"`
	Rationale  string          `json:"rationale"`
	Sentiment  string          `json:"sentiment"`
	Topics     []string        `json:"topics"`
}

// parseClassification reads a model reply. It accepts a JSON object
// (optionally fenced or wrapped in prose) or a bare intent label.
// The second result is false when no known intent could be found.
func parseClassification(raw string) (domain.Classification, bool) {
	if obj := jsonObject(raw); obj != "" {
		var resp classificationResponse
		if err := json.Unmarshal([]byte(obj), &resp); err == nil {
			intent, ok := domain.ParseIntent(resp.Intent)
			if !ok {
				return domain.Classification{}, false
			}
			conf, ok := parseConfidence(resp.Confidence)
			if !ok {
				conf = defaultConfidence
			}
			return domain.Classification{
				Intent:     intent,
				Confidence: domain.ClampConfidence(conf),
				Rationale:  strings.TrimSpace(resp.Rationale),
				Sentiment:  domain.ParseSentiment(resp.Sentiment),
				Topics:     cleanList(resp.Topics, domain.MaxTopics),
			}, true
		}
	}

	intent, ok := parseBareLabel(raw)
	if !ok {
		return domain.Classification{}, false
	}
	return domain.Classification{
		Intent:     intent,
		Confidence: defaultConfidence,
		Sentiment:  domain.SentimentUnknown,
	}, true
}

// parseConfidence accepts a JSON number or a numeric string.
func parseConfidence(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0, false
	}
	if strings.HasSuffix(strings.TrimSpace(s), "%") {
		f /= 100
	}
	return f, true
}

// parseBareLabel accepts a reply that is nothing but the label, such as
// "Question". Code fences around it are ignored.
func parseBareLabel(raw string) (domain.Intent, bool) {
	return domain.ParseIntent(stripFences(raw))
}
