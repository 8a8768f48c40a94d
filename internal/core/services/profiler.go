package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// Ensure Profiler implements the interface.
var _ driving.ProfileService = (*Profiler)(nil)

const profileFallbackPrompt = `Describe the author of this Reddit post.
Respond with a JSON object: {"emotion": "", "core_belief": "", "attempted_solutions": [], "perceived_blockers": [], "external_forces": [], "quote": ""}

Title: %s
Body: %s`

// profileMaxTokens bounds the profile reply.
const profileMaxTokens = 400

// profileListCap bounds each list in a profile.
const profileListCap = 5

// Profiler produces a psychographic reading of one post.
type Profiler struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	maxInput int
}

// NewProfiler creates a profiler. maxInput is the rune budget for title plus body.
func NewProfiler(llm driven.LLMService, prompts driven.PromptStore, maxInput int) *Profiler {
	if maxInput <= 0 {
		maxInput = domain.DefaultAppSettings().Classifier.MaxInputChars
	}
	return &Profiler{llm: llm, prompts: prompts, maxInput: maxInput}
}

// Profile asks the LLM about post. Unlike classification, a reply that cannot
// be parsed is returned as domain.ErrMalformedResponse.
func (p *Profiler) Profile(ctx context.Context, post domain.Post) (*domain.Profile, error) {
	if strings.TrimSpace(post.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if p.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	logger.Section("Profile")

	title := truncateRunes(strings.TrimSpace(post.Title), p.maxInput)
	body := truncateRunes(strings.TrimSpace(post.Body), p.maxInput-len([]rune(title)))
	if body == "" {
		body = "(no body)"
	}

	raw, err := p.llm.Generate(ctx, fmt.Sprintf(p.template(), title, body), driven.GenerateOptions{
		MaxTokens:   profileMaxTokens,
		Temperature: 0.2,
		System:      classifySystem,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	profile, err := parseProfile(raw)
	if err != nil {
		logger.Debug("Unparseable profile for %s: %q", post.ID, truncateRunes(raw, 120))
		return nil, err
	}
	profile.PostID = post.ID
	return profile, nil
}

func (p *Profiler) template() string {
	if p.prompts == nil {
		return profileFallbackPrompt
	}
	tmpl, err := p.prompts.Load(driven.PromptProfile)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return profileFallbackPrompt
	}
	return tmpl
}

type profileResponse struct {
	Emotion            string    `json:"emotion"`
	CoreBelief         string    `json:"core_belief"`
	AttemptedSolutions flexwords `json:"attempted_solutions"`
	PerceivedBlockers  flexwords `json:"perceived_blockers"`
	ExternalForces     flexwords `json:"external_forces"`
	Quote              string    `json:"quote"`
}

// flexwords accepts either a JSON list of strings or a single string.
type flexwords []string

func (f *flexwords) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s != "" {
		*f = []string{s}
	}
	return nil
}

func parseProfile(raw string) (*domain.Profile, error) {
	obj := jsonObject(raw)
	if obj == "" {
		return nil, fmt.Errorf("%w: no JSON object in profile", domain.ErrMalformedResponse)
	}
	var resp profileResponse
	if err := json.Unmarshal([]byte(obj), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	profile := &domain.Profile{
		Emotion:            normaliseNone(resp.Emotion),
		CoreBelief:         normaliseNone(resp.CoreBelief),
		AttemptedSolutions: cleanList(resp.AttemptedSolutions, profileListCap),
		PerceivedBlockers:  cleanList(resp.PerceivedBlockers, profileListCap),
		ExternalForces:     cleanList(resp.ExternalForces, profileListCap),
		Quote:              strings.Trim(normaliseNone(resp.Quote), `"`),
	}
	if profile.IsEmpty() {
		return nil, fmt.Errorf("%w: profile is empty", domain.ErrMalformedResponse)
	}
	return profile, nil
}
