package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

func TestProfiler_Profile(t *testing.T) {
	llm := &mockLLM{generate: func(string) (string, error) {
		return `Here you go:
{"emotion": "Frustrated", "core_belief": "Nobody hires juniors", "attempted_solutions": ["bootcamp", "None", "side projects"], "perceived_blockers": "no experience", "external_forces": [], "quote": "\"I feel stuck\""}`, nil
	}}

	got, err := NewProfiler(llm, nil, 0).Profile(context.Background(), domain.Post{ID: "p9", Title: "Can't get a job", Body: "..."})
	require.NoError(t, err)

	assert.Equal(t, "p9", got.PostID)
	assert.Equal(t, "Frustrated", got.Emotion)
	assert.Equal(t, "Nobody hires juniors", got.CoreBelief)
	assert.Equal(t, []string{"bootcamp", "side projects"}, got.AttemptedSolutions)
	assert.Equal(t, []string{"no experience"}, got.PerceivedBlockers)
	assert.Empty(t, got.ExternalForces)
	assert.Equal(t, "I feel stuck", got.Quote)
}

func TestProfiler_NoneBecomesEmpty(t *testing.T) {
	llm := &mockLLM{generate: func(string) (string, error) {
		return `{"emotion": "hopeful", "core_belief": "None", "quote": "N/A"}`, nil
	}}

	got, err := NewProfiler(llm, nil, 0).Profile(context.Background(), domain.Post{ID: "p", Title: "T"})
	require.NoError(t, err)

	assert.Equal(t, "hopeful", got.Emotion)
	assert.Empty(t, got.CoreBelief)
	assert.Empty(t, got.Quote)
}

func TestProfiler_Malformed(t *testing.T) {
	for _, reply := range []string{"I can't do that", `{"emotion": `, `{"emotion": "none", "quote": ""}`} {
		t.Run(reply, func(t *testing.T) {
			llm := &mockLLM{generate: func(string) (string, error) { return reply, nil }}

			_, err := NewProfiler(llm, nil, 0).Profile(context.Background(), domain.Post{ID: "p", Title: "T"})

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestProfiler_Errors(t *testing.T) {
	_, err := NewProfiler(&mockLLM{}, nil, 0).Profile(context.Background(), domain.Post{ID: "p"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewProfiler(nil, nil, 0).Profile(context.Background(), domain.Post{ID: "p", Title: "T"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	_, err = NewProfiler(&mockLLM{err: domain.NewStatusError("anthropic", 429, 0, "")}, nil, 0).
		Profile(context.Background(), domain.Post{ID: "p", Title: "T"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
