// Package llm holds prompt handling shared by the LLM provider adapters
// in its subpackages.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// DefaultSummarisePrompt is used when no PromptStore is configured.
const DefaultSummarisePrompt = `Summarise the following Reddit thread in %d characters or less.
Capture the original question, the main answers and any consensus.
Return only the summary text.

Thread:
%s

Summary:`

// Prompts resolves prompt templates from an optional store.
type Prompts struct {
	store driven.PromptStore
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (p *Prompts) SetPromptStore(store driven.PromptStore) {
	p.store = store
}

// Load returns the stored template for name, or fallback when the store
// is unset or cannot serve it.
func (p *Prompts) Load(name, fallback string) string {
	if p.store == nil {
		return fallback
	}
	prompt, err := p.store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// Summarise renders the summarise prompt and runs it through generate.
// Output is trimmed; callers still enforce the hard length limit.
func Summarise(
	ctx context.Context,
	p *Prompts,
	generate func(context.Context, string, driven.GenerateOptions) (string, error),
	content string,
	maxLength int,
) (string, error) {
	prompt := fmt.Sprintf(p.Load(driven.PromptSummarise, DefaultSummarisePrompt), maxLength, content)

	// Rough estimate: 4 chars per token, with headroom.
	tokens := max(maxLength/3, 64)
	out, err := generate(ctx, prompt, driven.GenerateOptions{MaxTokens: tokens, Temperature: 0.3})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(out), nil
}
