// Package prompt holds the built-in summarisation prompts and renders
// templates loaded from a driven.PromptStore.
package prompt

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

// Defaults are the built-in templates. Each takes %d (max length in
// characters) followed by %s (content).
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var Defaults = map[string]string{
	driven.PromptChunkSummary: `You are helping an investment analyst review material about a company.
Summarise the following excerpt in %d characters or less.
Keep figures, names, products, markets and risks. Do not add information that is not in the excerpt.

Excerpt:
%s

Summary:`,

	driven.PromptFinalSummary: `The following text is a sequence of summaries of consecutive parts of one document.
Combine them into a single coherent summary of %d characters or less, written for an investment analyst.
Remove repetition and keep every material fact.

Summaries:
%s

Combined summary:`,
}

// Names returns the built-in prompt names in a stable order.
func Names() []string {
	return []string{driven.PromptChunkSummary, driven.PromptFinalSummary}
}

// Load returns the named template from store, or the built-in default
// when store is nil or cannot provide it.
func Load(store driven.PromptStore, name string) (string, error) {
	if store != nil {
		if tmpl, err := store.Load(name); err == nil && tmpl != "" {
			return tmpl, nil
		}
	}
	if tmpl, ok := Defaults[name]; ok {
		return tmpl, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// Render fills a summary template with maxLength and content.
func Render(store driven.PromptStore, name string, maxLength int, content string) (string, error) {
	tmpl, err := Load(store, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, maxLength, content), nil
}

// MaxTokens estimates a generation budget for maxLength characters.
func MaxTokens(maxLength int) int {
	if maxLength <= 0 {
		return 0
	}
	// Rough estimate: 4 chars per token
	return maxLength/4 + 1
}

// Clean trims model output.
func Clean(s string) string {
	return strings.TrimSpace(s)
}
