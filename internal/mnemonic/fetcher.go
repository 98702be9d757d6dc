package mnemonic

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/snonux/palabra/internal/ai"
	"codeberg.org/snonux/palabra/internal/translation"
)

// Fetcher handles fetching mnemonic hints
type Fetcher struct {
	model ai.TextModel
	guard *ai.Guard
}

// NewFetcher creates a new mnemonic hint fetcher
func NewFetcher(model ai.TextModel, guard *ai.Guard) *Fetcher {
	if guard == nil {
		guard = ai.NewGuard(ai.GuardConfig{Name: "mnemonic"})
	}
	return &Fetcher{model: model, guard: guard}
}

// SystemPrompt returns the instruction that pins the hint language
func SystemPrompt(lang string) string {
	return fmt.Sprintf("You are a professional Spanish teacher. You explain mnemonics ONLY in %s.",
		translation.TargetName(lang))
}

// Prompt builds the hint request
func Prompt(spanish, meaning, lang string) string {
	return fmt.Sprintf("Help me remember the Spanish word %q (which means %q). "+
		"Give me a 1-sentence mnemonic hint in %s. DO NOT use Spanish in the explanation.",
		spanish, meaning, translation.TargetName(lang))
}

// Hint returns a mnemonic for spanish, or "" if none could be produced.
// The error result is always nil; it exists so Fetcher satisfies the
// hinter interface used by the quiz.
func (f *Fetcher) Hint(ctx context.Context, spanish, meaning, lang string) (string, error) {
	if f.model == nil || strings.TrimSpace(spanish) == "" {
		return "", nil
	}
	hint := ai.Call(ctx, f.guard, "mnemonic", "", func(ctx context.Context) (string, error) {
		return f.model.Generate(ctx, SystemPrompt(lang), Prompt(spanish, meaning, lang))
	})
	return strings.TrimSpace(hint), nil
}
