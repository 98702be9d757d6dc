package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/palabra/internal/ai"
	"codeberg.org/snonux/palabra/internal/words"
)

// Translator handles Spanish to Russian or English translation
type Translator struct {
	model ai.TextModel
	guard *ai.Guard
	cache *TranslationCache
}

// NewTranslator creates a new translator instance
func NewTranslator(model ai.TextModel, guard *ai.Guard) *Translator {
	if guard == nil {
		guard = ai.NewGuard(ai.GuardConfig{Name: "translation"})
	}
	return &Translator{
		model: model,
		guard: guard,
		cache: NewTranslationCache(),
	}
}

// TargetName maps a language code to the name used in prompts
func TargetName(lang string) string {
	if lang == words.LanguageEnglish {
		return "English"
	}
	return "Russian"
}

// Prompt builds the translation request for word
func Prompt(word, target string) string {
	return fmt.Sprintf("Translate %q from Spanish to %s. Return ONLY the translation.", word, TargetName(target))
}

// TranslateWord translates a Spanish word into target ("ru" or "en"). It
// returns "" when the word is blank or the service fails.
func (t *Translator) TranslateWord(ctx context.Context, word, target string) string {
	word = strings.TrimSpace(word)
	if word == "" || t.model == nil {
		return ""
	}

	key := target + ":" + words.Key(word)
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	translation := ai.Call(ctx, t.guard, "translate", "", func(ctx context.Context) (string, error) {
		return t.model.Generate(ctx, "", Prompt(word, target))
	})
	translation = strings.Trim(strings.TrimSpace(translation), `"`)
	if translation != "" {
		t.cache.Add(key, translation)
	}
	return translation
}

// TranslationCache stores translations in memory
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(word, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[word] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(word string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[word]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}
