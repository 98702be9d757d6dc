package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnavailable is what mocks return when no reply is configured
var ErrUnavailable = errors.New("service unavailable")

// MockTextModel answers prompts from a table. Replies are matched by
// substring of the prompt; Default is used when nothing matches.
type MockTextModel struct {
	mu      sync.Mutex
	Replies map[string]string
	Default string
	Calls   []string
}

// Generate implements the text model used by translation and hints
func (m *MockTextModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, prompt)

	for key, reply := range m.Replies {
		if strings.Contains(prompt, key) {
			return reply, nil
		}
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return "", ErrUnavailable
}

// CallCount returns the number of Generate calls
func (m *MockTextModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockHinter returns the same hint for every word
type MockHinter struct {
	Reply string
	Calls []string
}

// Hint implements the quiz hinter
func (m *MockHinter) Hint(ctx context.Context, spanish, russian, lang string) (string, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("%s (%s)", spanish, lang))
	return m.Reply, nil
}

// MockSpeaker records speech requests without producing audio
type MockSpeaker struct {
	Texts []string
	Files []string
	Err   error
}

// GenerateAudio records the request
func (m *MockSpeaker) GenerateAudio(ctx context.Context, text, outputFile string) error {
	m.Texts = append(m.Texts, text)
	m.Files = append(m.Files, outputFile)
	return m.Err
}

// Name returns the provider name
func (m *MockSpeaker) Name() string { return "mock" }

// IsAvailable always succeeds
func (m *MockSpeaker) IsAvailable() error { return nil }
