package audio

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name     string
	genErr   error
	availErr error
	calls    int
}

func (s *stubProvider) GenerateAudio(context.Context, string, string) error {
	s.calls++
	return s.genErr
}

func (s *stubProvider) Name() string       { return s.name }
func (s *stubProvider) IsAvailable() error { return s.availErr }

func TestDefaultProviderConfig(t *testing.T) {
	c := DefaultProviderConfig()
	checks := map[string][2]string{
		"Provider":     {c.Provider, "gemini"},
		"OutputFormat": {c.OutputFormat, "wav"},
		"GeminiVoice":  {c.GeminiVoice, "Kore"},
		"OpenAIModel":  {c.OpenAIModel, "gpt-4o-mini-tts"},
		"OpenAIVoice":  {c.OpenAIVoice, "coral"},
		"ESpeakVoice":  {c.ESpeakVoice, "es"},
	}
	for field, v := range checks {
		if v[0] != v[1] {
			t.Errorf("%s = %q, want %q", field, v[0], v[1])
		}
	}
	if c.OpenAISpeed != 1.0 {
		t.Errorf("OpenAISpeed = %f", c.OpenAISpeed)
	}
	if c.EnableCache {
		t.Error("Cache should be opt-in")
	}
}

func TestNewProviderErrors(t *testing.T) {
	tests := map[string]struct {
		config *Config
		want   string
	}{
		"nil config needs a Gemini client": {nil, "Gemini client is required"},
		"openai without key":               {&Config{Provider: "openai"}, "OpenAI API key is required"},
		"unknown provider":                 {&Config{Provider: "polly"}, "unknown audio provider: polly"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			if err == nil || err.Error() != tt.want {
				t.Errorf("NewProvider() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestFallbackGenerateAudio(t *testing.T) {
	ctx := context.Background()
	primary := &stubProvider{name: "gemini"}
	backup := &stubProvider{name: "espeak-ng"}
	p := NewProviderWithFallback(primary, backup, nil)

	if err := p.GenerateAudio(ctx, "sol", "sol.wav"); err != nil {
		t.Fatalf("GenerateAudio() error: %v", err)
	}
	if primary.calls != 1 || backup.calls != 0 {
		t.Errorf("calls primary=%d backup=%d, want 1/0", primary.calls, backup.calls)
	}

	primary.genErr = errors.New("quota exceeded")
	if err := p.GenerateAudio(ctx, "sol", "sol.wav"); err != nil {
		t.Fatalf("GenerateAudio() should recover through the backup: %v", err)
	}
	if primary.calls != 2 || backup.calls != 1 {
		t.Errorf("calls primary=%d backup=%d, want 2/1", primary.calls, backup.calls)
	}

	backup.genErr = errors.New("no voice")
	if err := p.GenerateAudio(ctx, "sol", "sol.wav"); err == nil {
		t.Error("Expected error when both providers fail")
	}
}

func TestFallbackNameAndAvailability(t *testing.T) {
	primary := &stubProvider{name: "openai"}
	backup := &stubProvider{name: "espeak-ng"}
	p := NewProviderWithFallback(primary, backup, nil)

	if got := p.Name(); got != "openai (fallback: espeak-ng)" {
		t.Errorf("Name() = %q", got)
	}

	down := errors.New("down")
	tests := []struct {
		primary, backup error
		wantErr         bool
	}{
		{nil, nil, false},
		{down, nil, false},
		{nil, down, false},
		{down, down, true},
	}
	for _, tt := range tests {
		primary.availErr, backup.availErr = tt.primary, tt.backup
		if err := p.IsAvailable(); (err != nil) != tt.wantErr {
			t.Errorf("IsAvailable() with primary=%v backup=%v: %v", tt.primary, tt.backup, err)
		}
	}
}
