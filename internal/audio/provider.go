package audio

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Provider turns a Spanish word into an audio file. The file extension of
// outputFile selects the container where the provider supports several.
type Provider interface {
	GenerateAudio(ctx context.Context, text string, outputFile string) error
	Name() string
	// IsAvailable reports a configuration problem without calling any API.
	IsAvailable() error
}

// Config carries the settings of every provider; each one reads its own fields.
type Config struct {
	Provider     string // "gemini", "openai" or "espeak"
	OutputFormat string // "wav" or "mp3"

	// Gemini-specific settings
	GeminiClient *genai.Client
	GeminiModel  string
	GeminiVoice  string // Prebuilt voice name, e.g. "Kore"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "coral", "nova", "sage", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// CacheDir holds previously synthesised audio when EnableCache is set
	CacheDir    string
	EnableCache bool

	// espeak-ng voice, "es" unless set
	ESpeakVoice string

	Logger *zap.Logger
}

// DefaultProviderConfig selects Gemini and fills Castilian defaults for the
// other providers.
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "gemini",
		OutputFormat:      "wav",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Kore",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "coral",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking Spanish (español de España). Pronounce the text with authentic Castilian phonetics. Speak slowly and clearly for language learners.",
		ESpeakVoice:       "es",
	}
}

// NewProvider creates the configured provider. Remote providers are
// wrapped with espeak-ng as a fallback when espeak-ng is installed.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var primary Provider
	var err error
	switch config.Provider {
	case "gemini":
		primary, err = NewGeminiProvider(config)
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		primary, err = NewOpenAIProvider(config)
	case "espeak":
		return NewESpeakProvider(config.ESpeakVoice)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	fallback, ferr := NewESpeakProvider(config.ESpeakVoice)
	if ferr != nil {
		logger.Debug("espeak-ng fallback unavailable", zap.Error(ferr))
		return primary, nil
	}
	return NewProviderWithFallback(primary, fallback, logger), nil
}

// ProviderWithFallback retries a failed GenerateAudio on a second provider.
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback pairs primary with fallback. A nil logger is
// replaced by a no-op one.
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err == nil || ctx.Err() != nil {
		return err
	}
	p.logger.Warn("speech provider failed, using fallback",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Error(err))
	return p.fallback.GenerateAudio(ctx, text, outputFile)
}

func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable succeeds when either side is usable.
func (p *ProviderWithFallback) IsAvailable() error {
	perr := p.primary.IsAvailable()
	if perr == nil {
		return nil
	}
	ferr := p.fallback.IsAvailable()
	if ferr == nil {
		return nil
	}
	return fmt.Errorf("no speech provider available: %s: %v; %s: %v",
		p.primary.Name(), perr, p.fallback.Name(), ferr)
}
