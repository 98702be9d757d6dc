package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIProvider speaks Spanish words through the OpenAI speech endpoint.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	voice       string
	speed       float64
	instruction string
	cache       *Cache
	logger      *zap.Logger
}

// NewOpenAIProvider builds a provider from the OpenAI fields of config.
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	p := &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		model:  config.OpenAIModel,
		voice:  config.OpenAIVoice,
		speed:  config.OpenAISpeed,
		logger: config.Logger,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if acceptsInstructions(p.model) {
		p.instruction = config.OpenAIInstruction
	}
	if config.EnableCache {
		cache, err := NewCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

func (p *OpenAIProvider) cacheKey(text string) []string {
	return []string{"openai", text, p.model, p.voice, strconv.FormatFloat(p.speed, 'f', 2, 64), p.instruction}
}

// GenerateAudio writes the pronunciation of text to outputFile. Files with
// an unknown extension get ".mp3" appended.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpanishText(text); err != nil {
		return err
	}

	format, ok := responseFormat(filepath.Ext(outputFile))
	if !ok {
		outputFile += ".mp3"
	}

	key := p.cacheKey(text)
	if p.cache.Lookup(outputFile, key...) {
		p.logger.Debug("pronunciation cache hit", zap.String("text", text))
		return nil
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model),
		Input:          preprocessSpanishText(text),
		Voice:          openai.SpeechVoice(p.voice),
		Speed:          p.speed,
		Instructions:   p.instruction,
		ResponseFormat: format,
	}
	p.logger.Debug("OpenAI TTS request",
		zap.String("model", p.model),
		zap.String("voice", p.voice),
		zap.String("input", req.Input))

	resp, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if p.instruction != "" && strings.Contains(err.Error(), "does not have access to model") {
			return fmt.Errorf("OpenAI TTS API error: %w (try --openai-model tts-1)", err)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer resp.Close()

	if err := ensureDir(outputFile); err != nil {
		return err
	}
	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	n, err := io.Copy(out, resp)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	p.cache.Store(outputFile, key...)
	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable reports whether a client is configured. It does not call the
// API since every request is billed.
func (p *OpenAIProvider) IsAvailable() error {
	if p.client == nil {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// responseFormat maps a file extension to the speech response format. The
// second result is false for extensions the endpoint cannot produce.
func responseFormat(ext string) (openai.SpeechResponseFormat, bool) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return openai.SpeechResponseFormatMp3, true
	case ".wav":
		return openai.SpeechResponseFormatWav, true
	case ".opus":
		return openai.SpeechResponseFormatOpus, true
	case ".aac":
		return openai.SpeechResponseFormatAac, true
	case ".flac":
		return openai.SpeechResponseFormatFlac, true
	}
	return openai.SpeechResponseFormatMp3, false
}

// Only the gpt-4o speech models take voice instructions.
func acceptsInstructions(model string) bool {
	return strings.HasPrefix(model, "gpt-4o")
}

// preprocessSpanishText drops punctuation so the voice does not read it out
// and splits hyphenated compounds into separate words.
func preprocessSpanishText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '-':
			return ' '
		case '!', '¡', '?', '¿', '.', ',', ';', ':', '"', '\'', '(', ')', '[', ']', '{', '}', '—', '–':
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}
