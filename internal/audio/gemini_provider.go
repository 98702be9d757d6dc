package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider with Gemini speech generation
type GeminiProvider struct {
	client *genai.Client
	model  string
	voice  string
	cache  *Cache
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(config *Config) (Provider, error) {
	if config.GeminiClient == nil {
		return nil, fmt.Errorf("Gemini client is required")
	}
	p := &GeminiProvider{
		client: config.GeminiClient,
		model:  config.GeminiModel,
		voice:  config.GeminiVoice,
	}
	if p.model == "" {
		p.model = "gemini-2.5-flash-preview-tts"
	}
	if p.voice == "" {
		p.voice = "Kore"
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

// Synthesize returns raw 24kHz mono 16 bit PCM for text
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text("Pronounce: "+text),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{string(genai.ModalityAudio)},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.voice},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("no audio data received from Gemini")
}

// GenerateAudio writes the spoken text as WAV, or MP3 when outputFile ends
// in .mp3 and ffmpeg is installed.
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpanishText(text); err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	key := []string{"gemini", text, p.model, p.voice}
	if p.cache.Lookup(outputFile, key...) {
		return nil
	}

	pcm, err := p.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	write := func(path string) error {
		if err := ensureDir(path); err != nil {
			return err
		}
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := WriteWAV(out, pcm, GeminiSampleRate, GeminiChannels, GeminiBitsPerSample); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}

	if strings.ToLower(filepath.Ext(outputFile)) == ".mp3" {
		err = writeViaWAV(ctx, outputFile, write)
	} else {
		err = write(outputFile)
	}
	if err != nil {
		return err
	}
	p.cache.Store(outputFile, key...)
	return nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that a client is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.client == nil {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
