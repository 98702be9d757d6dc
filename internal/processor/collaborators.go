package processor

import (
	"context"
	"path/filepath"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"codeberg.org/snonux/palabra/internal/ai"
	"codeberg.org/snonux/palabra/internal/audio"
	"codeberg.org/snonux/palabra/internal/cli"
	"codeberg.org/snonux/palabra/internal/mnemonic"
	"codeberg.org/snonux/palabra/internal/transcribe"
	"codeberg.org/snonux/palabra/internal/translation"
	"codeberg.org/snonux/palabra/internal/voice"
)

// setupCollaborators creates the AI backends for which keys are available.
// Missing keys leave a collaborator without a backend; it then answers
// with empty results.
func (p *Processor) setupCollaborators(ctx context.Context) {
	var geminiClient *genai.Client
	if key := cli.GetGeminiKey(); key != "" {
		client, err := ai.NewGeminiClient(ctx, key)
		if err != nil {
			p.logger.Warn("Gemini unavailable", zap.Error(err))
		} else {
			geminiClient = client
		}
	}

	var openaiClient *openai.Client
	openaiKey := cli.GetOpenAIKey()
	if openaiKey != "" {
		openaiClient = openai.NewClient(openaiKey)
	}

	guard := func(name string) *ai.Guard {
		return ai.NewGuard(ai.GuardConfig{Name: name, Logger: p.logger})
	}

	var text ai.TextModel
	var engine transcribe.Engine
	switch {
	case p.flags.AIProvider == "openai" && openaiClient != nil:
		text = ai.NewOpenAIText(openaiClient, p.flags.OpenAIModel)
		engine = transcribe.NewWhisper(openaiClient, "")
	case geminiClient != nil:
		text = ai.NewGeminiText(geminiClient, p.flags.GeminiModel)
		engine = transcribe.NewGemini(geminiClient, p.flags.GeminiModel)
	case openaiClient != nil:
		text = ai.NewOpenAIText(openaiClient, p.flags.OpenAIModel)
		engine = transcribe.NewWhisper(openaiClient, "")
	default:
		p.logger.Warn("no AI API key configured, translation and hints are disabled")
	}

	p.translator = translation.NewTranslator(text, guard("translate"))
	p.hinter = mnemonic.NewFetcher(text, guard("mnemonic"))
	p.transcriber = transcribe.New(engine, guard("transcribe"))
	p.microphone = voice.NewExecMicrophone(p.flags.Recorder)

	config := audio.DefaultProviderConfig()
	config.Provider = p.flags.AudioProvider
	config.OutputFormat = p.flags.AudioFormat
	config.GeminiClient = geminiClient
	config.OpenAIKey = openaiKey
	config.OpenAIVoice = p.flags.OpenAIVoice
	config.EnableCache = !p.flags.Ephemeral
	config.CacheDir = filepath.Join(stateDir(p.flags), "audio_cache")
	config.Logger = p.logger

	speaker, err := audio.NewProvider(config)
	if err != nil {
		p.logger.Warn("speech provider unavailable, trying espeak-ng",
			zap.String("provider", config.Provider), zap.Error(err))
		config.Provider = "espeak"
		speaker, err = audio.NewProvider(config)
	}
	if err != nil {
		p.logger.Warn("no speech provider available", zap.Error(err))
		return
	}
	p.speaker = speaker
}
