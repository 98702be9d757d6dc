package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/palabra/internal/ai"
)

// Prompt is sent alongside the audio to Gemini
const Prompt = "Transcribe the following Spanish audio. Return ONLY the transcription text."

// Engine performs a single transcription request
type Engine interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Transcriber guards an Engine and fails soft. It satisfies the voice
// capture transcriber.
type Transcriber struct {
	engine Engine
	guard  *ai.Guard
}

// New creates a Transcriber
func New(engine Engine, guard *ai.Guard) *Transcriber {
	if guard == nil {
		guard = ai.NewGuard(ai.GuardConfig{Name: "transcribe"})
	}
	return &Transcriber{engine: engine, guard: guard}
}

// Transcribe returns the spoken text or "" on failure. lang is the
// learner's interface language; the audio itself is always Spanish.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType, lang string) (string, error) {
	if t.engine == nil || len(audio) == 0 {
		return "", nil
	}
	text := ai.Call(ctx, t.guard, "transcribe", "", func(ctx context.Context) (string, error) {
		return t.engine.Transcribe(ctx, audio, mimeType)
	})
	return strings.TrimSpace(text), nil
}

// Gemini sends audio inline to a Gemini model
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini engine
func NewGemini(client *genai.Client, model string) *Gemini {
	if model == "" {
		model = ai.DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}
}

// Transcribe implements Engine
func (g *Gemini) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio, mimeType),
			genai.NewPartFromText(Prompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}

// Whisper uses the OpenAI transcription endpoint
type Whisper struct {
	client *openai.Client
	model  string
}

// NewWhisper creates a Whisper engine
func NewWhisper(client *openai.Client, model string) *Whisper {
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: client, model: model}
}

// Transcribe implements Engine
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "recording" + extension(mimeType),
		Reader:   bytes.NewReader(audio),
		Language: "es",
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI transcription error: %w", err)
	}
	return resp.Text, nil
}

// extension maps a MIME type to the file extension Whisper expects
func extension(mimeType string) string {
	switch mimeType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/webm":
		return ".webm"
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".wav"
}
