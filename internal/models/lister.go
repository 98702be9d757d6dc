package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Catalog groups model ids by what palabra uses them for
type Catalog struct {
	TTS           []string
	Transcription []string
	Chat          []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// Categorize sorts model ids into catalog groups, dropping unrelated ones
func Categorize(ids []string) Catalog {
	var c Catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "whisper") || strings.Contains(id, "transcribe"):
			c.Transcription = append(c.Transcription, id)
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			c.TTS = append(c.TTS, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	sort.Strings(c.TTS)
	sort.Strings(c.Transcription)
	sort.Strings(c.Chat)
	return c
}

// ListAvailableModels prints the models the configured key can use
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .palabra.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	Print(w, Categorize(ids))
	return nil
}

// Print writes a catalog in human readable form
func Print(w io.Writer, c Catalog) {
	fmt.Fprintln(w, "Available OpenAI Models:")
	printGroup(w, "Text-to-Speech (TTS) Models", "No TTS models found", c.TTS)
	printGroup(w, "Transcription Models (for voice input)", "No transcription models found", c.Transcription)

	fmt.Fprintln(w, "\nChat/Translation Models (for Spanish translation and hints):")
	if len(c.Chat) > 10 {
		// Show only relevant models
		relevant := 0
		for _, model := range c.Chat {
			if strings.Contains(model, "gpt-4") || strings.Contains(model, "gpt-5") {
				fmt.Fprintf(w, "  %s\n", model)
				relevant++
			}
		}
		fmt.Fprintf(w, "  ... and %d more models\n", len(c.Chat)-relevant)
		return
	}
	for _, model := range c.Chat {
		fmt.Fprintf(w, "  %s\n", model)
	}
}

func printGroup(w io.Writer, title, empty string, models []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(models) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
