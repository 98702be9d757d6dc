package models

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("")

	err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .palabra.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestCategorize(t *testing.T) {
	ids := []string{"whisper-1", "gpt-4o-mini-tts", "dall-e-3", "gpt-4o", "tts-1", "gpt-4o-transcribe", "babbage-002", "chatgpt-4o-latest"}

	got := Categorize(ids)
	want := Catalog{
		TTS:           []string{"gpt-4o-mini-tts", "tts-1"},
		Transcription: []string{"gpt-4o-transcribe", "whisper-1"},
		Chat:          []string{"chatgpt-4o-latest", "gpt-4o"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categorize() = %+v, want %+v", got, want)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Catalog{Chat: []string{"gpt-4o"}})
	out := buf.String()

	for _, want := range []string{"No TTS models found", "No transcription models found", "  gpt-4o\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestPrint_ManyChatModels(t *testing.T) {
	var chat []string
	for i := 0; i < 12; i++ {
		chat = append(chat, fmt.Sprintf("gpt-3.5-turbo-%02d", i))
	}
	chat = append(chat, "gpt-4o")

	var buf bytes.Buffer
	Print(&buf, Catalog{Chat: chat})
	out := buf.String()

	if !strings.Contains(out, "  gpt-4o\n") {
		t.Error("Relevant model should be listed")
	}
	if !strings.Contains(out, "... and 12 more models") {
		t.Errorf("Expected summary line, got:\n%s", out)
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey)
	var buf bytes.Buffer
	if err := lister.ListAvailableModels(context.Background(), &buf); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
