package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Default models
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultGeminiTTSModel = "gemini-2.5-flash-preview-tts"
	DefaultOpenAIModel    = openai.GPT4oMini
)

// TextModel answers a prompt with text. system may be empty.
type TextModel interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// GeminiText generates text with a Gemini model
type GeminiText struct {
	client *genai.Client
	model  string
}

// NewGeminiText creates a Gemini text model
func NewGeminiText(client *genai.Client, model string) *GeminiText {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiText{client: client, model: model}
}

// Generate implements TextModel
func (g *GeminiText) Generate(ctx context.Context, system, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// OpenAIText generates text with an OpenAI chat model
type OpenAIText struct {
	client *openai.Client
	model  string
}

// NewOpenAIText creates an OpenAI text model
func NewOpenAIText(client *openai.Client, model string) *OpenAIText {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIText{client: client, model: model}
}

// Generate implements TextModel
func (o *OpenAIText) Generate(ctx context.Context, system, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
