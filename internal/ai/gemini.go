package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	model           = "gemini-2.0-flash"
	maxOutputTokens = 500
)

// Client is a thin wrapper over the Gemini API used by the dashboard's
// energy-advice chat.
type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c}, nil
}

// Chat sends one message and returns the model's reply as plain text.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(message, genai.RoleUser)}
	config := &genai.GenerateContentConfig{MaxOutputTokens: maxOutputTokens}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var text string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return "Could not generate a response.", nil
	}
	return normalize(text), nil
}

// normalize strips the markdown emphasis Gemini likes to emit and turns
// list markers into bullets, which is what the dashboard renders.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.ReplaceAll(s, "*", "• ")
}
