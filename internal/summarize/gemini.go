package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is a low-latency model suited to short summaries
const DefaultGeminiModel = "gemini-2.5-flash-lite"

const summaryPrompt = `Write a professional resume summary of two or three sentences, in the first person without pronouns, based only on the text below. Reply with the summary alone.

%s`

// GeminiClient summarizes with Google Gemini
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, apiKey string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiClient{client: client, model: DefaultGeminiModel, timeout: timeout}, nil
}

// Summarize asks the model for a short summary of text
func (c *GeminiClient) Summarize(ctx context.Context, text string) (string, error) {
	input, err := PlainText(text)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	model.SetMaxOutputTokens(MaxLength * 2)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(summaryPrompt, input)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &UnavailableError{Provider: "gemini", Message: "failed to generate content", Cause: err}
	}
	return responseText(resp)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}
