package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultHFModelURL is the hosted inference endpoint for the summarization model
const DefaultHFModelURL = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"

// Length limits sent with every request, in model tokens
const (
	MaxLength = 130
	MinLength = 30
)

// HuggingFaceClient calls the Hugging Face inference API
type HuggingFaceClient struct {
	URL        string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewHuggingFaceClient creates a client for the model at url
func NewHuggingFaceClient(url, token string, timeout time.Duration) *HuggingFaceClient {
	if url == "" {
		url = DefaultHFModelURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HuggingFaceClient{
		URL:        url,
		Token:      token,
		Timeout:    timeout,
		HTTPClient: &http.Client{},
	}
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Summarize sends text to the model and returns the first summary
func (c *HuggingFaceClient) Summarize(ctx context.Context, text string) (string, error) {
	input, err := PlainText(text)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(hfRequest{
		Inputs:     input,
		Parameters: hfParameters{MaxLength: MaxLength, MinLength: MinLength},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &UnavailableError{Provider: "huggingface", Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		var apiErr hfError
		_ = json.Unmarshal(payload, &apiErr)
		msg := "model is loading"
		if apiErr.Error != "" {
			msg = apiErr.Error
		}
		if apiErr.EstimatedTime > 0 {
			msg = fmt.Sprintf("%s (ready in about %.0fs)", msg, apiErr.EstimatedTime)
		}
		return "", &UnavailableError{Provider: "huggingface", Message: msg}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("huggingface returned HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var summaries []hfSummary
	if err := json.Unmarshal(payload, &summaries); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(summaries) == 0 || strings.TrimSpace(summaries[0].SummaryText) == "" {
		return "", fmt.Errorf("no summary in response")
	}
	return strings.TrimSpace(summaries[0].SummaryText), nil
}
