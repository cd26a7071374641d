package ai

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

// ClientConfig holds the Azure OpenAI connection settings
type ClientConfig struct {
	Key        string
	Endpoint   string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Client calls an Azure OpenAI chat deployment. Calls carry a bounded
// timeout and are never retried.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new Azure OpenAI client
func NewClient(config ClientConfig) (*Client, error) {
	if config.Key == "" {
		return nil, errors.New("Azure OpenAI key is required")
	}
	if config.Endpoint == "" {
		return nil, errors.New("Azure OpenAI endpoint is required")
	}
	if config.Deployment == "" {
		return nil, errors.New("Azure OpenAI deployment is required")
	}
	if config.APIVersion == "" {
		config.APIVersion = "2024-10-21"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type chatRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the message list to the chat deployment and returns the
// assistant's text, trimmed of surrounding whitespace
func (c *Client) Complete(ctx context.Context, messages []Message, params CompletionParams) (string, error) {
	url := fmt.Sprintf(
		"%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.config.Endpoint, "/"),
		c.config.Deployment,
		c.config.APIVersion,
	)

	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.config.Key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion API returned no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
