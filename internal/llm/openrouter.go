package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OpenRouterClient implements Client for OpenAI-compatible chat completions endpoints.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	config  *Config
	httpDo  *http.Client
}

// NewOpenRouterClient creates a new OpenAI-compatible client
func NewOpenRouterClient(config *Config, apiKey string) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOpenRouterConfig().BaseURL
	}
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		config:  config,
		httpDo:  &http.Client{},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionsRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateContent generates text content using the specified model tier
func (c *OpenRouterClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, prompt, tier, nil)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenRouterClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, prompt, tier, &responseFormat{Type: "json_object"})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenRouterClient) complete(ctx context.Context, prompt string, tier ModelTier, format *responseFormat) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &APIError{Provider: ProviderOpenRouter, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	ctx, cancel := withDeadline(ctx, c.config)
	defer cancel()

	body, err := json.Marshal(chatCompletionsRequest{
		Model:          modelName,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.1,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return "", &APIError{Provider: ProviderOpenRouter, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var out chatCompletionsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("http %d", resp.StatusCode)
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg += ": " + out.Error.Message
		}
		return "", &APIError{Provider: ProviderOpenRouter, Message: msg}
	}
	if decodeErr != nil {
		return "", &APIError{Provider: ProviderOpenRouter, Message: "failed to decode response", Cause: decodeErr}
	}
	if len(out.Choices) == 0 {
		return "", &APIError{Provider: ProviderOpenRouter, Message: "no choices returned by model"}
	}
	return out.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenRouterClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (c *OpenRouterClient) Close() error {
	return nil
}
