package azure_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// client implements the provider interface against an Azure OpenAI deployment.
// Azure routes by deployment name in the URL and authenticates with an
// api-key header instead of a bearer token.
type client struct {
	apiKey      string
	endpoint    string
	deployment  string
	apiVersion  string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new Azure OpenAI client
func NewClient(apiKey, endpoint, deployment, apiVersion string, temperature float64, maxTokens int, timeout time.Duration) *client {
	if apiVersion == "" {
		apiVersion = "2024-06-01"
	}
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &client{
		apiKey:      apiKey,
		endpoint:    strings.TrimRight(endpoint, "/"),
		deployment:  deployment,
		apiVersion:  apiVersion,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Complete sends a single-turn chat completion request and returns the text
func (c *client) Complete(ctx context.Context, prompt string, options map[string]interface{}) (string, error) {
	temperature := c.temperature
	if t, ok := options["temperature"].(float64); ok {
		temperature = t
	}
	maxTokens := c.maxTokens
	if mt, ok := options["max_tokens"].(int); ok {
		maxTokens = mt
	}

	requestBody := request{
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var azResp response
	if err := json.NewDecoder(resp.Body).Decode(&azResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(azResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return azResp.Choices[0].Message.Content, nil
}
