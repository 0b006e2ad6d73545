package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/reportgen/config"
	azure_provider "github.com/mohammad-safakhou/reportgen/provider/azure"
	openai_provider "github.com/mohammad-safakhou/reportgen/provider/openai"
)

// Client represents different LLM backends
type Client string

const (
	OpenAI Client = "openai"
	Azure  Client = "azure"
)

// Provider is the chat completion port all LLM backends must satisfy.
// Options may carry "temperature" (float64) and "max_tokens" (int) to
// override the client defaults for a single call.
type Provider interface {
	Complete(ctx context.Context, prompt string, options map[string]interface{}) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("llm.api_key not set")
		}
		return openai_provider.NewClient(
			cfg.APIKey,
			cfg.BaseURL,
			cfg.Model,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	case Azure:
		if cfg.APIKey == "" || cfg.BaseURL == "" || cfg.Deployment == "" {
			return nil, errors.New("azure provider requires llm.api_key, llm.base_url and llm.deployment")
		}
		return azure_provider.NewClient(
			cfg.APIKey,
			cfg.BaseURL,
			cfg.Deployment,
			cfg.APIVersion,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
