package llm

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoCredential is returned when a hosted provider is built without an API key.
var ErrNoCredential = errors.New("api key is required")

// DefaultModels holds the model used when none is configured.
var DefaultModels = map[string]string{
	"google":    "gemini-2.5-flash",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5-20251001",
	"ollama":    "llama3.2",
}

// Factory builds a provider for one credential.
type Factory func(credential string) (Provider, error)

// NewFactory returns a Factory bound to a provider type and model.
func NewFactory(providerType, model string) Factory {
	return func(credential string) (Provider, error) {
		return NewProvider(providerType, model, credential)
	}
}

// NewProvider builds the named provider for model, falling back to
// DefaultModels when model is empty. Ollama ignores the credential and reads
// OLLAMA_HOST; OpenAI honours OPENAI_BASE_URL.
func NewProvider(providerType, model, credential string) (Provider, error) {
	if model == "" {
		model = DefaultModels[providerType]
	}

	switch providerType {
	case "google":
		if credential == "" {
			return nil, fmt.Errorf("google: %w", ErrNoCredential)
		}
		return NewGoogleProvider(credential, model)

	case "openai":
		if credential == "" {
			return nil, fmt.Errorf("openai: %w", ErrNoCredential)
		}
		return NewOpenAIProvider(credential, model, os.Getenv("OPENAI_BASE_URL")), nil

	case "anthropic":
		if credential == "" {
			return nil, fmt.Errorf("anthropic: %w", ErrNoCredential)
		}
		return NewAnthropicProvider(credential, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
