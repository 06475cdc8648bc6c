package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ranaklabs/ranak/internal/config"
)

// New builds the generator for a configured model. The API key is read from
// the environment variable named by the model; it must be set for every
// provider except ollama. Provider panics are returned as errors.
func New(ctx context.Context, m config.Model, timeout time.Duration) (Generator, error) {
	gen, err := newProvider(ctx, m, timeout)
	if err != nil {
		return nil, err
	}
	return NewPanicCatchingGenerator(gen), nil
}

func newProvider(ctx context.Context, m config.Model, timeout time.Duration) (Generator, error) {
	apiKey := ""
	if m.ApiKeyEnv != "" {
		apiKey = os.Getenv(m.ApiKeyEnv)
	}
	if apiKey == "" && m.Type != "ollama" {
		return nil, fmt.Errorf("API key environment variable %s is not set for model %q", m.ApiKeyEnv, m.Ref)
	}

	transport, err := BuildPatchTransport(http.DefaultTransport, m)
	if err != nil {
		return nil, fmt.Errorf("failed to build patch transport for model %q: %w", m.Ref, err)
	}
	httpClient := &http.Client{Transport: transport, Timeout: timeout}

	switch m.Type {
	case "openai":
		return NewOpenAIGenerator(m.ID, apiKey, m.BaseUrl, httpClient, timeout), nil
	case "anthropic":
		return NewAnthropicGenerator(m.ID, apiKey, m.BaseUrl, httpClient, timeout), nil
	case "gemini":
		return NewGeminiGenerator(ctx, m.ID, apiKey, m.BaseUrl, httpClient)
	case "ollama":
		return NewOllamaGenerator(m.ID, m.BaseUrl, httpClient)
	default:
		return nil, fmt.Errorf("unsupported model type %q for model %q", m.Type, m.Ref)
	}
}
