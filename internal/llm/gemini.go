package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spachava753/gai"
	"google.golang.org/genai"
)

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, model, apiKey, baseURL string, httpClient *http.Client) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	gen, err := gai.NewGeminiGenerator(g.client, g.model, req.System)
	if err != nil {
		return "", fmt.Errorf("error creating Gemini generator: %w", err)
	}
	resp, err := gen.Generate(ctx, toDialog(req.Turns), toGenOpts(req.Params))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}
