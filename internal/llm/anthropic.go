package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spachava753/gai"
)

// defaultAnthropicMaxTokens is used when no max tokens is configured, since
// the messages API requires one.
const defaultAnthropicMaxTokens = 4096

type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

func NewAnthropicGenerator(model, apiKey, baseURL string, httpClient *http.Client, timeout time.Duration) *AnthropicGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req Request) (string, error) {
	svc := gai.NewAnthropicServiceWrapper(&g.client.Messages)
	gen := gai.NewAnthropicGenerator(svc, g.model, req.System)

	opts := toGenOpts(req.Params)
	if opts.MaxGenerationTokens == nil {
		setNumber(&opts.MaxGenerationTokens, defaultAnthropicMaxTokens)
	}

	resp, err := gen.Generate(ctx, toDialog(req.Turns), opts)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}
