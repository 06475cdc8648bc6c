package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/spachava753/gai"
)

// OpenAIGenerator talks to the chat completions API of OpenAI or any
// compatible endpoint.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(model, apiKey, baseURL string, httpClient *http.Client, timeout time.Duration) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL = baseURL + "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	gen := gai.NewOpenAiGenerator(&g.client.Chat.Completions, g.model, req.System)
	resp, err := gen.Generate(ctx, toDialog(req.Turns), toGenOpts(req.Params))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}
