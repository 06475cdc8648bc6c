package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaGenerator talks to a local or remote Ollama server.
type OllamaGenerator struct {
	client *ollama.Client
	model  string
}

// NewOllamaGenerator resolves the host from baseURL, then OLLAMA_HOST, then
// the default local address.
func NewOllamaGenerator(model, baseURL string, httpClient *http.Client) (*OllamaGenerator, error) {
	host := baseURL
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = defaultOllamaHost
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return &OllamaGenerator{
		client: ollama.NewClient(u, httpClient),
		model:  model,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]ollama.Message, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, ollama.Message{Role: "system", Content: req.System})
	}
	for _, turn := range req.Turns {
		messages = append(messages, ollama.Message{Role: string(turn.Role), Content: turn.Content})
	}

	options := map[string]any{}
	if p := req.Params.Temperature; p != nil {
		options["temperature"] = *p
	}
	if p := req.Params.TopP; p != nil {
		options["top_p"] = *p
	}
	if p := req.Params.MaxTokens; p != nil {
		options["num_predict"] = *p
	}
	if p := req.Params.Seed; p != nil {
		options["seed"] = *p
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    g.model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}

	var text strings.Builder
	err := g.client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text.String(), nil
}
