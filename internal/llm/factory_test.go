package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranaklabs/ranak/internal/config"
)

func TestNew(t *testing.T) {
	t.Setenv("RANAK_TEST_KEY", "sk-test")

	tests := []struct {
		name    string
		model   config.Model
		want    any
		wantErr string
	}{
		{
			name:  "openai",
			model: config.Model{Ref: "gpt", ID: "gpt-4o-mini", Type: "openai", ApiKeyEnv: "RANAK_TEST_KEY"},
			want:  &OpenAIGenerator{},
		},
		{
			name:  "anthropic",
			model: config.Model{Ref: "claude", ID: "claude-sonnet-4-5", Type: "anthropic", ApiKeyEnv: "RANAK_TEST_KEY"},
			want:  &AnthropicGenerator{},
		},
		{
			name:  "ollama needs no key",
			model: config.Model{Ref: "llama", ID: "llama3.2", Type: "ollama", BaseUrl: "http://127.0.0.1:11434"},
			want:  &OllamaGenerator{},
		},
		{
			name:    "missing key",
			model:   config.Model{Ref: "gpt", ID: "gpt-4o-mini", Type: "openai", ApiKeyEnv: "RANAK_TEST_UNSET_KEY"},
			wantErr: "RANAK_TEST_UNSET_KEY is not set",
		},
		{
			name:    "unknown type",
			model:   config.Model{Ref: "x", ID: "x", Type: "bedrock", ApiKeyEnv: "RANAK_TEST_KEY"},
			wantErr: `unsupported model type "bedrock"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(context.Background(), tt.model, time.Minute)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.IsType(t, &PanicCatchingGenerator{}, gen)
			assert.IsType(t, tt.want, gen.(*PanicCatchingGenerator).G)
		})
	}
}
