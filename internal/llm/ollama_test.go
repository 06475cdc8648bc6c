package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranaklabs/ranak/internal/config"
)

func TestOllamaGenerator_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"Entropy measures disorder."},"done":true}` + "\n"))
	}))
	defer srv.Close()

	gen, err := NewOllamaGenerator("llama3.2", srv.URL, srv.Client())
	require.NoError(t, err)

	temp := 0.2
	reply, err := gen.Generate(context.Background(), Request{
		System: "You are a helpful assistant.",
		Turns:  []Turn{{Role: User, Content: "What is entropy?"}},
		Params: config.GenerationParams{Temperature: &temp},
	})
	require.NoError(t, err)
	assert.Equal(t, "Entropy measures disorder.", reply)

	assert.Equal(t, "llama3.2", got["model"])
	assert.Equal(t, false, got["stream"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "What is entropy?", messages[1].(map[string]any)["content"])
	assert.Equal(t, 0.2, got["options"].(map[string]any)["temperature"])
}

func TestNewOllamaGenerator_HostFromEnv(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://ollama.internal:11434")
	gen, err := NewOllamaGenerator("llama3.2", "", http.DefaultClient)
	require.NoError(t, err)
	assert.NotNil(t, gen.client)
}
