package llm

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranaklabs/ranak/internal/config"
)

func TestBuildPatchTransport(t *testing.T) {
	base := http.DefaultTransport

	t.Run("no patchRequest returns base", func(t *testing.T) {
		rt, err := BuildPatchTransport(base, config.Model{Ref: "gpt"})
		require.NoError(t, err)
		assert.Equal(t, base, rt)
	})

	t.Run("empty patchRequest returns base", func(t *testing.T) {
		rt, err := BuildPatchTransport(base, config.Model{Ref: "gpt", PatchRequest: &config.PatchRequestConfig{}})
		require.NoError(t, err)
		assert.Equal(t, base, rt)
	})
}

type capturedRequest struct {
	method string
	body   string
	header string
}

func patchServer(t *testing.T, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*got = capturedRequest{method: r.Method, body: string(b), header: r.Header.Get("X-Research")}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPatchTransport_RoundTrip(t *testing.T) {
	var got capturedRequest
	srv := patchServer(t, &got)

	rt, err := BuildPatchTransport(http.DefaultTransport, config.Model{
		Ref: "gpt",
		PatchRequest: &config.PatchRequestConfig{
			JSONPatch: []map[string]interface{}{
				{"op": "add", "path": "/reasoning_effort", "value": "low"},
				{"op": "add", "path": "/seed", "value": 7},
			},
			IncludeHeaders: map[string]string{"X-Research": "ranak"},
		},
	})
	require.NoError(t, err)
	client := &http.Client{Transport: rt}

	t.Run("json body with charset is patched", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"model":"m","seed":42}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.JSONEq(t, `{"model":"m","seed":7,"reasoning_effort":"low"}`, got.body)
		assert.Equal(t, "ranak", got.header)
	})

	t.Run("GET without body only gets headers", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.MethodGet, got.method)
		assert.Empty(t, got.body)
		assert.Equal(t, "ranak", got.header)
	})

	t.Run("non-json body is left alone", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader("plain text"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "text/plain")

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "plain text", got.body)
	})
}

func TestPatchTransport_ErrorNamesModel(t *testing.T) {
	var got capturedRequest
	srv := patchServer(t, &got)

	rt, err := BuildPatchTransport(http.DefaultTransport, config.Model{
		Ref: "claude",
		PatchRequest: &config.PatchRequestConfig{
			JSONPatch: []map[string]interface{}{{"op": "remove", "path": "/missing"}},
		},
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"model":"m"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	_, err = (&http.Client{Transport: rt}).Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `applying patchRequest for model "claude"`)
}
