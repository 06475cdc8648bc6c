package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/ranaklabs/ranak/internal/config"
)

// PatchTransport applies a model's patchRequest settings to the provider
// requests sent on its behalf. Headers are added to every request. The JSON
// patch is applied only to requests that carry a JSON body, so metadata GETs
// issued by some SDKs pass through untouched.
type PatchTransport struct {
	base     http.RoundTripper
	modelRef string
	patch    jsonpatch.Patch
	headers  map[string]string
}

func NewPatchTransport(base http.RoundTripper, modelRef string, patch jsonpatch.Patch, headers map[string]string) *PatchTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &PatchTransport{
		base:     base,
		modelRef: modelRef,
		patch:    patch,
		headers:  headers,
	}
}

func (t *PatchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	if len(t.patch) > 0 && req.Body != nil && req.Body != http.NoBody && hasJSONBody(req) {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body for model %q: %w", t.modelRef, err)
		}

		patched, err := t.patch.Apply(body)
		if err != nil {
			return nil, fmt.Errorf("applying patchRequest for model %q: %w", t.modelRef, err)
		}
		slog.Debug("patched provider request", "model", t.modelRef, "path", req.URL.Path, "ops", len(t.patch))

		req.Body = io.NopCloser(bytes.NewReader(patched))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(patched)), nil
		}
		req.ContentLength = int64(len(patched))
	}

	return t.base.RoundTrip(req)
}

// hasJSONBody treats a missing Content-Type as JSON since every provider SDK
// in use sends JSON.
func hasJSONBody(req *http.Request) bool {
	ct := req.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}

// BuildPatchTransport wraps base with the model's patchRequest settings. base
// is returned unchanged when the model has nothing to patch.
func BuildPatchTransport(base http.RoundTripper, m config.Model) (http.RoundTripper, error) {
	pc := m.PatchRequest
	if pc == nil || (len(pc.JSONPatch) == 0 && len(pc.IncludeHeaders) == 0) {
		return base, nil
	}

	var patch jsonpatch.Patch
	if len(pc.JSONPatch) > 0 {
		raw, err := json.Marshal(pc.JSONPatch)
		if err != nil {
			return nil, fmt.Errorf("encoding jsonPatch: %w", err)
		}
		if patch, err = jsonpatch.DecodePatch(raw); err != nil {
			return nil, fmt.Errorf("decoding jsonPatch: %w", err)
		}
	}

	return NewPatchTransport(base, m.Ref, patch, pc.IncludeHeaders), nil
}
