package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFromRaw(t *testing.T) {
	raw := &RawConfig{
		Models: []ModelConfig{
			{
				Model: Model{Ref: "flash", ID: "gemini-2.5-flash", Type: "gemini", ApiKeyEnv: "GEMINI_API_KEY"},
				GenerationDefaults: &GenerationParams{
					Temperature: ptr(0.2),
					MaxTokens:   ptr(2048),
				},
			},
			{
				Model:         Model{Ref: "sonnet", ID: "claude-sonnet-4-5", Type: "anthropic", ApiKeyEnv: "ANTHROPIC_API_KEY"},
				SystemMessage: "You are a meticulous research assistant.",
			},
		},
		Defaults: Defaults{
			Model: "flash",
			GenerationParams: &GenerationParams{
				Temperature: ptr(0.7),
				TopP:        ptr(0.9),
			},
			Timeout: "90s",
		},
	}

	t.Run("defaults and model params merge", func(t *testing.T) {
		cfg, err := ResolveFromRaw(raw, RuntimeOptions{})
		require.NoError(t, err)

		assert.Equal(t, "flash", cfg.Model.Ref)
		assert.Equal(t, DefaultSystemMessage, cfg.SystemMessage)
		assert.Equal(t, DefaultMaxConsecutiveAutoReply, cfg.MaxConsecutiveAutoReply)
		assert.Equal(t, 90*time.Second, cfg.Timeout)
		assert.False(t, cfg.RestoreOnFailure)
		assert.Empty(t, cfg.HistoryPath)
		assert.Equal(t, ".", cfg.Export.Dir)

		want := GenerationParams{
			Temperature: ptr(0.2),
			TopP:        ptr(0.9),
			MaxTokens:   ptr(2048),
			Seed:        ptr(DefaultSeed),
		}
		if diff := cmp.Diff(want, cfg.GenerationParams); diff != "" {
			t.Errorf("generation params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cli overrides win", func(t *testing.T) {
		cfg, err := ResolveFromRaw(raw, RuntimeOptions{
			ModelRef:  "sonnet",
			GenParams: &GenerationParams{Temperature: ptr(0.0), Seed: ptr(int64(7))},
			Timeout:   "10s",
			OutputDir: "out",
		})
		require.NoError(t, err)

		assert.Equal(t, "sonnet", cfg.Model.Ref)
		assert.Equal(t, "You are a meticulous research assistant.", cfg.SystemMessage)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, "out", cfg.Export.Dir)
		require.NotNil(t, cfg.GenerationParams.Temperature)
		assert.Equal(t, 0.0, *cfg.GenerationParams.Temperature)
		assert.Equal(t, int64(7), *cfg.GenerationParams.Seed)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := ResolveFromRaw(raw, RuntimeOptions{ModelRef: "gpt"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `model "gpt" not found`)
	})

	t.Run("bad cli timeout", func(t *testing.T) {
		_, err := ResolveFromRaw(raw, RuntimeOptions{Timeout: "forever"})
		require.Error(t, err)
	})

	t.Run("restore on failure is opt-in", func(t *testing.T) {
		enabled := *raw
		enabled.Defaults.RestoreOnFailure = ptr(true)
		cfg, err := ResolveFromRaw(&enabled, RuntimeOptions{})
		require.NoError(t, err)
		assert.True(t, cfg.RestoreOnFailure)

		disabled := *raw
		disabled.Defaults.RestoreOnFailure = ptr(false)
		cfg, err = ResolveFromRaw(&disabled, RuntimeOptions{})
		require.NoError(t, err)
		assert.False(t, cfg.RestoreOnFailure)
	})
}

func TestResolveSingleModelWithoutDefault(t *testing.T) {
	raw := &RawConfig{Models: []ModelConfig{validModel("only")}}
	cfg, err := ResolveFromRaw(raw, RuntimeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "only", cfg.Model.Ref)

	raw.Models = append(raw.Models, validModel("other"))
	_, err = ResolveFromRaw(raw, RuntimeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model specified")
}

func TestResolveHistoryPath(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		configPath string
		want       string
	}{
		{name: "disabled", raw: "", want: ""},
		{name: "absolute", raw: "/var/lib/ranak/history.db", configPath: "/etc/ranak/ranak.yaml", want: "/var/lib/ranak/history.db"},
		{name: "relative to config", raw: "history.db", configPath: "/etc/ranak/ranak.yaml", want: "/etc/ranak/history.db"},
		{name: "relative without config", raw: "./data/../history.db", want: "history.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveHistoryPath(tt.raw, tt.configPath)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}

	t.Run("home expansion", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		got, err := ResolveHistoryPath("~/history.db", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "history.db"), got)
	})

	t.Run("unsupported home form", func(t *testing.T) {
		_, err := ResolveHistoryPath("~other/history.db", "")
		assert.Error(t, err)
	})
}
