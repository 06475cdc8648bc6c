package config

import (
	"fmt"
	"time"
)

const (
	// DefaultTimeout is the default request timeout when not specified in config or CLI
	DefaultTimeout = 5 * time.Minute
	// DefaultSystemMessage is the assistant persona used when none is configured
	DefaultSystemMessage = "You are a helpful assistant."
	// DefaultMaxConsecutiveAutoReply bounds the assistant replies for one request
	DefaultMaxConsecutiveAutoReply = 3
	// DefaultSeed keeps sampling reproducible across runs for providers that support it
	DefaultSeed int64 = 42
)

// ResolveConfig loads the config file and resolves effective runtime configuration
// for the specified model with runtime options applied.
func ResolveConfig(configPath string, opts RuntimeOptions) (*Config, error) {
	rawCfg, resolvedConfigPath, err := LoadRawConfigWithPath(configPath)
	if err != nil {
		return nil, err
	}

	return resolveFromRaw(rawCfg, opts, resolvedConfigPath)
}

// ResolveFromRaw resolves configuration from an already-loaded RawConfig.
// This is useful for testing without file I/O.
func ResolveFromRaw(rawCfg *RawConfig, opts RuntimeOptions) (*Config, error) {
	return resolveFromRaw(rawCfg, opts, "")
}

func resolveFromRaw(rawCfg *RawConfig, opts RuntimeOptions, resolvedConfigPath string) (*Config, error) {
	modelRef := opts.ModelRef
	if modelRef == "" {
		if rawCfg.Defaults.Model != "" {
			modelRef = rawCfg.Defaults.Model
		} else if len(rawCfg.Models) == 1 {
			modelRef = rawCfg.Models[0].Ref
		} else {
			return nil, fmt.Errorf("no model specified. Set RANAK_MODEL environment variable, use --model flag, or set defaults.model in configuration")
		}
	}

	selectedModel, found := rawCfg.FindModel(modelRef)
	if !found {
		return nil, fmt.Errorf("model %q not found in configuration", modelRef)
	}

	timeout, err := resolveTimeout(rawCfg.Defaults, opts)
	if err != nil {
		return nil, err
	}

	// A path given on the command line is relative to the working directory
	var historyPath string
	if opts.HistoryPath != "" {
		historyPath, err = ResolveHistoryPath(opts.HistoryPath, "")
	} else {
		historyPath, err = ResolveHistoryPath(rawCfg.Defaults.HistoryPath, resolvedConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid history path: %w", err)
	}

	return &Config{
		Model:                   selectedModel.Model,
		GenerationParams:        resolveGenerationParams(selectedModel, rawCfg.Defaults, opts),
		SystemMessage:           resolveSystemMessage(selectedModel, rawCfg.Defaults),
		MaxConsecutiveAutoReply: resolveMaxConsecutiveAutoReply(rawCfg.Defaults),
		Timeout:                 timeout,
		RestoreOnFailure:        rawCfg.Defaults.RestoreOnFailure != nil && *rawCfg.Defaults.RestoreOnFailure,
		HistoryPath:             historyPath,
		Prompts:                 rawCfg.Prompts,
		Export:                  resolveExport(rawCfg.Export, opts),
	}, nil
}

// resolveSystemMessage resolves the system message with precedence:
// model-specific > global defaults > DefaultSystemMessage
func resolveSystemMessage(model ModelConfig, defaults Defaults) string {
	if model.SystemMessage != "" {
		return model.SystemMessage
	}
	if defaults.SystemMessage != "" {
		return defaults.SystemMessage
	}
	return DefaultSystemMessage
}

func resolveMaxConsecutiveAutoReply(defaults Defaults) int {
	if defaults.MaxConsecutiveAutoReply > 0 {
		return defaults.MaxConsecutiveAutoReply
	}
	return DefaultMaxConsecutiveAutoReply
}

// resolveGenerationParams merges generation parameters with precedence:
// CLI flags > Model-specific > Global defaults
func resolveGenerationParams(model ModelConfig, defaults Defaults, opts RuntimeOptions) GenerationParams {
	var params GenerationParams
	mergeGenerationParams(&params, defaults.GenerationParams)
	mergeGenerationParams(&params, model.GenerationDefaults)
	mergeGenerationParams(&params, opts.GenParams)
	if params.Seed == nil {
		seed := DefaultSeed
		params.Seed = &seed
	}
	return params
}

// mergeGenerationParams applies non-nil fields from src onto dst.
// A nil pointer in src means "not set" and leaves dst unchanged, while a
// non-nil pointer to a zero value still overrides.
func mergeGenerationParams(dst, src *GenerationParams) {
	if src == nil {
		return
	}
	if src.Temperature != nil {
		dst.Temperature = src.Temperature
	}
	if src.TopP != nil {
		dst.TopP = src.TopP
	}
	if src.MaxTokens != nil {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Seed != nil {
		dst.Seed = src.Seed
	}
}

// resolveTimeout resolves timeout with precedence:
// CLI flag > Global defaults > DefaultTimeout
func resolveTimeout(defaults Defaults, opts RuntimeOptions) (time.Duration, error) {
	timeout := DefaultTimeout

	if opts.Timeout != "" {
		parsedTimeout, err := time.ParseDuration(opts.Timeout)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout value %q: %w", opts.Timeout, err)
		}
		timeout = parsedTimeout
	} else if defaults.Timeout != "" {
		parsedTimeout, err := time.ParseDuration(defaults.Timeout)
		if err != nil {
			return 0, fmt.Errorf("invalid default timeout value %q: %w", defaults.Timeout, err)
		}
		timeout = parsedTimeout
	}

	return timeout, nil
}

func resolveExport(export ExportConfig, opts RuntimeOptions) ExportConfig {
	if opts.OutputDir != "" {
		export.Dir = opts.OutputDir
	}
	if export.Dir == "" {
		export.Dir = "."
	}
	return export
}
