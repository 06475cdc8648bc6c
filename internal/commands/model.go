package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ranaklabs/ranak/internal/config"
)

// ModelListOptions contains parameters for listing models
type ModelListOptions struct {
	Config       *config.RawConfig
	DefaultModel string
	Writer       io.Writer
}

// ModelList lists all configured models
func ModelList(ctx context.Context, opts ModelListOptions) error {
	defaultModel := opts.DefaultModel
	if defaultModel == "" {
		defaultModel = opts.Config.Defaults.Model
	}
	for _, model := range opts.Config.Models {
		line := model.Ref
		if defaultModel != "" && model.Ref == defaultModel {
			line += " (default)"
		}
		fmt.Fprintln(opts.Writer, line)
	}
	return nil
}

// ModelInfoOptions contains parameters for showing model details
type ModelInfoOptions struct {
	Config    *config.RawConfig
	ModelName string
	Writer    io.Writer
}

// ModelInfo displays detailed information about a specific model
func ModelInfo(ctx context.Context, opts ModelInfoOptions) error {
	if opts.ModelName == "" {
		return fmt.Errorf("no model name provided")
	}

	model, found := opts.Config.FindModel(opts.ModelName)
	if !found {
		return fmt.Errorf("model %q not found", opts.ModelName)
	}

	fmt.Fprintf(opts.Writer, "Ref: %s\nDisplay Name: %s\nType: %s\nID: %s\n",
		model.Ref, model.DisplayName, model.Type, model.ID,
	)
	if model.BaseUrl != "" {
		fmt.Fprintf(opts.Writer, "Base URL: %s\n", model.BaseUrl)
	}
	if model.ApiKeyEnv != "" {
		fmt.Fprintf(opts.Writer, "API Key Env: %s\n", model.ApiKeyEnv)
	}
	if model.SystemMessage != "" {
		fmt.Fprintf(opts.Writer, "System Message: %s\n", model.SystemMessage)
	}

	if model.GenerationDefaults != nil {
		fmt.Fprintln(opts.Writer, "\nGeneration Defaults:")
		if model.GenerationDefaults.Temperature != nil {
			fmt.Fprintf(opts.Writer, "  Temperature: %.2f\n", *model.GenerationDefaults.Temperature)
		}
		if model.GenerationDefaults.TopP != nil {
			fmt.Fprintf(opts.Writer, "  TopP: %.2f\n", *model.GenerationDefaults.TopP)
		}
		if model.GenerationDefaults.MaxTokens != nil {
			fmt.Fprintf(opts.Writer, "  MaxTokens: %d\n", *model.GenerationDefaults.MaxTokens)
		}
		if model.GenerationDefaults.Seed != nil {
			fmt.Fprintf(opts.Writer, "  Seed: %d\n", *model.GenerationDefaults.Seed)
		}
	}

	return nil
}
