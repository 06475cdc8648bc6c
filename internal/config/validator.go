package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ranaklabs/ranak/internal/prompt"
)

// Validate checks if the configuration is valid.
func (c *RawConfig) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration file: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if _, dup := seen[m.Ref]; dup {
			return fmt.Errorf("duplicate model ref %q", m.Ref)
		}
		seen[m.Ref] = struct{}{}
	}

	// Validate default model if specified
	if c.Defaults.Model != "" {
		if _, found := c.FindModel(c.Defaults.Model); !found {
			return fmt.Errorf("defaults.model '%s' not found in models list", c.Defaults.Model)
		}
	}

	if c.Defaults.Timeout != "" {
		if _, err := time.ParseDuration(c.Defaults.Timeout); err != nil {
			return fmt.Errorf("defaults.timeout: %w", err)
		}
	}

	if c.Prompts.Subtopics != "" {
		if err := prompt.ValidateTemplate("subtopics", c.Prompts.Subtopics); err != nil {
			return fmt.Errorf("prompts.subtopics: %w", err)
		}
	}
	if c.Prompts.Summarize != "" {
		if err := prompt.ValidateTemplate("summarize", c.Prompts.Summarize); err != nil {
			return fmt.Errorf("prompts.summarize: %w", err)
		}
	}

	return nil
}
