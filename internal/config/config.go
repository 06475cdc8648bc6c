package config

import "time"

// Model describes one entry of the provider configuration list.
type Model struct {
	Ref          string              `json:"ref" yaml:"ref" validate:"required" jsonschema:"required,description=Unique name used to select the model"`
	DisplayName  string              `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	ID           string              `json:"id" yaml:"id" validate:"required" jsonschema:"required,description=Model identifier sent to the provider"`
	Type         string              `json:"type" yaml:"type" validate:"required,oneof=openai anthropic gemini ollama" jsonschema:"required,enum=openai,enum=anthropic,enum=gemini,enum=ollama"`
	BaseUrl      string              `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	ApiKeyEnv    string              `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty" validate:"required_unless=Type ollama" jsonschema:"description=Name of the environment variable holding the API key"`
	PatchRequest *PatchRequestConfig `json:"patchRequest,omitempty" yaml:"patchRequest,omitempty"`
}

// PatchRequestConfig holds configuration for patching outgoing HTTP requests
type PatchRequestConfig struct {
	JSONPatch      []map[string]interface{} `json:"jsonPatch,omitempty" yaml:"jsonPatch,omitempty"`
	IncludeHeaders map[string]string        `json:"includeHeaders,omitempty" yaml:"includeHeaders,omitempty"`
}

// ModelConfig extends the base model with generation defaults
type ModelConfig struct {
	Model `yaml:",inline" json:",inline"`

	// Optional override for the assistant system message
	SystemMessage string `yaml:"systemMessage,omitempty" json:"systemMessage,omitempty"`

	// Generation parameter defaults for this model
	GenerationDefaults *GenerationParams `yaml:"generationDefaults,omitempty" json:"generationDefaults,omitempty"`
}

// GenerationParams holds generation parameters. A nil field means "not set".
type GenerationParams struct {
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" validate:"omitnil,gte=0,lte=2"`
	TopP        *float64 `yaml:"topP,omitempty" json:"topP,omitempty" validate:"omitnil,gte=0,lte=1"`
	MaxTokens   *int     `yaml:"maxTokens,omitempty" json:"maxTokens,omitempty" validate:"omitnil,gt=0"`
	Seed        *int64   `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Defaults holds global defaults
type Defaults struct {
	// Default model ref to use if not specified
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Assistant system message
	SystemMessage string `yaml:"systemMessage,omitempty" json:"systemMessage,omitempty"`

	// Upper bound on assistant replies produced for a single request
	MaxConsecutiveAutoReply int `yaml:"maxConsecutiveAutoReply,omitempty" json:"maxConsecutiveAutoReply,omitempty" validate:"omitempty,min=1,max=20"`

	// Global generation parameter defaults
	GenerationParams *GenerationParams `yaml:"generationParams,omitempty" json:"generationParams,omitempty"`

	// Request timeout
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Restore the previous response when a request fails
	RestoreOnFailure *bool `yaml:"restoreOnFailure,omitempty" json:"restoreOnFailure,omitempty"`

	// Path of the sqlite transcript history. Empty disables history.
	HistoryPath string `yaml:"historyPath,omitempty" json:"historyPath,omitempty"`
}

// PromptsConfig overrides the follow-up prompt templates
type PromptsConfig struct {
	Subtopics string `yaml:"subtopics,omitempty" json:"subtopics,omitempty"`
	Summarize string `yaml:"summarize,omitempty" json:"summarize,omitempty"`
}

// ExportConfig controls where and how download artifacts are written
type ExportConfig struct {
	// Directory artifacts are written to
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
	// File name without extension
	BaseName string `yaml:"baseName,omitempty" json:"baseName,omitempty"`
	// Render markdown fragments as plain text in Word and PDF artifacts
	PlainText bool `yaml:"plainText,omitempty" json:"plainText,omitempty"`
}

// RawConfig is the configuration file as written by the user
type RawConfig struct {
	// Model definitions
	Models []ModelConfig `yaml:"models" json:"models" validate:"required,min=1,dive"`

	// Default settings
	Defaults Defaults `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Follow-up prompt templates
	Prompts PromptsConfig `yaml:"prompts,omitempty" json:"prompts,omitempty"`

	// Download settings
	Export ExportConfig `yaml:"export,omitempty" json:"export,omitempty"`

	// Version for future compatibility
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// FindModel searches for a model by ref in the config
func (c *RawConfig) FindModel(ref string) (ModelConfig, bool) {
	for _, model := range c.Models {
		if model.Ref == ref {
			return model, true
		}
	}
	return ModelConfig{}, false
}

// Config is the effective runtime configuration for one session
type Config struct {
	Model                   Model
	GenerationParams        GenerationParams
	SystemMessage           string
	MaxConsecutiveAutoReply int
	Timeout                 time.Duration
	RestoreOnFailure        bool
	HistoryPath             string
	Prompts                 PromptsConfig
	Export                  ExportConfig
}

// RuntimeOptions carries command line overrides applied on top of the file
type RuntimeOptions struct {
	ModelRef    string
	GenParams   *GenerationParams
	Timeout     string
	HistoryPath string
	OutputDir   string
}
