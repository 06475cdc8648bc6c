package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/ranaklabs/ranak/internal/config"
)

func main() {
	if err := generateSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
		os.Exit(1)
	}
}

func generateSchema() error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
	}

	schema := reflector.Reflect(&config.RawConfig{})
	schema.Title = "Ranak Configuration Schema"
	schema.Description = "JSON Schema for ranak (Ranak Research Agent) configuration files"
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.ID = "https://raw.githubusercontent.com/ranaklabs/ranak/refs/heads/main/schema/ranak-config-schema.json"

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	moduleRoot := os.Getenv("GOMOD")
	if moduleRoot != "" {
		moduleRoot = filepath.Dir(moduleRoot)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		moduleRoot = findModuleRoot(wd)
	}

	schemaPath := filepath.Join(moduleRoot, "schema", "ranak-config-schema.json")
	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}
	if err := os.WriteFile(schemaPath, append(schemaJSON, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}

	fmt.Printf("Generated schema: %s\n", schemaPath)
	return nil
}

// findModuleRoot walks up from start until it finds go.mod
func findModuleRoot(start string) string {
	current := start
	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return current
		}
		current = parent
	}
}
