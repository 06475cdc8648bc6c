package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no research configuration exists in any
// searched location.
var ErrConfigNotFound = errors.New("configuration file not found")

// ConfigPathEnv names a configuration file to use when --config is not given.
const ConfigPathEnv = "RANAK_CONFIG"

var configNames = []string{"ranak.yaml", "ranak.yml", "ranak.json"}

// LoadRawConfig loads and validates the configuration without resolving a
// model, for commands that list or inspect models.
func LoadRawConfig(explicitPath string) (*RawConfig, error) {
	cfg, _, err := LoadRawConfigWithPath(explicitPath)
	return cfg, err
}

// LoadRawConfigWithPath loads and validates the configuration and reports
// which file it came from, so relative paths inside it (history database,
// export dir) can be resolved against that file.
func LoadRawConfigWithPath(explicitPath string) (*RawConfig, string, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, "", fmt.Errorf("specified config file does not exist: %s", path)
			}
			return nil, "", fmt.Errorf("cannot access config file %s: %w", path, err)
		}
	} else {
		found, err := findConfigFile(configSearchDirs())
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrConfigNotFound, err)
		}
		path = found
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := loadRawConfigFromFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// configSearchDirs lists the directories searched for a configuration file:
// the working directory, then <user config dir>/ranak.
func configSearchDirs() []string {
	dirs := []string{"."}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, "ranak"))
	}
	return dirs
}

// findConfigFile returns the first existing configuration file name from
// configNames in dirs, checked in order.
func findConfigFile(dirs []string) (string, error) {
	var tried []string
	for _, dir := range dirs {
		for _, name := range configNames {
			path := name
			if dir != "." {
				path = filepath.Join(dir, name)
			}
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
			tried = append(tried, path)
		}
	}
	return "", fmt.Errorf("create one of the following files, set %s, or pass --config:\n  - %s",
		ConfigPathEnv, strings.Join(tried, "\n  - "))
}

// loadRawConfigFromFile parses a configuration file, choosing the format from
// the file name.
func loadRawConfigFromFile(file fs.File) (*RawConfig, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("error getting file info: %w", err)
	}
	return parseConfigData(data, stat.Name())
}

// parseConfigData expands $VAR and ${VAR} references and then decodes the
// data. A .json file is decoded strictly as JSON. Anything else is decoded as
// YAML, which also accepts JSON documents.
func parseConfigData(data []byte, filename string) (*RawConfig, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg RawConfig
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		if err = json.Unmarshal(expanded, &cfg); err != nil {
			err = fmt.Errorf("error parsing JSON config: %w", err)
		}
	} else {
		if err = yaml.Unmarshal(expanded, &cfg); err != nil {
			err = fmt.Errorf("error parsing YAML config: %w", err)
		}
	}
	if err != nil {
		if strings.Contains(string(data), "$") {
			err = fmt.Errorf("%w (hint: expanded environment variables may contain characters that break the syntax)", err)
		}
		return nil, err
	}
	return &cfg, nil
}
