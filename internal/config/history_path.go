package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveHistoryPath resolves the transcript history path into an effective
// db path. An empty path disables history. Absolute paths are used directly;
// relative paths are resolved against the config file directory.
func ResolveHistoryPath(rawPath, configFilePath string) (string, error) {
	if rawPath == "" {
		return "", nil
	}

	path, err := expandHomePath(rawPath)
	if err != nil {
		return "", err
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	if configFilePath == "" {
		return filepath.Clean(path), nil
	}

	return filepath.Clean(filepath.Join(filepath.Dir(configFilePath), path)), nil
}

func expandHomePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory for %q: %w", path, err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}

	if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("unsupported home path format %q (use ~/...)", path)
	}

	return path, nil
}
