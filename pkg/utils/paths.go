// Package utils holds small helpers shared across the CLI and the
// engine configuration.
package utils

import (
	"os"
	"path/filepath"
)

// ExpandPath expands a leading ~ and environment variables in a path.
// Values arriving from config files or flags have not been through a
// shell, so the expansion the user expects has to happen here.
func ExpandPath(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return os.ExpandEnv(path)
}
