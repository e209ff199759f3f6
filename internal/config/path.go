// Package config loads finsense settings from viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in a file path.
// Empty paths and SQLite's ":memory:" come back untouched.
func ExpandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}

	// Tilde first, so "~/$DIR" resolves against the home directory
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	// An unset variable expands to ""
	return os.ExpandEnv(path)
}
