// Package utils provides small path helpers shared by the CLI.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and any environment variables in path.
func ExpandPath(path string) string {
	s := os.ExpandEnv(path)
	if strings.HasPrefix(s, "~") {
		if expanded, err := homedir.Expand(s); err == nil {
			return expanded
		}
	}
	return s
}

// IsWAVPath reports whether path has a .wav extension, case-insensitive.
func IsWAVPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
