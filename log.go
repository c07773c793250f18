package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// setupLog configures the global logger. By default warnings and errors go
// to stderr so spoken lines stay clean on stdout; SAYLINE_LOGFILE redirects
// everything to a file and --debug lowers the level.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)

	if viper.GetBool("debug") || os.Getenv("SAYLINE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}

	path := os.Getenv("SAYLINE_LOGFILE")
	if path == "" {
		return func() error { return nil }, nil
	}

	if path == "default" {
		scope := gap.NewScope(gap.User, "sayline")
		cacheDir, err := scope.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("unable to resolve log location: %w", err)
		}
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create log directory: %w", err)
		}
		path = filepath.Join(cacheDir, "sayline.log")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
