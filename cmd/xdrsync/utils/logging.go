// Package utils provides utility functions for the xdrsync CLI.
// This file contains logging setup utilities.
package utils

import (
	"fmt"
	"os"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
)

// SetupLogging configures CLI logging behavior based on environment and config.
// With --log-file set, every log line is appended to that file at the
// configured level, which is what scheduled runs want. Otherwise enables
// debug output when DEBUG=true, or applies the configured level and
// suppresses verbose logs to keep interactive output clean.
//
// Standard library logs from dependencies are routed into the unified
// pipeline at DEBUG level either way.
func SetupLogging() error {
	logging.RedirectStandardLog(logging.NewLevelWriter("DEBUG", "stdlib"))

	if config.Global.LogFile != "" {
		f, err := os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logging.SetOutput(f)
		logging.SetLevel(config.Global.LogLevel)
		return nil
	}

	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return nil
	}

	logging.SetLevel(config.Global.LogLevel)
	if !config.Global.Verbose {
		logging.SuppressOutput()
	}
	return nil
}
