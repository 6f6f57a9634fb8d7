// Package config provides configuration management for the xdrsync CLI.
package config

import (
	"fmt"
	"time"

	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	if err := ValidateLogLevel(); err != nil {
		return err
	}

	if err := ValidateTimeout(); err != nil {
		return err
	}

	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[Global.Output] {
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
	return nil
}

// ValidateLogLevel validates the --log-level flag
func ValidateLogLevel() error {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		logging.Error("Invalid log level '%s': %v", Global.LogLevel, err)
		return fmt.Errorf("invalid log level - valid: DEBUG, INFO, WARN, ERROR")
	}
	return nil
}

// ValidateTimeout validates the --timeout flag
func ValidateTimeout() error {
	if err := validate.ValidatePositiveTimeout(time.Duration(Global.Timeout)*time.Second, "timeout"); err != nil {
		logging.Error("Invalid timeout %d - must be at least 1 second", Global.Timeout)
		return fmt.Errorf("timeout must be a positive number of seconds")
	}
	return nil
}

// ValidateMode validates the --mode flag
func ValidateMode() error {
	validModes := map[string]bool{
		"csv":  true,
		"json": true,
	}
	if !validModes[Upload.Mode] {
		logging.Error("Invalid mode '%s' - valid modes are: csv, json", Upload.Mode)
		return fmt.Errorf("invalid mode - valid: csv, json")
	}
	return nil
}

// ValidateBatchSize validates the --batch-size flag
func ValidateBatchSize() error {
	if Upload.BatchSize < 1 {
		logging.Error("Invalid batch size %d - must be at least 1", Upload.BatchSize)
		return fmt.Errorf("batch size must be at least 1")
	}
	return nil
}

// ValidateMaxWorkers validates the --max-workers flag
func ValidateMaxWorkers(workers int) error {
	if workers < 1 || workers > 20 {
		logging.Error("Invalid max workers %d - must be between 1 and 20", workers)
		return fmt.Errorf("max workers must be between 1 and 20")
	}
	return nil
}
