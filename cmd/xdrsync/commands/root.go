// Package commands provides the complete command tree implementation for xdrsync.
//
// This package defines the hierarchical command structure for the xdrsync CLI
// tool, organized by what operators do with indicator datasets:
//
// COMMAND STRUCTURE:
//   - upload: two-phase upload of a dataset to every configured tenant
//   - validate: remote validation against tenants without committing
//   - lint: offline structural check of a dataset, no network calls
//   - auth: credential verification (test)
//   - tenant: configured tenant inspection (ls)
//   - file: dataset preparation (classify, reputation, severity, comment,
//     reliability)
//
// All commands follow consistent patterns with standardized flag handling,
// error messages, and output formatting.
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:          "xdrsync",
	Short:        "Validate and upload threat indicator datasets to Cortex XDR tenants",
	SilenceUsage: true,
	Long: `xdrsync is a command-line tool for pushing threat indicator (IOC)
datasets to one or more Cortex XDR tenants.

Datasets are CSV files with indicator, type, and severity columns. Every
upload validates the whole dataset against every target tenant first and
commits in batches only when all tenants accept it, so a bad feed never
lands partially.`,
	Example: `  # Upload a dataset to every configured tenant
  xdrsync upload iocs.csv

  # Upload to selected tenants in JSON mode
  xdrsync upload --tenants=prod,dev --mode=json iocs.csv

  # Validate against tenants without committing anything
  xdrsync validate iocs.csv

  # Check the file offline, no network calls
  xdrsync lint iocs.csv

  # Verify credentials for all tenants
  xdrsync auth test

  # List configured tenants
  xdrsync tenant ls

  # Fill in missing indicator types
  xdrsync file classify iocs.csv

  # Set severity HIGH everywhere, CRITICAL for hashes
  xdrsync file severity high --hash-value=critical iocs.csv`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(uploadCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(lintCmd)
	RootCmd.AddCommand(authCmd)
	RootCmd.AddCommand(tenantCmd)
	RootCmd.AddCommand(fileCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, configFilePtr *string, logLevelPtr *string,
	logFilePtr *string, timeoutPtr *int, verbosePtr *bool, outputPtr *string,
	reportsDirPtr *string, defaultTimeout int, defaultReportsDir string) {
	rootCmd.PersistentFlags().StringVar(configFilePtr, "config-file", "",
		"Tenant configuration file (JSON or YAML); environment variables are used when omitted")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().StringVar(logFilePtr, "log-file", "",
		"Append all logs to this file instead of stdout/stderr (for scheduled runs)")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", defaultTimeout,
		"Request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
	rootCmd.PersistentFlags().StringVar(reportsDirPtr, "reports-dir", defaultReportsDir,
		"Directory for run artifacts and error CSVs")
}
