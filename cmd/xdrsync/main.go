// Package main provides the entry point for the xdrsync CLI tool.
//
// This package implements the main executable for the multi-tenant indicator
// upload CLI that pushes threat indicator (IOC) datasets to Cortex XDR
// tenants. The CLI provides commands for validating and uploading datasets,
// verifying tenant credentials, and preparing CSV files before upload.
//
// CLI ARCHITECTURE:
// The main package orchestrates the complete CLI system including:
//   - Command Structure: Dataset commands (upload, validate, lint) plus
//     auth, tenant, and file command trees
//   - Handler Integration: Command execution against the upload pipeline
//   - Flag Management: Global and command-specific configuration options
//   - Configuration Binding: CLI state management and validation pipeline
//
// INITIALIZATION FLOW:
// 1. Command structure setup with hierarchical organization
// 2. Flag configuration for global and command-specific options
// 3. Handler assignment linking commands to pipeline operations
// 4. Configuration validation and CLI state management
// 5. Command execution with proper error handling and exit codes
//
// The CLI follows kubectl-style patterns with consistent interfaces,
// comprehensive help text, and production-ready reliability.
package main

import (
	"os"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/commands"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/handlers"
	"github.com/ridgeline-sec/xdrsync/internal/fileops"
	"github.com/ridgeline-sec/xdrsync/internal/reporting"
	"github.com/spf13/cobra"
)

func init() {
	// Get root command from commands package
	rootCmd := commands.RootCmd

	// Set version and validation
	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	// Setup all command structures
	commands.SetupCommands()
	commands.SetupAuthCommands()
	commands.SetupTenantCommands()
	commands.SetupFileCommands()

	// Setup global flags
	commands.SetupGlobalFlags(rootCmd, &config.Global.ConfigFile, &config.Global.LogLevel,
		&config.Global.LogFile, &config.Global.Timeout, &config.Global.Verbose,
		&config.Global.Output, &config.Global.ReportsDir, config.DefaultTimeout, reporting.DefaultDir)

	// Setup dataset command flags
	uploadCmd, validateCmd, lintCmd := commands.GetUploadCommands()
	commands.SetupUploadFlags(uploadCmd, validateCmd, lintCmd,
		&config.Upload.Mode, &config.Upload.BatchSize, &config.Upload.Tenants, &config.Upload.MaxWorkers)

	// Setup auth command flags
	commands.SetupAuthFlags(commands.GetAuthTestCommand(), &config.Auth.Tenants, &config.Auth.MaxWorkers)

	// Setup file command flags
	setupFileFlags()

	// Setup command handlers
	setupCommandHandlers()
}

// setupFileFlags configures flags for the file preparation commands
func setupFileFlags() {
	classifyCmd, reputationCmd, severityCmd, commentCmd, reliabilityCmd := commands.GetFileCommands()

	commands.SetupClassifyFlags(classifyCmd, &config.File.OnlyEmpty, &config.File.Force)

	for _, cmd := range []*cobra.Command{classifyCmd, reputationCmd, severityCmd, commentCmd, reliabilityCmd} {
		commands.SetupFileOutputFlags(cmd, &config.File.Output,
			&config.File.InPlace, &config.File.NoBackup, &config.File.DryRun)
	}

	for _, cmd := range []*cobra.Command{reputationCmd, severityCmd, commentCmd, reliabilityCmd} {
		commands.SetupOnlyEmptyFlag(cmd, &config.File.OnlyEmpty)
		commands.SetupOverrideFlags(cmd,
			&config.File.HashDefault, &config.File.HashValue,
			&config.File.IPDefault, &config.File.IPValue,
			&config.File.DomainDefault, &config.File.DomainValue,
			&config.File.PathDefault, &config.File.PathValue,
			&config.File.FilenameDefault, &config.File.FilenameValue)
	}
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	uploadCmd, validateCmd, lintCmd := commands.GetUploadCommands()
	uploadCmd.RunE = handlers.HandleUpload
	validateCmd.RunE = handlers.HandleValidate
	lintCmd.RunE = handlers.HandleLint

	commands.GetAuthTestCommand().RunE = handlers.HandleAuthTest
	commands.GetTenantLsCommand().RunE = handlers.HandleTenantList

	classifyCmd, reputationCmd, severityCmd, commentCmd, reliabilityCmd := commands.GetFileCommands()
	classifyCmd.RunE = handlers.HandleFileClassify
	reputationCmd.RunE = handlers.NewApplyHandler(fileops.FieldReputation, "reputation")
	severityCmd.RunE = handlers.NewApplyHandler(fileops.FieldSeverity, "severity")
	commentCmd.RunE = handlers.NewApplyHandler(fileops.FieldComment, "comment")
	reliabilityCmd.RunE = handlers.NewApplyHandler(fileops.FieldReliability, "reliability")
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
