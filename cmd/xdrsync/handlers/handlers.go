// Package handlers provides command handler functions for xdrsync.
//
// This package contains all the command execution logic for xdrsync
// commands, organized by resource type for maintainability and clean
// separation of concerns:
//
// - upload.go: dataset upload, remote validation, and offline linting
// - auth.go: tenant credential verification
// - tenant.go: configured tenant inspection
// - file.go: dataset preparation (classify and field assignment)
//
// All handlers follow consistent patterns:
// - cobra.Command RunE function signature for CLI integration
// - Standardized error handling and logging using the logging package
// - Consistent output formatting through the display package
// - Run artifacts written through the reporting package
package handlers

import (
	"fmt"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/utils"
	"github.com/ridgeline-sec/xdrsync/internal/fanout"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/reporting"
	"github.com/ridgeline-sec/xdrsync/internal/tenant"
)

// loadSettings resolves tenant settings from --config-file or the
// environment and names the source for display.
func loadSettings() (*tenant.Settings, string, error) {
	settings, err := tenant.Load(config.Global.ConfigFile)
	if err != nil {
		return nil, "", err
	}

	source := "environment"
	if config.Global.ConfigFile != "" {
		source = config.Global.ConfigFile
	}
	return settings, source, nil
}

// selectTargets loads settings and resolves the --tenants selection into
// concrete credentials.
func selectTargets(tenantsFlag string) ([]tenant.Credential, error) {
	settings, _, err := loadSettings()
	if err != nil {
		return nil, err
	}

	names := utils.ParseTenantList(tenantsFlag)
	creds, err := settings.Select(names)
	if err != nil {
		return nil, err
	}
	logging.Info("Selected %d of %d configured tenants", len(creds), len(settings.Tenants))
	return creds, nil
}

// newReporter creates the run artifact writer for the configured reports
// directory.
func newReporter() (*reporting.Writer, error) {
	return reporting.NewWriter(config.Global.ReportsDir)
}

// emitRunReports writes the consolidated and per-tenant artifacts plus
// error CSVs for a fan-out result. Report failures are logged, not fatal;
// the operation outcome matters more than its paperwork.
func emitRunReports(action string, result *fanout.AggregateResult) []string {
	writer, err := newReporter()
	if err != nil {
		logging.Error("Failed to prepare reports directory: %v", err)
		return nil
	}

	paths, err := writer.EmitAggregate(action, result)
	if err != nil {
		logging.Error("Failed to write run artifacts: %v", err)
	}

	errorPaths, err := writer.WriteTenantErrors(result)
	if err != nil {
		logging.Error("Failed to write error CSVs: %v", err)
	}
	return append(paths, errorPaths...)
}

// runError converts a failed aggregate into the commands' exit error.
func runError(action string, result *fanout.AggregateResult) error {
	return fmt.Errorf("%s failed for %d of %d tenants",
		action, result.FailedTenants, result.TotalTenants)
}
