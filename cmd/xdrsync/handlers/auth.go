// Package handlers provides command handler functions for xdrsync
// authentication operations.
package handlers

import (
	"context"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/display"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/utils"
	"github.com/ridgeline-sec/xdrsync/internal/fanout"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/spf13/cobra"
)

// HandleAuthTest handles the auth test command: probe every selected
// tenant's credentials with a validate-only request.
func HandleAuthTest(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}

	if err := config.ValidateMaxWorkers(config.Auth.MaxWorkers); err != nil {
		return err
	}

	creds, err := selectTargets(config.Auth.Tenants)
	if err != nil {
		return err
	}

	orchestrator := fanout.NewFromCredentials(creds, config.Global.Timeout, config.Auth.MaxWorkers)
	result := orchestrator.TestAuthAll(context.Background())

	display.DisplayAggregate(result)
	display.DisplayArtifacts(emitRunReports("test-auth", result))

	if !result.OverallSuccess() {
		return runError("authentication", result)
	}
	logging.Success("All %d tenants authenticated successfully", result.TotalTenants)
	return nil
}
