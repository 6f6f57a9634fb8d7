// Package handlers provides command handler functions for xdrsync tenant
// inspection.
package handlers

import (
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/display"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/utils"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/spf13/cobra"
)

// HandleTenantList handles the tenant ls command: show every configured
// tenant without exposing key material.
func HandleTenantList(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}

	settings, source, err := loadSettings()
	if err != nil {
		return err
	}

	display.DisplayTenants(settings, source)
	logging.Success("Listed %d configured tenants", len(settings.Tenants))
	return nil
}
