package commands

import (
	"github.com/spf13/cobra"
)

// Tenant commands
var (
	tenantCmd = &cobra.Command{
		Use:   "tenant",
		Short: "Inspect configured tenants",
	}

	tenantLsCmd = &cobra.Command{
		Use:   "ls",
		Short: "List configured tenants",
		Long: `List every configured tenant with its host, key ID, and auth mode.

API keys themselves are never displayed.`,
		Aliases: []string{"list"},
	}
)

// SetupTenantCommands wires the tenant command tree
func SetupTenantCommands() {
	tenantCmd.AddCommand(tenantLsCmd)
}

// GetTenantLsCommand returns the tenant ls command for handler assignment
func GetTenantLsCommand() *cobra.Command {
	return tenantLsCmd
}
