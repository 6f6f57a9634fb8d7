package commands

import (
	"github.com/spf13/cobra"
)

// Auth commands
var (
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Manage tenant authentication",
	}

	authTestCmd = &cobra.Command{
		Use:   "test",
		Short: "Verify credentials for all target tenants",
		Long: `Verify that every target tenant accepts its configured credentials.

Sends a minimal validate-only probe to each tenant; nothing is committed.
A tenant fails the check when the probe is rejected with an authentication
error.`,
		Example: `  # Test every configured tenant
  xdrsync auth test

  # Test selected tenants
  xdrsync auth test --tenants=prod,dev`,
	}
)

// SetupAuthCommands wires the auth command tree
func SetupAuthCommands() {
	authCmd.AddCommand(authTestCmd)
}

// GetAuthTestCommand returns the auth test command for flag setup and
// handler assignment
func GetAuthTestCommand() *cobra.Command {
	return authTestCmd
}

// SetupAuthFlags configures auth test flags
func SetupAuthFlags(testCmd *cobra.Command, tenantsPtr *string, maxWorkersPtr *int) {
	testCmd.Flags().StringVar(tenantsPtr, "tenants", "",
		"Comma-separated tenant names (all configured tenants when omitted)")
	testCmd.Flags().IntVar(maxWorkersPtr, "max-workers", 5,
		"Maximum concurrent authentication probes (1-20)")
}
