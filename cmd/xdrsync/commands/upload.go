package commands

import (
	"github.com/spf13/cobra"
)

// Upload commands
var (
	uploadCmd = &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an indicator dataset to all target tenants",
		Long: `Upload an indicator CSV file to every target tenant.

The dataset is validated against every tenant first; if any tenant rejects
any row, nothing is committed anywhere. On a clean validation the rows are
committed in ordered batches, each batch succeeding or failing as a whole.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Upload to every configured tenant
  xdrsync upload iocs.csv

  # Upload to selected tenants with smaller batches
  xdrsync upload --tenants=prod --batch-size=500 iocs.csv

  # Use the JSON ingestion endpoint
  xdrsync upload --mode=json iocs.csv`,
	}

	validateCmd = &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an indicator dataset against tenants without committing",
		Long: `Validate an indicator CSV file against every target tenant.

Runs the same remote validation the upload command runs, reports which
tenants would reject the dataset and why, and commits nothing.`,
		Args: cobra.ExactArgs(1),
	}

	lintCmd = &cobra.Command{
		Use:   "lint <file>",
		Short: "Check an indicator dataset offline",
		Long: `Check an indicator CSV file's structure and vocabulary locally.

Parses the file, normalizes every row, and reports structural problems
without contacting any tenant. A dataset that lints clean can still be
rejected by a tenant's own validation rules.`,
		Args: cobra.ExactArgs(1),
	}
)

// GetUploadCommands returns the upload, validate, and lint commands for
// flag setup and handler assignment
func GetUploadCommands() (*cobra.Command, *cobra.Command, *cobra.Command) {
	return uploadCmd, validateCmd, lintCmd
}

// SetupUploadFlags configures flags shared by upload and validate
func SetupUploadFlags(uploadCmd, validateCmd, lintCmd *cobra.Command,
	modePtr *string, batchSizePtr *int, tenantsPtr *string, maxWorkersPtr *int) {
	for _, cmd := range []*cobra.Command{uploadCmd, validateCmd, lintCmd} {
		cmd.Flags().StringVar(modePtr, "mode", "csv",
			"Wire format: csv, json")
	}
	for _, cmd := range []*cobra.Command{uploadCmd, validateCmd} {
		cmd.Flags().StringVar(tenantsPtr, "tenants", "",
			"Comma-separated tenant names (all configured tenants when omitted)")
		cmd.Flags().IntVar(maxWorkersPtr, "max-workers", 5,
			"Maximum concurrent tenant pipelines (1-20)")
	}
	uploadCmd.Flags().IntVar(batchSizePtr, "batch-size", 1000,
		"Rows per commit request")
}
