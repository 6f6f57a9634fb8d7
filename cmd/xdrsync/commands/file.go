package commands

import (
	"github.com/spf13/cobra"
)

// File preparation commands
var (
	fileCmd = &cobra.Command{
		Use:   "file",
		Short: "Prepare indicator CSV files before upload",
		Long: `Prepare an indicator CSV file locally: fill in missing types or
bulk-assign reputation, severity, comment, or reliability values.

By default the result is written next to the input as <name>-<op>.csv;
use --in-place to overwrite the input (a .bak backup is kept unless
--no-backup is given).`,
	}

	fileClassifyCmd = &cobra.Command{
		Use:   "classify <file>",
		Short: "Infer indicator types from indicator values",
		Long: `Infer each row's indicator type (HASH, IP, PATH, DOMAIN_NAME,
FILENAME) from its value and fill or correct the type column.

Confident detections overwrite conflicting types; ambiguous ones are
skipped unless --force is given.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Fill in missing types only
  xdrsync file classify --only-empty iocs.csv

  # Correct every type, even on low confidence
  xdrsync file classify --force --in-place iocs.csv`,
	}

	fileReputationCmd = &cobra.Command{
		Use:   "reputation <value> <file>",
		Short: "Assign reputation values",
		Long: `Assign a reputation (GOOD, BAD, SUSPICIOUS, UNKNOWN) across the
dataset. The literal value "no reputation" clears the column.`,
		Args: cobra.ExactArgs(2),
	}

	fileSeverityCmd = &cobra.Command{
		Use:   "severity <value> <file>",
		Short: "Assign severity values",
		Long: `Assign a severity (INFO, LOW, MEDIUM, HIGH, CRITICAL) across the
dataset. Severity is required by the ingestion API and cannot be cleared.`,
		Args: cobra.ExactArgs(2),
		Example: `  # Medium everywhere, critical for hashes
  xdrsync file severity medium --hash-value=critical iocs.csv

  # High for IPs and domains only, leave the rest untouched
  xdrsync file severity high --ip --domain iocs.csv`,
	}

	fileCommentCmd = &cobra.Command{
		Use:   "comment <text> <file>",
		Short: "Assign comment text",
		Args:  cobra.ExactArgs(2),
	}

	fileReliabilityCmd = &cobra.Command{
		Use:   "reliability <value> <file>",
		Short: "Assign reliability grades",
		Long:  `Assign a reliability grade (A through G) across the dataset.`,
		Args:  cobra.ExactArgs(2),
	}
)

// SetupFileCommands wires the file command tree
func SetupFileCommands() {
	fileCmd.AddCommand(fileClassifyCmd)
	fileCmd.AddCommand(fileReputationCmd)
	fileCmd.AddCommand(fileSeverityCmd)
	fileCmd.AddCommand(fileCommentCmd)
	fileCmd.AddCommand(fileReliabilityCmd)
}

// GetFileCommands returns the file subcommands for flag setup and handler
// assignment
func GetFileCommands() (classify, reputation, severity, comment, reliability *cobra.Command) {
	return fileClassifyCmd, fileReputationCmd, fileSeverityCmd, fileCommentCmd, fileReliabilityCmd
}

// SetupFileOutputFlags attaches the output flags every file command shares
func SetupFileOutputFlags(cmd *cobra.Command, outputPtr *string, inPlacePtr, noBackupPtr, dryRunPtr *bool) {
	cmd.Flags().StringVar(outputPtr, "out", "",
		"Write results to this CSV file (defaults to <name>-<op>.csv)")
	cmd.Flags().BoolVar(inPlacePtr, "in-place", false,
		"Overwrite the input file with results")
	cmd.Flags().BoolVar(noBackupPtr, "no-backup", false,
		"Skip creating a .bak when using --in-place")
	cmd.Flags().BoolVar(dryRunPtr, "dry-run", false,
		"Preview changes without writing any file")
}

// SetupClassifyFlags attaches the classify-only flags
func SetupClassifyFlags(cmd *cobra.Command, onlyEmptyPtr, forcePtr *bool) {
	cmd.Flags().BoolVar(onlyEmptyPtr, "only-empty", false,
		"Only fill rows with an empty type")
	cmd.Flags().BoolVar(forcePtr, "force", false,
		"Overwrite conflicting types even on low-confidence detections")
}

// SetupOnlyEmptyFlag attaches the --only-empty flag shared by the apply commands
func SetupOnlyEmptyFlag(cmd *cobra.Command, onlyEmptyPtr *bool) {
	cmd.Flags().BoolVar(onlyEmptyPtr, "only-empty", false,
		"Only fill rows where the field is currently empty")
}

// SetupOverrideFlags attaches the per-type override flags the apply commands
// share. The bare flag applies the command default to that type only; the
// -value flag sets an explicit value for it.
func SetupOverrideFlags(cmd *cobra.Command,
	hashDefault *bool, hashValue *string,
	ipDefault *bool, ipValue *string,
	domainDefault *bool, domainValue *string,
	pathDefault *bool, pathValue *string,
	filenameDefault *bool, filenameValue *string) {
	cmd.Flags().BoolVar(hashDefault, "hash", false,
		"Apply the command default to HASH indicators")
	cmd.Flags().StringVar(hashValue, "hash-value", "",
		"Explicit override value for HASH indicators")
	cmd.Flags().BoolVar(ipDefault, "ip", false,
		"Apply the command default to IP indicators")
	cmd.Flags().StringVar(ipValue, "ip-value", "",
		"Explicit override value for IP indicators")
	cmd.Flags().BoolVar(domainDefault, "domain", false,
		"Apply the command default to DOMAIN_NAME indicators")
	cmd.Flags().StringVar(domainValue, "domain-value", "",
		"Explicit override value for DOMAIN_NAME indicators")
	cmd.Flags().BoolVar(pathDefault, "path", false,
		"Apply the command default to PATH indicators")
	cmd.Flags().StringVar(pathValue, "path-value", "",
		"Explicit override value for PATH indicators")
	cmd.Flags().BoolVar(filenameDefault, "filename", false,
		"Apply the command default to FILENAME indicators")
	cmd.Flags().StringVar(filenameValue, "filename-value", "",
		"Explicit override value for FILENAME indicators")
}
