// Package handlers provides command handler functions for xdrsync file
// preparation operations.
//
// This file contains the handlers behind the file command tree: type
// classification and the four field assignment commands. All of them share
// the same output contract: write to a derived path by default, or edit in
// place with an automatic .bak backup.
package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/display"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/utils"
	"github.com/ridgeline-sec/xdrsync/internal/csvio"
	"github.com/ridgeline-sec/xdrsync/internal/fileops"
	"github.com/ridgeline-sec/xdrsync/internal/indicator"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/spf13/cobra"
)

// HandleFileClassify handles the file classify command. Types are loaded
// leniently so rows with empty or invalid type values survive parsing and
// can be filled in.
func HandleFileClassify(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}

	rows, originalTypes, encoding, err := csvio.LoadRowsLenientTypes(args[0])
	if err != nil {
		return err
	}

	updated, summary := fileops.ClassifyRows(rows, originalTypes, config.File.OnlyEmpty, config.File.Force)

	display.DisplaySummary("Classification Summary", []display.SummaryEntry{
		{Metric: "total_rows", Value: utils.FormatCount(summary.TotalRows)},
		{Metric: "updated", Value: utils.FormatCount(summary.Updated)},
		{Metric: "unchanged", Value: utils.FormatCount(summary.Unchanged)},
		{Metric: "filled_from_empty", Value: utils.FormatCount(summary.FilledFromEmpty)},
		{Metric: "conflicts", Value: utils.FormatCount(summary.Conflicts)},
		{Metric: "conflicts_updated", Value: utils.FormatCount(summary.ConflictsUpdated)},
		{Metric: "conflicts_skipped", Value: utils.FormatCount(summary.ConflictsSkipped)},
		{Metric: "forced_updates", Value: utils.FormatCount(summary.ForcedUpdates)},
		{Metric: "ambiguous_assignments", Value: utils.FormatCount(summary.Ambiguous)},
		{Metric: "skipped_only_empty", Value: utils.FormatCount(summary.SkippedOnlyEmpty)},
		{Metric: "detected_type_counts", Value: utils.FormatCountMap(summary.DetectedTypeCounts)},
	})

	return writeFileOpOutput(args[0], "classify", encoding, updated)
}

// NewApplyHandler builds the RunE for one field assignment command
// (reputation, severity, comment, reliability). The command takes the
// default value and the file as positional arguments.
func NewApplyHandler(field fileops.Field, slug string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := utils.SetupLogging(); err != nil {
			return err
		}

		value, path := args[0], args[1]

		rows, encoding, err := csvio.LoadRows(path)
		if err != nil {
			return err
		}

		overrides, applyGlobally := buildOverrides(cmd, value)
		updated, summary, err := fileops.ApplyField(rows, field, fileops.ApplyOptions{
			Default:      value,
			Overrides:    overrides,
			OnlyEmpty:    config.File.OnlyEmpty,
			ApplyDefault: applyGlobally,
		})
		if err != nil {
			return err
		}

		display.DisplaySummary(fmt.Sprintf("%s Update", titleFor(field)), []display.SummaryEntry{
			{Metric: "total_rows", Value: utils.FormatCount(summary.TotalRows)},
			{Metric: "updated", Value: utils.FormatCount(summary.Updated)},
			{Metric: "unchanged", Value: utils.FormatCount(summary.Unchanged)},
			{Metric: "skipped_only_empty", Value: utils.FormatCount(summary.SkippedOnlyEmpty)},
			{Metric: "default_assignments", Value: utils.FormatCount(summary.DefaultAssignments)},
			{Metric: "overrides_applied", Value: utils.FormatCountMap(summary.OverridesApplied)},
			{Metric: "cleared", Value: utils.FormatCount(summary.Cleared)},
		})

		return writeFileOpOutput(path, slug, encoding, updated)
	}
}

// buildOverrides assembles the per-type override map from the override
// flags. A bare type flag (--hash) applies the command default to that type;
// a value flag (--hash-value=X) sets an explicit value. When any bare type
// flag is used the default no longer applies globally, only to the flagged
// types.
func buildOverrides(cmd *cobra.Command, defaultValue string) (map[string]string, bool) {
	type overrideFlag struct {
		typ        string
		useDefault bool
		value      string
		valueFlag  string
	}
	flags := []overrideFlag{
		{indicator.TypeHash, config.File.HashDefault, config.File.HashValue, "hash-value"},
		{indicator.TypeIP, config.File.IPDefault, config.File.IPValue, "ip-value"},
		{indicator.TypeDomain, config.File.DomainDefault, config.File.DomainValue, "domain-value"},
		{indicator.TypePath, config.File.PathDefault, config.File.PathValue, "path-value"},
		{indicator.TypeFilename, config.File.FilenameDefault, config.File.FilenameValue, "filename-value"},
	}

	overrides := make(map[string]string)
	anyDefaultFlag := false
	for _, f := range flags {
		// A bare flag narrows the default's scope even when a value flag
		// wins the actual override for that type.
		if f.useDefault {
			anyDefaultFlag = true
		}
		if cmd.Flags().Changed(f.valueFlag) {
			overrides[f.typ] = f.value
		} else if f.useDefault {
			overrides[f.typ] = defaultValue
		}
	}
	return overrides, !anyDefaultFlag
}

// writeFileOpOutput applies the shared output contract: dry runs write
// nothing, in-place edits keep a .bak backup unless --no-backup, and
// everything else writes to --out or the derived <name>-<slug>.csv path.
func writeFileOpOutput(input, slug, encoding string, rows []indicator.Row) error {
	if config.File.NoBackup && !config.File.InPlace {
		return fmt.Errorf("--no-backup can only be used with --in-place")
	}
	if config.File.InPlace && config.File.Output != "" {
		return fmt.Errorf("cannot use --out with --in-place")
	}

	if config.File.DryRun {
		logging.Warn("Dry-run: no files written")
		return nil
	}

	target := config.File.Output
	if config.File.InPlace {
		target = input
	} else if target == "" {
		target = fileops.DefaultOutputPath(input, slug)
	}
	if !config.File.InPlace && sameFile(target, input) {
		return fmt.Errorf("output path matches input; use --in-place instead")
	}

	if config.File.InPlace && !config.File.NoBackup {
		backup, err := fileops.CreateBackup(input)
		if err != nil {
			return err
		}
		logging.Info("Backup created: %s", backup)
	}

	if err := fileops.WriteRows(rows, target, encoding); err != nil {
		return err
	}
	logging.Success("Wrote %d rows to %s", len(rows), target)
	if config.Global.Output != "json" {
		fmt.Printf("Wrote %s rows to %s\n", utils.FormatCount(len(rows)), target)
	}
	return nil
}

// sameFile reports whether two paths refer to the same file name after
// cleaning. Good enough to catch the obvious --out=input mistake.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// titleFor maps a field to its summary table title.
func titleFor(field fileops.Field) string {
	switch field {
	case fileops.FieldReputation:
		return "Reputation"
	case fileops.FieldSeverity:
		return "Severity"
	case fileops.FieldComment:
		return "Comment"
	case fileops.FieldReliability:
		return "Reliability"
	}
	return "Field"
}
