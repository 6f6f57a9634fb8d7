// Package handlers provides command handler functions for xdrsync upload
// operations.
//
// This file contains the dataset movement handlers: the two-phase upload,
// remote validation without commit, and the offline lint check. Upload and
// validate fan out over every selected tenant through the orchestrator;
// lint never touches the network.
package handlers

import (
	"context"
	"fmt"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/display"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/utils"
	"github.com/ridgeline-sec/xdrsync/internal/csvio"
	"github.com/ridgeline-sec/xdrsync/internal/fanout"
	"github.com/ridgeline-sec/xdrsync/internal/indicator"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/uploader"
	"github.com/spf13/cobra"
)

// HandleUpload handles the upload command: validate the dataset against
// every selected tenant, then commit in batches only when the whole set
// validated clean.
func HandleUpload(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}

	if err := config.ValidateMode(); err != nil {
		return err
	}
	if err := config.ValidateBatchSize(); err != nil {
		return err
	}
	if err := config.ValidateMaxWorkers(config.Upload.MaxWorkers); err != nil {
		return err
	}

	rows, _, err := csvio.LoadRows(args[0])
	if err != nil {
		return err
	}
	logging.Info("Loaded %d rows from %s", len(rows), args[0])

	creds, err := selectTargets(config.Upload.Tenants)
	if err != nil {
		return err
	}

	orchestrator := fanout.NewFromCredentials(creds, config.Global.Timeout, config.Upload.MaxWorkers)
	result := orchestrator.UploadAll(context.Background(), rows,
		uploader.Mode(config.Upload.Mode), config.Upload.BatchSize)

	display.DisplayAggregate(result)
	display.DisplayArtifacts(emitRunReports("upload", result))

	if !result.OverallSuccess() {
		return runError("upload", result)
	}
	logging.Success("Uploaded %d rows to %d tenants", len(rows), result.TotalTenants)
	return nil
}

// HandleValidate handles the validate command: remote validation against
// every selected tenant with nothing committed.
func HandleValidate(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}

	if err := config.ValidateMode(); err != nil {
		return err
	}
	if err := config.ValidateMaxWorkers(config.Upload.MaxWorkers); err != nil {
		return err
	}

	rows, _, err := csvio.LoadRows(args[0])
	if err != nil {
		return err
	}
	logging.Info("Validating %d rows from %s", len(rows), args[0])

	creds, err := selectTargets(config.Upload.Tenants)
	if err != nil {
		return err
	}

	orchestrator := fanout.NewFromCredentials(creds, config.Global.Timeout, config.Upload.MaxWorkers)
	result := orchestrator.ValidateAll(context.Background(), rows, uploader.Mode(config.Upload.Mode))

	display.DisplayAggregate(result)
	display.DisplayArtifacts(emitRunReports("validate", result))

	if !result.OverallSuccess() {
		return runError("validation", result)
	}
	logging.Success("All %d tenants accepted the dataset", result.TotalTenants)
	return nil
}

// HandleLint handles the lint command: structural and vocabulary checks of
// the dataset with no network calls. The file must parse, every row must
// normalize, and the selected wire format must be buildable (JSON mode
// rejects PATH indicators, for example).
func HandleLint(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}

	if err := config.ValidateMode(); err != nil {
		return err
	}

	rows, encoding, err := csvio.LoadRows(args[0])
	if err != nil {
		return err
	}

	endpoint := "insert_csv"
	if uploader.Mode(config.Upload.Mode) == uploader.ModeJSON {
		endpoint = "insert_jsons"
		if _, err := indicator.BuildJSONObjects(rows); err != nil {
			return fmt.Errorf("dataset cannot be sent in json mode: %w", err)
		}
	} else {
		if _, err := indicator.BuildCSVRequestData(rows); err != nil {
			return err
		}
	}

	display.DisplaySummary("Lint Summary", []display.SummaryEntry{
		{Metric: "total_rows", Value: utils.FormatCount(len(rows))},
		{Metric: "encoding", Value: encoding},
		{Metric: "endpoint", Value: endpoint},
		{Metric: "errors", Value: "0"},
	})

	logging.Success("%s lints clean: %d rows", args[0], len(rows))
	return nil
}
