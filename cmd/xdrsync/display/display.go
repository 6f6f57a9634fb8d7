// Package display provides output formatting for the xdrsync CLI.
//
// All user-facing output flows through this package, which renders either
// aligned tables (the default) or JSON depending on the global --output
// flag. Tables go through tabwriter so columns stay readable regardless of
// tenant name or count widths.
package display

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/config"
	"github.com/ridgeline-sec/xdrsync/cmd/xdrsync/utils"
	"github.com/ridgeline-sec/xdrsync/internal/fanout"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/tenant"
)

// printJSON writes any payload as indented JSON to stdout.
func printJSON(payload any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Println("Error encoding JSON output")
	}
}

// DisplayAggregate renders a fan-out run result: one row per tenant plus an
// overall verdict line. JSON mode emits the aggregate verbatim.
func DisplayAggregate(result *fanout.AggregateResult) {
	if config.Global.Output == "json" {
		printJSON(result)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TENANT\tSTATUS\tSUCCEEDED\tFAILED\tERRORS")
	for _, tr := range result.Tenants {
		status := "ok"
		if !tr.Success {
			status = "failed"
		}

		errCount := len(tr.Errors) + len(tr.ValidationErrors)
		detail := fmt.Sprintf("%d", errCount)
		if tr.ErrorMessage != "" {
			detail = fmt.Sprintf("%d (%s)", errCount, utils.Truncate(tr.ErrorMessage, 50))
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tr.Tenant, status,
			utils.FormatCount(tr.Succeeded), utils.FormatCount(tr.Failed), detail)
	}
	w.Flush()

	fmt.Println()
	switch {
	case result.OverallSuccess():
		fmt.Printf("All %d tenants succeeded\n", result.TotalTenants)
	case result.PartialSuccess():
		fmt.Printf("%d/%d tenants succeeded\n", result.SucceededTenants, result.TotalTenants)
	default:
		fmt.Printf("All %d tenants failed\n", result.TotalTenants)
	}
}

// DisplayTenants renders the configured tenant list without exposing key
// material.
func DisplayTenants(settings *tenant.Settings, configSource string) {
	if config.Global.Output == "json" {
		type tenantInfo struct {
			Name     string `json:"name"`
			Host     string `json:"host"`
			APIKeyID string `json:"api_key_id"`
			Advanced bool   `json:"advanced"`
		}
		infos := make([]tenantInfo, len(settings.Tenants))
		for i, t := range settings.Tenants {
			infos[i] = tenantInfo{Name: t.Name, Host: t.Host, APIKeyID: t.APIKeyID, Advanced: t.Advanced}
		}
		printJSON(map[string]any{
			"tenants":       infos,
			"total_tenants": len(infos),
			"config_source": configSource,
		})
		return
	}

	fmt.Printf("Found %d configured tenants (source: %s)\n\n", len(settings.Tenants), configSource)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHOST\tAPI KEY ID\tAUTH")
	for _, t := range settings.Tenants {
		auth := "standard"
		if t.Advanced {
			auth = "advanced"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.Host, t.APIKeyID, auth)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("API keys are never displayed")
}

// SummaryEntry is one metric row of an operation summary.
type SummaryEntry struct {
	Metric string
	Value  string
}

// DisplaySummary renders an operation summary as a metric/value table, or a
// flat JSON object in JSON mode.
func DisplaySummary(title string, entries []SummaryEntry) {
	if config.Global.Output == "json" {
		payload := make(map[string]string, len(entries))
		for _, e := range entries {
			payload[e.Metric] = e.Value
		}
		printJSON(payload)
		return
	}

	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Metric, e.Value)
	}
	w.Flush()
}

// DisplayArtifacts prints where run artifacts were written.
func DisplayArtifacts(paths []string) {
	if len(paths) == 0 || config.Global.Output == "json" {
		return
	}
	fmt.Printf("Reports saved: %d files under %s\n", len(paths), config.Global.ReportsDir)
}
