// Package reporting writes run artifacts: timestamped JSON reports for every
// operation plus CSV dumps of per-row errors. Artifacts are the durable
// record of what a run did, so they are written even when an operation
// partially fails.
//
// The reports directory is always passed in explicitly; this package never
// creates directories as an import side effect.
package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ridgeline-sec/xdrsync/internal/fanout"
	"github.com/ridgeline-sec/xdrsync/internal/xdr"
)

// DefaultDir is the reports directory when none is configured.
const DefaultDir = "reports"

// timestampLayout matches artifact names across runs: 20060102T150405Z.
const timestampLayout = "20060102T150405Z"

// Writer emits artifacts into one reports directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

// Dir returns the reports directory this writer emits into.
func (w *Writer) Dir() string {
	return w.dir
}

// EmitRunArtifact writes one JSON artifact named <ts>-<action>.json, or
// <ts>-<action>-<tenant>.json when a tenant name is given.
func (w *Writer) EmitRunArtifact(action string, payload any, tenantName string) (string, error) {
	name := fmt.Sprintf("%s-%s.json", w.now().UTC().Format(timestampLayout), action)
	if tenantName != "" {
		name = fmt.Sprintf("%s-%s-%s.json", w.now().UTC().Format(timestampLayout), action, tenantName)
	}
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s artifact: %w", action, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return path, nil
}

// tenantArtifact is the payload of a per-tenant report file.
type tenantArtifact struct {
	Tenant    string              `json:"tenant"`
	Timestamp string              `json:"timestamp"`
	Action    string              `json:"action"`
	Result    fanout.TenantResult `json:"result"`
}

// EmitAggregate writes the consolidated artifact for a fan-out run plus one
// artifact per tenant. The consolidated path comes first in the returned
// list.
func (w *Writer) EmitAggregate(action string, result *fanout.AggregateResult) ([]string, error) {
	timestamp := w.now().UTC().Format(time.RFC3339)

	payload := struct {
		Timestamp string `json:"timestamp"`
		Action    string `json:"action"`
		*fanout.AggregateResult
	}{Timestamp: timestamp, Action: action, AggregateResult: result}

	consolidated, err := w.EmitRunArtifact(action, payload, "")
	if err != nil {
		return nil, err
	}
	paths := []string{consolidated}

	for _, tr := range result.Tenants {
		if tr.Tenant == "" {
			continue
		}
		path, err := w.EmitRunArtifact(action, tenantArtifact{
			Tenant:    tr.Tenant,
			Timestamp: timestamp,
			Action:    action,
			Result:    tr,
		}, tr.Tenant)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteErrorsCSV dumps row errors to errors.csv (or errors-<tenant>.csv).
// Columns are the sorted union of every error's keys, so heterogeneous
// error shapes share one table without losing fields.
func (w *Writer) WriteErrorsCSV(errors []xdr.RowError, tenantName string) (string, error) {
	name := "errors.csv"
	if tenantName != "" {
		name = fmt.Sprintf("errors-%s.csv", tenantName)
	}
	path := filepath.Join(w.dir, name)

	keySet := make(map[string]bool)
	for _, e := range errors {
		for k := range e {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		keys = []string{"error"}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(keys); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, e := range errors {
		fields := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := e[k]; ok && v != nil {
				fields[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := cw.Write(fields); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteTenantErrors writes one errors CSV per tenant that reported row
// errors, combining commit and validation errors.
func (w *Writer) WriteTenantErrors(result *fanout.AggregateResult) ([]string, error) {
	var paths []string
	for _, tr := range result.Tenants {
		combined := make([]xdr.RowError, 0, len(tr.Errors)+len(tr.ValidationErrors))
		combined = append(combined, tr.Errors...)
		combined = append(combined, tr.ValidationErrors...)
		if len(combined) == 0 || tr.Tenant == "" {
			continue
		}
		path, err := w.WriteErrorsCSV(combined, tr.Tenant)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
