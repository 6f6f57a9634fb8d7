// Package fanout runs one upload pipeline per target tenant on a bounded
// worker pool and folds the per-tenant results into a single aggregate.
//
// ORCHESTRATION RULES:
//   - Bounded concurrency: a fixed pool of workers (default 5, clamped to
//     1..20) drains an explicit task list; tenants never get a goroutine
//     each, so a 50-tenant run cannot stampede the network.
//   - Failure isolation: one tenant's error, or even a panic inside its
//     pipeline, becomes that tenant's failed result and never disturbs the
//     others.
//   - Set-wide gate: an upload run first validates the dataset against
//     every target. If any tenant rejects it, nothing commits anywhere.
//   - Join barrier: every orchestration call returns only after all tenant
//     tasks finished; results keep target order regardless of completion
//     order.
package fanout

import (
	"context"
	"fmt"
	"sync"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/tenant"
	"github.com/ridgeline-sec/xdrsync/internal/uploader"
	"github.com/ridgeline-sec/xdrsync/internal/xdr"
)

const (
	// DefaultWorkers is the pool size when none is configured.
	DefaultWorkers = 5
	// MaxWorkers caps the pool; more parallel tenants than this just
	// multiplies throttling without finishing sooner.
	MaxWorkers = 20
)

// Pipeline is the per-tenant upload surface the orchestrator drives.
// *uploader.Committer satisfies it; tests substitute fakes.
type Pipeline interface {
	Validate(ctx context.Context, rows []indicator.Row, mode uploader.Mode) ([]xdr.RowError, error)
	Commit(ctx context.Context, rows []indicator.Row, mode uploader.Mode, batchSize int) (*uploader.Outcome, error)
}

// Authenticator verifies a tenant's credentials with a probe request.
type Authenticator interface {
	TestAuthentication(ctx context.Context) error
}

// Target binds a tenant name to its pipeline. Auth may be nil for targets
// that are never auth-probed.
type Target struct {
	Name     string
	Pipeline Pipeline
	Auth     Authenticator
}

// TenantResult is the outcome of one tenant's task.
type TenantResult struct {
	Tenant           string         `json:"tenant"`
	Success          bool           `json:"success"`
	TotalRows        int            `json:"total_rows"`
	Succeeded        int            `json:"succeeded"`
	Failed           int            `json:"failed"`
	Errors           []xdr.RowError `json:"errors,omitempty"`
	ValidationErrors []xdr.RowError `json:"validation_errors,omitempty"`
	ErrorMessage     string         `json:"error_message,omitempty"`
}

// AggregateResult folds every tenant's outcome into one run-level summary.
type AggregateResult struct {
	Tenants          []TenantResult `json:"tenants"`
	TotalTenants     int            `json:"total_tenants"`
	SucceededTenants int            `json:"succeeded_tenants"`
	FailedTenants    int            `json:"failed_tenants"`
	TotalRows        int            `json:"total_rows"`
}

// OverallSuccess reports whether every tenant succeeded.
func (a *AggregateResult) OverallSuccess() bool {
	return a.FailedTenants == 0
}

// PartialSuccess reports whether some but not all tenants succeeded.
func (a *AggregateResult) PartialSuccess() bool {
	return a.SucceededTenants > 0 && a.FailedTenants > 0
}

// Orchestrator fans tenant tasks out over a bounded worker pool.
type Orchestrator struct {
	targets []Target
	workers int
}

// New creates an orchestrator over the given targets. Worker counts outside
// 1..MaxWorkers are clamped; zero selects DefaultWorkers.
func New(targets []Target, workers int) *Orchestrator {
	if workers == 0 {
		workers = DefaultWorkers
	}
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &Orchestrator{targets: targets, workers: workers}
}

// NewFromCredentials builds the production orchestrator: one API client and
// one committer per tenant, each with its own rate budget.
func NewFromCredentials(creds []tenant.Credential, timeout int, workers int) *Orchestrator {
	targets := make([]Target, len(creds))
	for i, cred := range creds {
		client := xdr.NewClient(cred, timeout)
		targets[i] = Target{
			Name:     cred.Name,
			Pipeline: uploader.New(client),
			Auth:     client,
		}
	}
	return New(targets, workers)
}

// ValidateAll validates the dataset against every target and reports which
// tenants would reject it. Nothing is committed.
func (o *Orchestrator) ValidateAll(ctx context.Context, rows []indicator.Row, mode uploader.Mode) *AggregateResult {
	results := o.run(func(t Target) TenantResult {
		return validateTenant(ctx, t, rows, mode)
	})
	return aggregate(results, len(rows))
}

// UploadAll runs the full two-phase upload: validate against every target
// first, then commit everywhere only if the whole set validated clean. When
// any tenant rejects the dataset the validation aggregate is returned and
// no tenant commits anything.
func (o *Orchestrator) UploadAll(ctx context.Context, rows []indicator.Row, mode uploader.Mode, batchSize int) *AggregateResult {
	logging.Info("Validating dataset against %d tenants before upload", len(o.targets))
	validation := o.ValidateAll(ctx, rows, mode)
	if !validation.OverallSuccess() {
		logging.Error("Validation failed for %d of %d tenants, upload aborted",
			validation.FailedTenants, validation.TotalTenants)
		// Nothing was committed anywhere, so tenants that validated clean
		// still count as failed for this run.
		for i := range validation.Tenants {
			r := &validation.Tenants[i]
			if r.Success {
				r.Success = false
				r.ErrorMessage = "upload skipped: dataset rejected by another tenant"
			}
		}
		return aggregate(validation.Tenants, len(rows))
	}

	logging.Success("Validation passed for all %d tenants", validation.TotalTenants)
	results := o.run(func(t Target) TenantResult {
		return commitTenant(ctx, t, rows, mode, batchSize)
	})
	return aggregate(results, len(rows))
}

// TestAuthAll probes every target's credentials.
func (o *Orchestrator) TestAuthAll(ctx context.Context) *AggregateResult {
	results := o.run(func(t Target) TenantResult {
		return authTenant(ctx, t)
	})
	return aggregate(results, 0)
}

// run executes one task per target on the worker pool and returns results
// in target order. The WaitGroup is the join barrier; no result is read
// before every worker finished.
func (o *Orchestrator) run(task func(Target) TenantResult) []TenantResult {
	results := make([]TenantResult, len(o.targets))
	indexes := make(chan int, len(o.targets))
	for i := range o.targets {
		indexes <- i
	}
	close(indexes)

	workers := o.workers
	if workers > len(o.targets) {
		workers = len(o.targets)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = runIsolated(o.targets[i], task)
			}
		}()
	}
	wg.Wait()

	return results
}

// runIsolated converts a panicking pipeline into a failed tenant result so
// one broken tenant cannot take down the run.
func runIsolated(t Target, task func(Target) TenantResult) (result TenantResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Tenant %s task panicked: %v", t.Name, r)
			result = TenantResult{
				Tenant:       t.Name,
				ErrorMessage: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()
	return task(t)
}

func validateTenant(ctx context.Context, t Target, rows []indicator.Row, mode uploader.Mode) TenantResult {
	rowErrors, err := t.Pipeline.Validate(ctx, rows, mode)
	if err != nil {
		logging.Error("Validation request failed for tenant %s: %v", t.Name, err)
		return TenantResult{Tenant: t.Name, TotalRows: len(rows), ErrorMessage: err.Error()}
	}
	return TenantResult{
		Tenant:           t.Name,
		Success:          len(rowErrors) == 0,
		TotalRows:        len(rows),
		ValidationErrors: rowErrors,
	}
}

func commitTenant(ctx context.Context, t Target, rows []indicator.Row, mode uploader.Mode, batchSize int) TenantResult {
	outcome, err := t.Pipeline.Commit(ctx, rows, mode, batchSize)
	result := TenantResult{Tenant: t.Name, TotalRows: len(rows)}
	if outcome != nil {
		result.Succeeded = outcome.Succeeded
		result.Failed = outcome.Failed
		result.Errors = outcome.Errors
	}
	if err != nil {
		logging.Error("Upload failed for tenant %s: %v", t.Name, err)
		result.ErrorMessage = err.Error()
		return result
	}
	result.Success = result.Failed == 0
	return result
}

func authTenant(ctx context.Context, t Target) TenantResult {
	if t.Auth == nil {
		return TenantResult{Tenant: t.Name, ErrorMessage: "no authenticator configured"}
	}
	if err := t.Auth.TestAuthentication(ctx); err != nil {
		logging.Error("Authentication failed for tenant %s: %v", t.Name, err)
		return TenantResult{Tenant: t.Name, ErrorMessage: err.Error()}
	}
	return TenantResult{Tenant: t.Name, Success: true}
}

// aggregate folds tenant results into the run-level summary.
func aggregate(results []TenantResult, totalRows int) *AggregateResult {
	agg := &AggregateResult{
		Tenants:      results,
		TotalTenants: len(results),
		TotalRows:    totalRows,
	}
	for _, r := range results {
		if r.Success {
			agg.SucceededTenants++
		} else {
			agg.FailedTenants++
		}
	}
	return agg
}
