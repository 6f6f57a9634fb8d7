package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
	"github.com/ridgeline-sec/xdrsync/internal/uploader"
	"github.com/ridgeline-sec/xdrsync/internal/xdr"
)

// fakePipeline scripts the per-tenant outcomes and records phases.
type fakePipeline struct {
	mu            sync.Mutex
	validateErrs  []xdr.RowError
	validateFail  error
	commitOutcome *uploader.Outcome
	commitErr     error
	panicOn       string // "validate" or "commit"

	validated int
	committed int
}

func (f *fakePipeline) Validate(ctx context.Context, rows []indicator.Row, mode uploader.Mode) ([]xdr.RowError, error) {
	f.mu.Lock()
	f.validated++
	f.mu.Unlock()
	if f.panicOn == "validate" {
		panic("boom")
	}
	return f.validateErrs, f.validateFail
}

func (f *fakePipeline) Commit(ctx context.Context, rows []indicator.Row, mode uploader.Mode, batchSize int) (*uploader.Outcome, error) {
	f.mu.Lock()
	f.committed++
	f.mu.Unlock()
	if f.panicOn == "commit" {
		panic("boom")
	}
	if f.commitOutcome == nil {
		return &uploader.Outcome{Succeeded: len(rows)}, f.commitErr
	}
	return f.commitOutcome, f.commitErr
}

func cleanPipeline() *fakePipeline { return &fakePipeline{} }

func targetsOf(pipes map[string]*fakePipeline, names ...string) []Target {
	targets := make([]Target, len(names))
	for i, name := range names {
		targets[i] = Target{Name: name, Pipeline: pipes[name]}
	}
	return targets
}

func TestUploadAllSucceedsAcrossTenants(t *testing.T) {
	pipes := map[string]*fakePipeline{
		"a": cleanPipeline(), "b": cleanPipeline(), "c": cleanPipeline(),
	}
	o := New(targetsOf(pipes, "a", "b", "c"), 2)

	rows := []indicator.Row{{Indicator: "1.1.1.1", Type: indicator.TypeIP, Severity: "LOW"}}
	agg := o.UploadAll(context.Background(), rows, uploader.ModeCSV, 1000)

	if !agg.OverallSuccess() || agg.PartialSuccess() {
		t.Fatalf("expected overall success, got %+v", agg)
	}
	if agg.TotalTenants != 3 || agg.SucceededTenants != 3 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
	for name, p := range pipes {
		if p.validated != 1 || p.committed != 1 {
			t.Fatalf("tenant %s: expected 1 validate and 1 commit, got %d/%d",
				name, p.validated, p.committed)
		}
	}
}

func TestUploadAllIsolatesTenantFailure(t *testing.T) {
	pipes := map[string]*fakePipeline{
		"a": cleanPipeline(),
		"b": {commitErr: errors.New("connection reset")},
		"c": cleanPipeline(),
	}
	o := New(targetsOf(pipes, "a", "b", "c"), 3)

	rows := []indicator.Row{{Indicator: "1.1.1.1", Type: indicator.TypeIP, Severity: "LOW"}}
	agg := o.UploadAll(context.Background(), rows, uploader.ModeCSV, 1000)

	if agg.OverallSuccess() {
		t.Fatalf("expected failure for tenant b")
	}
	if !agg.PartialSuccess() {
		t.Fatalf("expected partial success, got %+v", agg)
	}
	if agg.SucceededTenants != 2 || agg.FailedTenants != 1 {
		t.Fatalf("unexpected counts: %+v", agg)
	}

	// Results keep target order.
	if agg.Tenants[0].Tenant != "a" || agg.Tenants[1].Tenant != "b" || agg.Tenants[2].Tenant != "c" {
		t.Fatalf("results out of order: %+v", agg.Tenants)
	}
	if agg.Tenants[1].ErrorMessage == "" {
		t.Fatalf("failed tenant must carry an error message")
	}
	if !agg.Tenants[0].Success || !agg.Tenants[2].Success {
		t.Fatalf("healthy tenants must complete despite b's failure: %+v", agg.Tenants)
	}
}

func TestUploadAllValidationGateBlocksEveryCommit(t *testing.T) {
	pipes := map[string]*fakePipeline{
		"a": cleanPipeline(),
		"b": {validateErrs: []xdr.RowError{{"indicator": "bad", "error": "invalid"}}},
	}
	o := New(targetsOf(pipes, "a", "b"), 2)

	rows := []indicator.Row{{Indicator: "bad", Type: indicator.TypeDomain, Severity: "LOW"}}
	agg := o.UploadAll(context.Background(), rows, uploader.ModeCSV, 1000)

	if agg.OverallSuccess() {
		t.Fatalf("expected validation failure to fail the run")
	}
	// Tenant A validated clean but must not commit while B rejects.
	for name, p := range pipes {
		if p.committed != 0 {
			t.Fatalf("tenant %s committed despite the validation gate", name)
		}
	}
	if len(agg.Tenants[1].ValidationErrors) != 1 {
		t.Fatalf("expected b's validation errors in the result: %+v", agg.Tenants[1])
	}
	// The clean tenant's run failed too: nothing was committed for it.
	if agg.Tenants[0].Success || agg.SucceededTenants != 0 {
		t.Fatalf("no tenant succeeds when the gate blocks the upload: %+v", agg)
	}
}

func TestPanicBecomesFailedResult(t *testing.T) {
	pipes := map[string]*fakePipeline{
		"a": cleanPipeline(),
		"b": {panicOn: "validate"},
	}
	o := New(targetsOf(pipes, "a", "b"), 2)

	rows := []indicator.Row{{Indicator: "1.1.1.1", Type: indicator.TypeIP, Severity: "LOW"}}
	agg := o.ValidateAll(context.Background(), rows, uploader.ModeCSV)

	if agg.FailedTenants != 1 || agg.SucceededTenants != 1 {
		t.Fatalf("expected the panic isolated to one tenant, got %+v", agg)
	}
	if agg.Tenants[1].ErrorMessage == "" {
		t.Fatalf("panicking tenant must report an internal error")
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	var active, peak int64

	// gatePipeline tracks concurrent Validate calls.
	pipes := map[string]*fakePipeline{}
	targets := make([]Target, 12)
	for i := range targets {
		name := fmt.Sprintf("t%d", i)
		pipes[name] = cleanPipeline()
		targets[i] = Target{Name: name, Pipeline: concurrencyProbe{
			inner: pipes[name], active: &active, peak: &peak,
		}}
	}

	o := New(targets, 3)
	rows := []indicator.Row{{Indicator: "1.1.1.1", Type: indicator.TypeIP, Severity: "LOW"}}
	agg := o.ValidateAll(context.Background(), rows, uploader.ModeCSV)

	if agg.TotalTenants != 12 || !agg.OverallSuccess() {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
	if got := atomic.LoadInt64(&peak); got > 3 {
		t.Fatalf("worker pool exceeded its bound: peak concurrency %d", got)
	}
}

// concurrencyProbe wraps a pipeline and tracks peak concurrent calls.
type concurrencyProbe struct {
	inner  Pipeline
	active *int64
	peak   *int64
}

func (p concurrencyProbe) Validate(ctx context.Context, rows []indicator.Row, mode uploader.Mode) ([]xdr.RowError, error) {
	n := atomic.AddInt64(p.active, 1)
	defer atomic.AddInt64(p.active, -1)
	for {
		old := atomic.LoadInt64(p.peak)
		if n <= old || atomic.CompareAndSwapInt64(p.peak, old, n) {
			break
		}
	}
	return p.inner.Validate(ctx, rows, mode)
}

func (p concurrencyProbe) Commit(ctx context.Context, rows []indicator.Row, mode uploader.Mode, batchSize int) (*uploader.Outcome, error) {
	return p.inner.Commit(ctx, rows, mode, batchSize)
}

func TestWorkerClamping(t *testing.T) {
	if o := New(nil, 0); o.workers != DefaultWorkers {
		t.Fatalf("expected default workers, got %d", o.workers)
	}
	if o := New(nil, -4); o.workers != 1 {
		t.Fatalf("expected clamp to 1, got %d", o.workers)
	}
	if o := New(nil, 99); o.workers != MaxWorkers {
		t.Fatalf("expected clamp to %d, got %d", MaxWorkers, o.workers)
	}
}

func TestTestAuthAll(t *testing.T) {
	targets := []Target{
		{Name: "good", Auth: authFunc(func(ctx context.Context) error { return nil })},
		{Name: "bad", Auth: authFunc(func(ctx context.Context) error {
			return &xdr.StatusError{Code: 401, Body: "denied"}
		})},
		{Name: "none"},
	}
	o := New(targets, 2)

	agg := o.TestAuthAll(context.Background())
	if agg.SucceededTenants != 1 || agg.FailedTenants != 2 {
		t.Fatalf("unexpected auth aggregate: %+v", agg)
	}
	if agg.Tenants[0].Tenant != "good" || !agg.Tenants[0].Success {
		t.Fatalf("expected good tenant to pass: %+v", agg.Tenants[0])
	}
}

type authFunc func(ctx context.Context) error

func (f authFunc) TestAuthentication(ctx context.Context) error { return f(ctx) }
