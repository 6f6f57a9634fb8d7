// Package uploader implements the per-tenant upload pipeline: validate the
// whole dataset first, then commit it in ordered batches. Each tenant gets
// its own rate budget and retry policy so a slow or flaky tenant never
// consumes another tenant's request allowance.
//
// PIPELINE SHAPE:
//   - Validate: one request covering the entire dataset in validate-only
//     mode. Any reported row error fails validation and nothing commits.
//   - Commit: rows split into fixed-size ordered batches, one request per
//     batch. A batch succeeds or fails as a whole based on the reply
//     marker; failed batches are recorded and the commit continues.
//
// Requests pass through the retry policy (429 and 5xx responses, plus
// transport errors, retry with exponential backoff) and the token bucket
// (burst-friendly steady-state request rate) on every attempt.
package uploader

import (
	"context"
	"fmt"

	"github.com/ridgeline-sec/xdrsync/internal/indicator"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/ratelimit"
	"github.com/ridgeline-sec/xdrsync/internal/retry"
	"github.com/ridgeline-sec/xdrsync/internal/xdr"
)

const (
	// DefaultBatchSize is the number of rows committed per request.
	DefaultBatchSize = 1000

	// DefaultRequestRate is the steady-state request budget per tenant in
	// requests per second; the bucket capacity matches so short bursts up
	// to one second of budget pass without waiting.
	DefaultRequestRate = 10
)

// Mode selects the wire format for ingestion requests.
type Mode string

const (
	ModeCSV  Mode = "csv"
	ModeJSON Mode = "json"
)

// ParseMode validates a mode string from flags or config.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeCSV, ModeJSON:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("invalid upload mode %q (must be csv or json)", raw)
	}
}

// Client is the ingestion API surface the pipeline needs. *xdr.Client
// satisfies it; tests substitute fakes.
type Client interface {
	InsertCSV(ctx context.Context, requestData string, validate bool) (*xdr.Reply, error)
	InsertJSON(ctx context.Context, objects []map[string]any, validate bool) (*xdr.Reply, error)
}

// Outcome summarizes a commit phase. Succeeded and Failed count rows, not
// batches, and always sum to the number of rows processed.
type Outcome struct {
	Succeeded int
	Failed    int
	Errors    []xdr.RowError
}

// Committer drives the two-phase pipeline for one tenant.
type Committer struct {
	client Client
	bucket *ratelimit.Bucket
	policy retry.Policy
}

// New creates a committer with the default request rate and retry policy.
func New(client Client) *Committer {
	return NewWithLimits(client,
		ratelimit.NewBucket(DefaultRequestRate, DefaultRequestRate),
		retry.DefaultPolicy())
}

// NewWithLimits creates a committer with an explicit rate bucket and retry
// policy. Used where the defaults are too slow, mainly tests.
func NewWithLimits(client Client, bucket *ratelimit.Bucket, policy retry.Policy) *Committer {
	return &Committer{client: client, bucket: bucket, policy: policy}
}

// Validate submits the entire dataset in validate-only mode and returns the
// row errors the backend reported. A nil slice means the dataset is clean.
// The returned error covers transport and HTTP failures only; row-level
// rejections are data, not errors.
func (c *Committer) Validate(ctx context.Context, rows []indicator.Row, mode Mode) ([]xdr.RowError, error) {
	reply, err := c.send(ctx, rows, mode, true)
	if err != nil {
		return nil, err
	}
	if reply.OK() {
		return nil, nil
	}
	return reply.Errors, nil
}

// Commit uploads rows in ordered batches of batchSize (DefaultBatchSize
// when zero or negative). Batches succeed or fail atomically: an
// acknowledged reply counts every row in the batch as succeeded, anything
// else counts every row as failed and the commit moves on to the next
// batch. A transport or HTTP error that survives the retry policy aborts
// the commit; the partial outcome accompanies the error.
func (c *Committer) Commit(ctx context.Context, rows []indicator.Row, mode Mode, batchSize int) (*Outcome, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	outcome := &Outcome{}
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		reply, err := c.send(ctx, batch, mode, false)
		if err != nil {
			return outcome, fmt.Errorf("commit aborted at row %d: %w", start, err)
		}

		if reply.OK() {
			outcome.Succeeded += len(batch)
		} else {
			outcome.Failed += len(batch)
			outcome.Errors = append(outcome.Errors, reply.Errors...)
			logging.Warn("Batch of %d rows rejected (%d row errors reported)",
				len(batch), len(reply.Errors))
		}
	}
	return outcome, nil
}

// send performs one ingestion request in the requested mode, paying the
// rate budget and applying the retry policy. The payload is built once;
// every retry attempt pays its own token so retries stay inside the rate
// budget.
func (c *Committer) send(ctx context.Context, rows []indicator.Row, mode Mode, validate bool) (*xdr.Reply, error) {
	var objects []map[string]any
	var requestData string

	if mode == ModeJSON {
		built, err := indicator.BuildJSONObjects(rows)
		if err != nil {
			return nil, err
		}
		objects = built
	} else {
		built, err := indicator.BuildCSVRequestData(rows)
		if err != nil {
			return nil, err
		}
		requestData = built
	}

	var reply *xdr.Reply
	err := c.policy.Do(ctx, func() error {
		c.bucket.Consume(1)

		var sendErr error
		if mode == ModeJSON {
			reply, sendErr = c.client.InsertJSON(ctx, objects, validate)
		} else {
			reply, sendErr = c.client.InsertCSV(ctx, requestData, validate)
		}
		return sendErr
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}
