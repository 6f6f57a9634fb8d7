// Tagged decoding of ingestion API replies. The wire schema signals success
// with an explicit boolean marker and failure with one of two structured
// error arrays; decoding maps each reply onto a single explicit variant so
// the upload pipeline never probes for alternate keys.

package xdr

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Variant tags the decoded outcome of one ingestion request.
type Variant int

const (
	// Success means the backend acknowledged the payload.
	Success Variant = iota
	// ValidationFailure means the backend rejected the dataset pre-commit
	// and reported per-row problems.
	ValidationFailure
	// CommitFailure means a commit request was not acknowledged; the batch
	// must be counted as failed.
	CommitFailure
)

// RowError is one structured per-row problem reported by the backend. The
// field set varies by indicator type and failure kind, so it stays a loose
// map and is carried through to reports untouched.
type RowError map[string]any

// Reply is the decoded result of one ingestion request: an explicit variant
// plus whatever per-row errors the backend reported.
type Reply struct {
	Variant Variant
	Errors  []RowError
}

// OK reports whether the reply acknowledged the payload.
func (r *Reply) OK() bool {
	return r.Variant == Success
}

// wireReply mirrors the raw response schema. The success marker arrives as
// the literal boolean true in the reply field; failures instead populate one
// of the error arrays (the backend is inconsistent about which key it uses).
type wireReply struct {
	Reply            json.RawMessage `json:"reply"`
	Errors           []RowError      `json:"errors"`
	ValidationErrors []RowError      `json:"validation_errors"`
}

// DecodeReply parses a response body into its tagged variant. The validate
// flag of the originating request decides the rule: a validate-only request
// fails on any reported row error, while a commit request is decided by the
// boolean success marker alone. An acknowledged commit may still carry an
// advisory error list; it is preserved on the reply without demoting the
// batch.
func DecodeReply(body []byte, validate bool) (*Reply, error) {
	var wire wireReply
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("malformed API response: %w", err)
	}

	rowErrors := wire.ValidationErrors
	rowErrors = append(rowErrors, wire.Errors...)

	acknowledged := bytes.Equal(bytes.TrimSpace(wire.Reply), []byte("true"))

	if validate {
		if len(rowErrors) == 0 && acknowledged {
			return &Reply{Variant: Success}, nil
		}
		return &Reply{Variant: ValidationFailure, Errors: rowErrors}, nil
	}

	if acknowledged {
		return &Reply{Variant: Success, Errors: rowErrors}, nil
	}
	return &Reply{Variant: CommitFailure, Errors: rowErrors}, nil
}
