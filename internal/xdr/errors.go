// Typed errors for non-2xx API responses.

package xdr

import "fmt"

// StatusError is returned when the backend answers with a non-2xx status.
// It carries the status code so the retry layer can classify the failure
// (429/5xx transient, other 4xx fatal) and a body excerpt for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.Code, body)
}

// StatusCode returns the HTTP status for retry classification.
func (e *StatusError) StatusCode() int {
	return e.Code
}
