// Package xdr implements the HTTP client layer for the Cortex XDR indicator
// ingestion API. It covers the two ingestion endpoints (CSV and JSON), the
// standard and advanced authentication header schemes, and tagged decoding
// of API replies.
//
// CLIENT ARCHITECTURE:
// The Client wraps a Resty HTTP client configured per tenant:
//   - Authentication: headers are rebuilt per request so advanced auth gets
//     a fresh nonce and timestamp on every call
//   - Error Handling: non-2xx responses surface as *StatusError so callers
//     can classify retryability from the HTTP status code
//   - Logging: Resty's internal logging and request/response hooks route
//     through the structured logging system
//
// Retries and rate limiting are deliberately NOT configured here. The upload
// pipeline owns both concerns, so the client performs exactly one HTTP
// request per method call and reports the outcome.
package xdr

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ridgeline-sec/xdrsync/internal/logging"
	"github.com/ridgeline-sec/xdrsync/internal/tenant"
	"github.com/ridgeline-sec/xdrsync/internal/version"
)

const (
	// CSVEndpoint ingests a CSV document covering the whole dataset.
	CSVEndpoint = "/public_api/v1/indicators/insert_csv"
	// JSONEndpoint ingests structured indicator objects.
	JSONEndpoint = "/public_api/v1/indicators/insert_jsons"
)

// authProbeCSV is the minimal payload used to verify credentials without
// mutating tenant state: a single loopback IP sent in validate-only mode.
const authProbeCSV = "indicator,type,severity,reputation,expiration_date,comment\n" +
	"127.0.0.1,IP,LOW,UNKNOWN,,auth test"

// Client talks to one tenant's ingestion API.
type Client struct {
	client *resty.Client
	cred   tenant.Credential
}

// restyLogger routes Resty's internal logging through structured logging.
// Resty logs at error level for transport problems we already surface to
// callers, so everything is demoted to debug.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) { logging.Debug("Resty: "+format, v...) }
func (restyLogger) Warnf(format string, v ...any)  { logging.Debug("Resty: "+format, v...) }
func (restyLogger) Debugf(format string, v ...any) { logging.Debug("Resty: "+format, v...) }

// NewClient creates an API client for the given tenant. The timeout is in
// seconds and applies to each individual request.
func NewClient(cred tenant.Credential, timeout int) *Client {
	client := resty.New()

	client.SetLogger(restyLogger{})

	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(cred.BaseURL()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("xdrsync/%s", version.XdrsyncVersion))

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &Client{client: client, cred: cred}
}

// Tenant returns the credential this client was built for.
func (c *Client) Tenant() tenant.Credential {
	return c.cred
}

// InsertCSV submits a CSV document to the ingestion API. With validate set
// the backend checks the dataset without committing it; otherwise the rows
// are committed. Returns the decoded reply, or *StatusError for non-2xx
// responses.
func (c *Client) InsertCSV(ctx context.Context, requestData string, validate bool) (*Reply, error) {
	body := map[string]any{
		"request_data": requestData,
		"validate":     validate,
	}
	return c.post(ctx, CSVEndpoint, body, validate)
}

// InsertJSON submits structured indicator objects to the ingestion API.
// Semantics match InsertCSV apart from the payload shape.
func (c *Client) InsertJSON(ctx context.Context, objects []map[string]any, validate bool) (*Reply, error) {
	body := map[string]any{
		"request_data": objects,
		"validate":     validate,
	}
	return c.post(ctx, JSONEndpoint, body, validate)
}

// TestAuthentication verifies the tenant's credentials by sending a minimal
// validate-only probe. A decoded reply of any variant means the credentials
// were accepted; auth failures arrive as *StatusError with a 401 or 403.
func (c *Client) TestAuthentication(ctx context.Context) error {
	reply, err := c.InsertCSV(ctx, authProbeCSV, true)
	if err != nil {
		return err
	}
	if !reply.OK() {
		// Credentials worked; the probe row itself was rejected. Still a
		// successful auth check.
		logging.Debug("Auth probe accepted with %d validation notes for %s",
			len(reply.Errors), c.cred.Name)
	}
	return nil
}

// post performs one ingestion request. Authentication headers are rebuilt
// here so every attempt carries a fresh nonce and timestamp.
func (c *Client) post(ctx context.Context, endpoint string, body any, validate bool) (*Reply, error) {
	headers, err := Headers(c.cred)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth headers for %s: %w", c.cred.Name, err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s%s: %w", c.cred.BaseURL(), endpoint, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}

	return DecodeReply(resp.Body(), validate)
}
