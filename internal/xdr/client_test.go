package xdr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridgeline-sec/xdrsync/internal/tenant"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type capturedRequest struct {
	headers http.Header
	body    map[string]any
}

// fakeBackend runs an in-process ingestion API that records requests and
// replies with a canned body per endpoint.
func fakeBackend(t *testing.T, status int, replyBody string, captured *[]capturedRequest) *Client {
	t.Helper()

	router := gin.New()
	handler := func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, "bad body: %v", err)
			return
		}
		*captured = append(*captured, capturedRequest{
			headers: c.Request.Header.Clone(),
			body:    body,
		})
		c.Data(status, "application/json", []byte(replyBody))
	}
	router.POST(CSVEndpoint, handler)
	router.POST(JSONEndpoint, handler)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	cred := tenant.Credential{
		Name:     "test",
		Host:     "unused.example.com",
		APIKeyID: "9",
		APIKey:   "test-key",
		Advanced: true,
	}
	client := NewClient(cred, 5)
	client.client.SetBaseURL(server.URL)
	return client
}

func TestInsertCSVSendsAuthAndBody(t *testing.T) {
	var captured []capturedRequest
	client := fakeBackend(t, http.StatusOK, `{"reply": true}`, &captured)

	reply, err := client.InsertCSV(context.Background(), "indicator,type\n1.1.1.1,IP", true)
	if err != nil {
		t.Fatalf("expected request to succeed, got: %v", err)
	}
	if !reply.OK() {
		t.Fatalf("expected Success variant, got %v", reply.Variant)
	}

	if len(captured) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(captured))
	}
	req := captured[0]

	if req.body["validate"] != true {
		t.Fatalf("validate flag missing from body: %+v", req.body)
	}
	if req.body["request_data"] != "indicator,type\n1.1.1.1,IP" {
		t.Fatalf("request_data not forwarded verbatim: %+v", req.body["request_data"])
	}

	if req.headers.Get("x-xdr-auth-id") != "9" {
		t.Fatalf("auth ID header missing, got headers: %v", req.headers)
	}
	nonce := req.headers.Get("x-xdr-nonce")
	ts := req.headers.Get("x-xdr-timestamp")
	if nonce == "" || ts == "" {
		t.Fatalf("advanced auth headers missing: nonce=%q ts=%q", nonce, ts)
	}
	if want := Signature("test-key", nonce, ts); req.headers.Get("Authorization") != want {
		t.Fatalf("Authorization header is not the signature over key, nonce, timestamp")
	}
}

func TestInsertJSONSendsObjects(t *testing.T) {
	var captured []capturedRequest
	client := fakeBackend(t, http.StatusOK, `{"reply": true}`, &captured)

	objects := []map[string]any{
		{"indicator": "evil.example.com", "type": "DOMAIN_NAME", "severity": "HIGH"},
	}
	if _, err := client.InsertJSON(context.Background(), objects, false); err != nil {
		t.Fatalf("expected request to succeed, got: %v", err)
	}

	req := captured[0]
	if req.body["validate"] != false {
		t.Fatalf("expected validate=false in body: %+v", req.body)
	}
	list, ok := req.body["request_data"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("request_data not sent as object list: %+v", req.body["request_data"])
	}
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	var captured []capturedRequest
	client := fakeBackend(t, http.StatusTooManyRequests, `rate limited`, &captured)

	_, err := client.InsertCSV(context.Background(), "x", false)
	if err == nil {
		t.Fatalf("expected error for 429 response")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", statusErr.Code)
	}
}

func TestTestAuthenticationProbes(t *testing.T) {
	var captured []capturedRequest
	client := fakeBackend(t, http.StatusOK, `{"reply": true}`, &captured)

	if err := client.TestAuthentication(context.Background()); err != nil {
		t.Fatalf("expected auth probe to succeed, got: %v", err)
	}
	if len(captured) != 1 {
		t.Fatalf("expected one probe request, got %d", len(captured))
	}
	if captured[0].body["validate"] != true {
		t.Fatalf("auth probe must be validate-only: %+v", captured[0].body)
	}
}

func TestTestAuthenticationSurfacesStatusError(t *testing.T) {
	var captured []capturedRequest
	client := fakeBackend(t, http.StatusUnauthorized, `{"reply": {"err_code": 401}}`, &captured)

	err := client.TestAuthentication(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 *StatusError, got %v", err)
	}
}
