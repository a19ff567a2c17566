package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	request "clientdesk/pkg/platform/middleware/request"
	"clientdesk/pkg/requestcontext"
)

var tracer = otel.Tracer("clientdesk/gate")

// Status is the outcome of the authoritative billing-status call.
type Status struct {
	// Authenticated is false when the endpoint reported 401 (no valid
	// session) or 404 (identity without an account row).
	Authenticated bool
	Blocked       bool
}

// Client calls the authoritative billing-status endpoint. Every call carries
// a bounded timeout; an error return means the outcome is indeterminate and
// the caller must fail closed.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the authoritative endpoint at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Check forwards the session cookie to the authoritative endpoint and maps
// its response. 401 and 404 are definitive "not authorized" answers, not
// errors; anything else unexpected is an error.
func (c *Client) Check(ctx context.Context, sessionCookie *http.Cookie) (*Status, error) {
	ctx, span := tracer.Start(ctx, "gate.Check")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/billing/status", nil)
	if err != nil {
		return nil, fmt.Errorf("build authoritative request: %w", err)
	}
	req.AddCookie(sessionCookie)
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set(request.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("gate.indeterminate", true))
		return nil, fmt.Errorf("authoritative check: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	span.SetAttributes(attribute.Int("gate.status_code", resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusNotFound:
		return &Status{Authenticated: false}, nil
	case http.StatusOK:
		var payload struct {
			Blocked bool `json:"blocked"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("malformed authoritative payload: %w", err)
		}
		return &Status{Authenticated: true, Blocked: payload.Blocked}, nil
	default:
		return nil, fmt.Errorf("authoritative check returned status %d", resp.StatusCode)
	}
}
