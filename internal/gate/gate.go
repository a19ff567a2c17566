// Package gate is the first thing every request hits. It classifies the path
// as public or protected, short-circuits public paths, and otherwise consults
// the authoritative billing-status endpoint to decide allow or redirect.
//
// Failure policy is closed: any inability to prove the request is safe
// (timeout, transport error, malformed payload) redirects to login.
package gate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"clientdesk/internal/gate/metrics"
	"clientdesk/internal/session"
	"clientdesk/pkg/requestcontext"
)

const (
	LoginPath        = "/login"
	BillingBlockPath = "/billing/blocked"
)

// Checker is the authoritative composite check the gate consults.
type Checker interface {
	Check(ctx context.Context, sessionCookie *http.Cookie) (*Status, error)
}

// Gate guards protected console pages.
type Gate struct {
	checker        Checker
	metrics        *metrics.Metrics
	logger         *slog.Logger
	publicExact    map[string]struct{}
	publicPrefixes []string
}

// New builds a gate with the fixed public allow-list. The API namespace is
// passed through unconditionally: its handlers enforce their own
// authorization, and duplicating it here would drift.
func New(checker Checker, m *metrics.Metrics, logger *slog.Logger) *Gate {
	return &Gate{
		checker: checker,
		metrics: m,
		logger:  logger,
		publicExact: map[string]struct{}{
			"/":              {},
			LoginPath:        {},
			"/healthz":       {},
			"/metrics":       {},
			BillingBlockPath: {},
		},
		publicPrefixes: []string{
			"/auth/",
			"/verify/",
			"/static/",
			"/assets/",
			"/api/",
		},
	}
}

// isPublic reports whether the path bypasses the gate entirely.
func (g *Gate) isPublic(path string) bool {
	if _, ok := g.publicExact[path]; ok {
		return true
	}
	for _, prefix := range g.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Middleware wires the gate in front of the page routes.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.isPublic(r.URL.Path) {
			g.metrics.Record(metrics.DecisionPublic)
			next.ServeHTTP(w, r)
			return
		}

		// Cheap rejection before any network call.
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			g.metrics.Record(metrics.DecisionRedirectLogin)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		status, err := g.checker.Check(r.Context(), cookie)
		if err != nil {
			// Indeterminate outcome: fail closed.
			ctx := r.Context()
			g.logger.ErrorContext(ctx, "authoritative check indeterminate, failing closed",
				"error", err,
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
			g.metrics.Record(metrics.DecisionFailClosed)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		switch {
		case !status.Authenticated:
			g.metrics.Record(metrics.DecisionRedirectLogin)
			http.Redirect(w, r, LoginPath, http.StatusFound)
		case status.Blocked:
			g.metrics.Record(metrics.DecisionRedirectBilling)
			http.Redirect(w, r, BillingBlockPath, http.StatusFound)
		default:
			g.metrics.Record(metrics.DecisionPass)
			next.ServeHTTP(w, r)
		}
	})
}
