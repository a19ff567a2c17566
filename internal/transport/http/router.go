package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "clientdesk/internal/account/handler"
	billinghandler "clientdesk/internal/billing/handler"
	"clientdesk/internal/gate"
	"clientdesk/internal/session"
	request "clientdesk/pkg/platform/middleware/request"
)

// Deps carries the wired handlers the router mounts. Construction happens in
// cmd/server; the router only arranges them.
type Deps struct {
	Gate     *gate.Gate
	Auth     *AuthHandler
	Session  *session.Handler
	Billing  *billinghandler.Handler
	Accounts *accounthandler.Handler
	Logger   *slog.Logger
}

// NewRouter wires the edge gate, the public surface, and the API namespace.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Timeout(30 * time.Second))
	r.Use(d.Gate.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", d.Auth.HandleLogin)
	r.Post("/auth/logout", d.Auth.HandleLogout)

	// Console shells. Chart/card rendering is served by the front-end
	// bundle; these routes only need to exist behind the gate.
	r.Get("/", servePage("clientdesk"))
	r.Get("/login", servePage("sign in"))
	r.Get(gate.BillingBlockPath, servePage("account blocked: unpaid invoices"))
	r.Get("/dashboard", servePage("dashboard"))
	r.Get("/customers", servePage("customers"))
	r.Get("/invoices", servePage("invoices"))

	r.Route("/api", func(api chi.Router) {
		d.Session.Register(api)
		d.Billing.Register(api)
		d.Accounts.Register(api)
	})

	return r
}

func servePage(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><title>" + title + "</title><div id=\"root\"></div>"))
	}
}
