package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clientdesk/internal/billing/models"
	"clientdesk/internal/billing/service"
	"clientdesk/internal/session"
	"clientdesk/pkg/platform/httputil"
	"clientdesk/pkg/requestcontext"
)

// Handler exposes the authoritative billing-status endpoint the edge gate
// consults on every protected page load.
type Handler struct {
	resolver *session.Resolver
	billing  *service.Service
	logger   *slog.Logger
}

func New(resolver *session.Resolver, billing *service.Service, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, billing: billing, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/billing/status", h.HandleStatus)
}

// StatusResponse is the authoritative check payload.
type StatusResponse struct {
	Blocked            bool              `json:"blocked"`
	OrganizationID     string            `json:"organization_id,omitempty"`
	DelinquentInvoices []InvoiceResponse `json:"delinquent_invoices,omitempty"`
}

type InvoiceResponse struct {
	InvoiceID string `json:"invoice_id"`
	Balance   int64  `json:"balance"`
	DueDate   string `json:"due_date"`
	Period    string `json:"period"`
}

// HandleStatus runs the composite session + delinquency check.
// 401 when unauthenticated, 404 when the identity has no account row,
// 200 with the computed state otherwise.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.resolver.ResolveRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := h.billing.Check(ctx, account)
	if err != nil {
		h.logger.ErrorContext(ctx, "billing check failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"account_id", account.ID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStatusResponse(state))
}

func toStatusResponse(state *models.BillingState) *StatusResponse {
	resp := &StatusResponse{Blocked: state.Blocked}
	if !state.Blocked {
		return resp
	}
	resp.OrganizationID = state.OrganizationID.String()
	resp.DelinquentInvoices = make([]InvoiceResponse, 0, len(state.Delinquent))
	for _, inv := range state.Delinquent {
		item := InvoiceResponse{
			InvoiceID: inv.ID.String(),
			Balance:   inv.BalanceCents,
			Period:    inv.Period,
		}
		if inv.DueDate != nil {
			item.DueDate = inv.DueDate.Format(time.RFC3339)
		}
		resp.DelinquentInvoices = append(resp.DelinquentInvoices, item)
	}
	return resp
}
