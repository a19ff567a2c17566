package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clientdesk/internal/account/models"
	"clientdesk/pkg/platform/httputil"
	"clientdesk/pkg/requestcontext"
)

// Handler exposes the session/profile endpoint privileged front-end code
// calls to learn who the caller is.
type Handler struct {
	resolver *Resolver
	logger   *slog.Logger
}

func NewHandler(resolver *Resolver, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/session/me", h.HandleMe)
}

// ProfileResponse is the canonical profile payload. admin_tier is null for
// non-admin roles.
type ProfileResponse struct {
	AccountID   string  `json:"account_id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	AdminTier   *string `json:"admin_tier"`
	Status      string  `json:"status"`
}

// HandleMe returns the caller's profile, or 401/403/404 per the resolver.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.resolver.ResolveRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "session resolve failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToProfileResponse(account))
}

// ToProfileResponse maps an account to the wire profile shape.
func ToProfileResponse(account *models.Account) *ProfileResponse {
	resp := &ProfileResponse{
		AccountID:   account.ID.String(),
		Email:       account.Email,
		DisplayName: account.DisplayName,
		Role:        string(account.Role.Kind()),
		Status:      string(account.Status),
	}
	if tier, ok := account.Role.Tier(); ok {
		t := string(tier)
		resp.AdminTier = &t
	}
	return resp
}
