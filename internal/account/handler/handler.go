package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clientdesk/internal/account/service"
	"clientdesk/internal/session"
	dErrors "clientdesk/pkg/domain-errors"
	"clientdesk/pkg/platform/httputil"
	"clientdesk/pkg/requestcontext"
)

// Handler exposes the admin account-mutation endpoints. Every handler first
// resolves the caller's session and runs the authorizer through the service.
type Handler struct {
	resolver *session.Resolver
	service  *service.Service
	logger   *slog.Logger
}

func New(resolver *session.Resolver, svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/accounts", h.HandleList)
	r.Post("/accounts/{id}/toggle", h.HandleToggle)
	r.Post("/accounts/{id}/deactivate", h.HandleDeactivate)
	r.Put("/accounts/{id}", h.HandleUpdate)
	r.Delete("/accounts", h.HandleHardDelete)
}

type okResponse struct {
	OK bool `json:"ok"`
}

// HandleList returns all accounts for the console.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := h.resolver.ResolveRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	accounts, err := h.service.List(ctx, actor)
	if err != nil {
		h.logger.ErrorContext(ctx, "list accounts failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	out := make([]*session.ProfileResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, session.ToProfileResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleToggle flips the target's activation state.
// Returns no body describing the new state; callers re-fetch.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := h.resolver.ResolveRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	if _, err := h.service.ToggleActivation(ctx, actor, targetID); err != nil {
		h.logger.ErrorContext(ctx, "toggle activation failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"target_id", targetID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, okResponse{OK: true})
}

// HandleDeactivate deactivates the target account.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := h.resolver.ResolveRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	if err := h.service.Deactivate(ctx, actor, targetID); err != nil {
		h.logger.ErrorContext(ctx, "deactivate failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"target_id", targetID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, okResponse{OK: true})
}

// UpdateRequest is the profile patch payload.
type UpdateRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	AdminTier   *string `json:"admin_tier"`
}

// HandleUpdate applies a profile patch to the target account.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := h.resolver.ResolveRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	req, ok := httputil.DecodeJSON[UpdateRequest](w, r, h.logger)
	if !ok {
		return
	}

	updated, err := h.service.UpdateProfile(ctx, actor, targetID, service.UpdatePatch{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		AdminTier:   req.AdminTier,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "update profile failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"target_id", targetID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, session.ToProfileResponse(updated))
}

// HardDeleteRequest names the accounts to remove, by email.
type HardDeleteRequest struct {
	Emails []string `json:"emails"`
}

// HardDeleteResponse reports per-identity failures so the caller can retry
// just those.
type HardDeleteResponse struct {
	Deleted        []string          `json:"deleted"`
	IdentityErrors map[string]string `json:"identity_errors,omitempty"`
}

// HandleHardDelete removes accounts and their identities. Irreversible.
func (h *Handler) HandleHardDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := h.resolver.ResolveRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[HardDeleteRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.HardDelete(ctx, actor, req.Emails)
	if err != nil {
		h.logger.ErrorContext(ctx, "hard delete failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HardDeleteResponse{
		Deleted:        result.Deleted,
		IdentityErrors: result.IdentityErrors,
	})
}
