package httptransport

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"clientdesk/internal/identity"
	"clientdesk/internal/session"
	dErrors "clientdesk/pkg/domain-errors"
	"clientdesk/pkg/platform/httputil"
	"clientdesk/pkg/requestcontext"
	"clientdesk/pkg/sentinel"
)

// AuthHandler handles first-party login against the identity provider and
// manages the session cookie.
type AuthHandler struct {
	auth       identity.Authenticator
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewAuthHandler(auth identity.Authenticator, sessionTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and sets the session cookie.
// Credential failures are indistinguishable from unknown emails by design.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[loginRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "email and password are required"))
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, sentinel.ErrNoSession) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
			return
		}
		h.logger.ErrorContext(ctx, "login failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "login failed"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleLogout clears the session cookie. The token itself expires on its
// own; the console has no server-side session registry to invalidate.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
