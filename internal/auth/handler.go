package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfauzirh/workforce-management/internal"
	"github.com/mfauzirh/workforce-management/internal/transport"
	"github.com/mfauzirh/workforce-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Error("authentication failed", "username", dto.Username, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Me returns the caller's resolved authorization identity. Handy for UIs
// that need to know which guards will pass before rendering.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actx, ok := FromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrUnauthenticated)
		return
	}
	h.WriteJSON(w, http.StatusOK, actx)
}

// RequireAuth verifies the bearer token and attaches the AuthContext.
// Complete claims authorize with zero store access; legacy tokens go through
// the store-and-cache fallback. Everything downstream only sees the
// AuthContext, never the token.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.ErrUnauthenticated)
			return
		}

		actx, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.Logger.Warn("authentication rejected", "error", err)
			h.WriteAppError(w, err)
			return
		}

		ctx := WithAuthContext(r.Context(), actx)
		ctx = logger.With(ctx, "user_id", actx.UserID, "role", actx.RoleName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission gates a route on a single (resource, action) grant.
// Composable with RequireRole; both expect RequireAuth earlier in the chain.
func (h *Handler) RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx, _ := FromContext(r.Context())
			if err := Authorize(actx, resource, action); err != nil {
				h.logDenied(r, actx, err)
				h.WriteAppError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on role membership rather than a permission.
func (h *Handler) RequireRole(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx, _ := FromContext(r.Context())
			if err := RequireRoleName(actx, names...); err != nil {
				h.logDenied(r, actx, err)
				h.WriteAppError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) logDenied(r *http.Request, actx *AuthContext, err error) {
	fields := []any{"path", r.URL.Path, "error", err}
	if actx != nil {
		fields = append(fields, "user_id", actx.UserID, "role", actx.RoleName)
	}
	h.Logger.Warn("access denied", fields...)
}
