// Package httpapi exposes the auth engine over HTTP: login, refresh,
// logout, and session management for the admin console.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	motorauth "github.com/sr198/motorghar-auth"
	"github.com/sr198/motorghar-auth/middleware"
	"github.com/sr198/motorghar-auth/session"
	"github.com/sr198/motorghar-auth/token"
)

// Handler carries the engine and authorizer into the route handlers.
type Handler struct {
	engine *motorauth.Engine
	authz  *motorauth.Authorizer
	logger *slog.Logger
}

// NewHandler wires the HTTP layer.
func NewHandler(engine *motorauth.Engine, authz *motorauth.Authorizer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, authz: authz, logger: logger}
}

// Routes mounts the auth endpoints. Everything under /auth except login
// and refresh requires a bearer token.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/refresh", h.refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Guard(h.engine))
			r.Post("/logout", h.logout)
			r.Post("/logout-all", h.logoutAll)
			r.Post("/change-password", h.changePassword)
			r.Get("/sessions", h.listSessions)
			r.Delete("/sessions/{sessionID}", h.revokeSession)
		})
	})

	return r
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type apiError struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// writeAuthError maps domain errors to HTTP statuses. Unknown errors are
// logged and reported as a bare 500 so internals never leak to clients.
func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, motorauth.ErrInvalidCredentials),
		errors.Is(err, motorauth.ErrInvalidToken),
		errors.Is(err, motorauth.ErrTokenRevoked),
		errors.Is(err, motorauth.ErrSessionNotFound),
		errors.Is(err, motorauth.ErrSessionRevoked),
		errors.Is(err, motorauth.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, motorauth.ErrAccountInactive):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error("auth request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx := motorauth.WithClientIP(r.Context(), clientIP(r))
	ctx = motorauth.WithUserAgent(ctx, r.UserAgent())

	res, err := h.engine.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	res, err := h.engine.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := motorauth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	accessToken := token.ExtractBearer(r.Header.Get("Authorization"))
	if err := h.engine.Logout(r.Context(), identity.UserID, accessToken, req.RefreshToken); err != nil {
		h.writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := motorauth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.engine.LogoutAll(r.Context(), identity.UserID); err != nil {
		h.writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := motorauth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}

	if err := h.engine.ChangePassword(r.Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	ID             string    `json:"id"`
	DeviceType     string    `json:"deviceType"`
	DeviceOS       string    `json:"deviceOs"`
	DeviceBrowser  string    `json:"deviceBrowser"`
	IPAddress      string    `json:"ipAddress"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func toSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		ID:             s.ID,
		DeviceType:     string(s.Device.Type),
		DeviceOS:       s.Device.OS,
		DeviceBrowser:  s.Device.Browser,
		IPAddress:      s.IPAddress,
		LastActivityAt: s.LastActivityAt,
		CreatedAt:      s.CreatedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := motorauth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := h.engine.GetActiveSessions(r.Context(), identity.UserID)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) revokeSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := motorauth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.engine.RevokeSession(r.Context(), identity.UserID, sessionID); err != nil {
		if errors.Is(err, motorauth.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
