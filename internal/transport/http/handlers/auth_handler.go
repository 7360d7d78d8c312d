package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/gamerverse/backend/internal/services/auth"
	"github.com/gamerverse/backend/internal/transport/http/dto"
	httperrors "github.com/gamerverse/backend/internal/transport/http/errors"
)

const msgRegistered = "User registered successfully"

type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service *authsvc.Service
	cookie  CookieConfig
	log     *zap.Logger
	now     func() time.Time
}

func NewAuthHandler(service *authsvc.Service, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{service: service, cookie: cookie, log: log, now: time.Now}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "auth service")
		return
	}

	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	user, err := h.service.Register(r.Context(), authsvc.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.RegisterResponse{Message: msgRegistered, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "auth service")
		return
	}

	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		MaxAge:   int(res.ExpiresAt.Sub(h.now()).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	httperrors.Write(w, http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.service == nil {
		writeUnavailable(w, "auth service")
		return
	}

	if err := h.service.Logout(r.Context(), identity.SID); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	h.clearCookie(w)
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// LogoutAll revokes every session of the caller, including the current one.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.service == nil {
		writeUnavailable(w, "auth service")
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	h.clearCookie(w)
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "Logged out of all sessions"})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
