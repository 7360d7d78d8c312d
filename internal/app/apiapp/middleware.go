package apiapp

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/services/access"
	authsvc "github.com/gamerverse/backend/internal/services/auth"
	httperrors "github.com/gamerverse/backend/internal/transport/http/errors"
)

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

type tokenValidator interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (authsvc.AccessClaims, error)
}

// AuthMiddleware resolves the caller from a bearer token or, failing that, the session cookie.
func AuthMiddleware(validator tokenValidator, cookieName string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
					Code:    "INTERNAL_ERROR",
					Message: "auth service is unavailable",
				})
				return
			}

			accessToken, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				accessToken, ok = tokenFromCookie(r, cookieName)
			}
			if !ok {
				writeUnauthenticated(w)
				return
			}

			claims, err := validator.ValidateAccessToken(r.Context(), accessToken)
			if err != nil {
				if log != nil {
					log.Debug("auth middleware validation failed", zap.Error(err))
				}
				writeUnauthenticated(w)
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID: claims.UserID,
				SID:    claims.SID,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group with the same check the services apply.
func RequireRole(allowed ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authsvc.IdentityFromContext(r.Context())
			if !ok {
				writeUnauthenticated(w)
				return
			}
			caller := &access.Caller{UserID: identity.UserID, Roles: identity.Roles}
			if err := access.CheckRole(caller, allowed...); err != nil {
				httperrors.WriteError(w, nil, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
		Code:    "UNAUTHENTICATED",
		Message: "please log in again",
	})
}

func extractBearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func tokenFromCookie(r *http.Request, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", false
	}
	return cookie.Value, true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
