package apiapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/services/access"
	authsvc "github.com/gamerverse/backend/internal/services/auth"
)

type stubValidator struct {
	tokens map[string]authsvc.AccessClaims
}

func (s stubValidator) ValidateAccessToken(_ context.Context, token string) (authsvc.AccessClaims, error) {
	claims, ok := s.tokens[token]
	if !ok {
		return authsvc.AccessClaims{}, errors.New("unknown token")
	}
	return claims, nil
}

func newStubValidator() stubValidator {
	return stubValidator{tokens: map[string]authsvc.AccessClaims{
		"good": {UserID: 42, SID: "sid-42", Roles: []enums.Role{enums.RoleModerator}},
	}}
}

func identityEcho(t *testing.T, wantUserID int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing in context")
		}
		if identity.UserID != wantUserID {
			t.Fatalf("unexpected user id: got %d want %d", identity.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddlewareAcceptsBearer(t *testing.T) {
	mw := AuthMiddleware(newStubValidator(), "token", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	mw(identityEcho(t, 42)).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewareFallsBackToCookie(t *testing.T) {
	mw := AuthMiddleware(newStubValidator(), "token", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	rr := httptest.NewRecorder()
	mw(identityEcho(t, 42)).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewareRejectsMissingOrInvalidToken(t *testing.T) {
	mw := AuthMiddleware(newStubValidator(), "token", zap.NewNop())

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing", func(*http.Request) {}},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") }},
		{"bad cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "forged"}) }},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			tc.setup(req)
			rr := httptest.NewRecorder()
			mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatalf("handler must not be called")
			})).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireRoleAllowsCaseInsensitiveMatch(t *testing.T) {
	mw := RequireRole(access.ModeratorRoles()...)

	req := httptest.NewRequest(http.MethodGet, "/v1/moderation/stats", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 1,
		SID:    "sid-1",
		Roles:  []enums.Role{"MODERATOR"},
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestRequireRoleRejectsForbiddenRole(t *testing.T) {
	mw := RequireRole(access.ModeratorRoles()...)

	req := httptest.NewRequest(http.MethodGet, "/v1/moderation/stats", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 2,
		SID:    "sid-2",
		Roles:  []enums.Role{enums.RoleUser},
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called for forbidden role")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.New(core))
	r.Get("/teapot", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("unexpected log entries: got %d want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("unexpected status field: %v", fields["status"])
	}
	if fields["request_id"] == "" {
		t.Fatalf("request id must be logged")
	}
}
