package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/services/access"
	authsvc "github.com/gamerverse/backend/internal/services/auth"
	httperrors "github.com/gamerverse/backend/internal/transport/http/errors"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", apperrors.ErrValidation)
	}
	return nil
}

func callerFromRequest(r *http.Request) (*access.Caller, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return &access.Caller{UserID: identity.UserID, Roles: identity.Roles}, true
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, apperrors.ErrValidation)
	}
	return id, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
		Code:    "UNAUTHENTICATED",
		Message: "please log in again",
	})
}

func writeUnavailable(w http.ResponseWriter, what string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
		Code:    "INTERNAL_ERROR",
		Message: what + " is unavailable",
	})
}
