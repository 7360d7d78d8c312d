package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/domain/apperrors"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps a service error onto a status code and a stable error code.
// Storage and unclassified failures are logged and never echoed to the client.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	status, apiErr := Classify(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Write(w, status, apiErr)
}

func Classify(err error) (int, APIError) {
	switch {
	case err == nil:
		return http.StatusOK, APIError{}
	case stderrors.Is(err, apperrors.ErrAuthentication):
		return http.StatusUnauthorized, APIError{Code: "UNAUTHENTICATED", Message: "please log in again"}
	case stderrors.Is(err, apperrors.ErrPermission):
		return http.StatusForbidden, APIError{Code: "FORBIDDEN", Message: "Forbidden"}
	case stderrors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, APIError{Code: "TOO_MANY_REQUESTS", Message: "too many requests, try again later"}
	case stderrors.Is(err, apperrors.ErrStorage):
		return http.StatusInternalServerError, APIError{Code: "INTERNAL_ERROR", Message: "internal server error"}
	case stderrors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, APIError{Code: "VALIDATION_ERROR", Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, APIError{Code: "NOT_FOUND", Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict, APIError{Code: "INVALID_STATE", Message: err.Error()}
	default:
		return http.StatusInternalServerError, APIError{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}
