package handlers

import (
	"net/http"

	"go.uber.org/zap"

	userssvc "github.com/gamerverse/backend/internal/services/users"
	"github.com/gamerverse/backend/internal/transport/http/dto"
	httperrors "github.com/gamerverse/backend/internal/transport/http/errors"
)

type MeHandler struct {
	users *userssvc.Service
	log   *zap.Logger
}

func NewMeHandler(users *userssvc.Service, log *zap.Logger) *MeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MeHandler{users: users, log: log}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.users == nil {
		writeUnavailable(w, "user service")
		return
	}

	user, err := h.users.Me(r.Context(), caller.UserID)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusOK, user)
}

func (h *MeHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.users == nil {
		writeUnavailable(w, "user service")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), caller.UserID, req.Avatar, req.Bio)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusOK, user)
}
