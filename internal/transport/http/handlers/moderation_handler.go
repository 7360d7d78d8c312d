package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/domain/model"
	"github.com/gamerverse/backend/internal/services/access"
	modsvc "github.com/gamerverse/backend/internal/services/moderation"
	"github.com/gamerverse/backend/internal/transport/http/dto"
	httperrors "github.com/gamerverse/backend/internal/transport/http/errors"
)

// ModerationHandler exposes the privileged moderation operations. Role checks
// happen in the service so every entry point is gated the same way.
type ModerationHandler struct {
	service *modsvc.Service
	log     *zap.Logger
}

func NewModerationHandler(service *modsvc.Service, log *zap.Logger) *ModerationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModerationHandler{service: service, log: log}
}

func (h *ModerationHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.withTarget(w, r, func(caller *access.Caller, id int64) (string, error) {
		return h.service.DeleteContent(r.Context(), caller, id)
	})
}

func (h *ModerationHandler) FlagPost(w http.ResponseWriter, r *http.Request) {
	var req dto.FlagRequest
	h.withBody(w, r, &req, func(caller *access.Caller, id int64) (string, error) {
		return h.service.FlagContent(r.Context(), caller, id, req.Reason)
	})
}

func (h *ModerationHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveReportRequest
	h.withBody(w, r, &req, func(caller *access.Caller, id int64) (string, error) {
		return h.service.ResolveReport(r.Context(), caller, id, req.ModeratorAction)
	})
}

func (h *ModerationHandler) ApproveAppeal(w http.ResponseWriter, r *http.Request) {
	var req dto.DecideAppealRequest
	h.withBody(w, r, &req, func(caller *access.Caller, id int64) (string, error) {
		return h.service.ApproveAppeal(r.Context(), caller, id, req.Resolution)
	})
}

func (h *ModerationHandler) RejectAppeal(w http.ResponseWriter, r *http.Request) {
	var req dto.DecideAppealRequest
	h.withBody(w, r, &req, func(caller *access.Caller, id int64) (string, error) {
		return h.service.RejectAppeal(r.Context(), caller, id, req.Resolution)
	})
}

func (h *ModerationHandler) TriggerDigest(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	msg, err := h.service.TriggerDigest(r.Context(), caller)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *ModerationHandler) Logs(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListAuditLog(r.Context(), caller)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	if items == nil {
		items = []model.LogEntry{}
	}
	httperrors.Write(w, http.StatusOK, dto.AuditLogResponse{Items: items})
}

func (h *ModerationHandler) Appeals(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListPendingAppeals(r.Context(), caller)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	if items == nil {
		items = []model.Appeal{}
	}
	httperrors.Write(w, http.StatusOK, dto.AppealsResponse{Items: items})
}

func (h *ModerationHandler) Reports(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListOpenReports(r.Context(), caller)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	if items == nil {
		items = []model.Report{}
	}
	httperrors.Write(w, http.StatusOK, dto.ReportsResponse{Items: items})
}

func (h *ModerationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetDailyStats(r.Context(), caller)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusOK, stats)
}

func (h *ModerationHandler) caller(w http.ResponseWriter, r *http.Request) (*access.Caller, bool) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return nil, false
	}
	if h.service == nil {
		writeUnavailable(w, "moderation service")
		return nil, false
	}
	return caller, true
}

func (h *ModerationHandler) withTarget(w http.ResponseWriter, r *http.Request, op func(*access.Caller, int64) (string, error)) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	msg, err := op(caller, id)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *ModerationHandler) withBody(w http.ResponseWriter, r *http.Request, body any, op func(*access.Caller, int64) (string, error)) {
	h.withTarget(w, r, func(caller *access.Caller, id int64) (string, error) {
		if err := decodeJSON(w, r, body); err != nil {
			return "", err
		}
		return op(caller, id)
	})
}
