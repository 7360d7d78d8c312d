package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/domain/enums"
	postssvc "github.com/gamerverse/backend/internal/services/posts"
	"github.com/gamerverse/backend/internal/transport/http/dto"
	httperrors "github.com/gamerverse/backend/internal/transport/http/errors"
)

// PostsHandler serves the user-facing content routes: posting, reporting and appealing.
type PostsHandler struct {
	posts *postssvc.Service
	log   *zap.Logger
}

func NewPostsHandler(posts *postssvc.Service, log *zap.Logger) *PostsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostsHandler{posts: posts, log: log}
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.posts == nil {
		writeUnavailable(w, "post service")
		return
	}

	var req dto.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	post, err := h.posts.Create(r.Context(), caller.UserID, req.Text, req.Image, req.NSFW)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, post)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.posts == nil {
		writeUnavailable(w, "post service")
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	post, err := h.posts.Get(r.Context(), postID)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusOK, post)
}

func (h *PostsHandler) Report(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.posts == nil {
		writeUnavailable(w, "post service")
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	var req dto.ReportPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	report, err := h.posts.Report(r.Context(), caller.UserID, postID, req.Reason)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, report)
}

func (h *PostsHandler) Appeal(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	if h.posts == nil {
		writeUnavailable(w, "post service")
		return
	}

	var req dto.FileAppealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}

	appeal, err := h.posts.Appeal(r.Context(), caller.UserID, req.ContentID, enums.ContentType(req.ContentType), req.Reason)
	if err != nil {
		httperrors.WriteError(w, h.log, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, appeal)
}
