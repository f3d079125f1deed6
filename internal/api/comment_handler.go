package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmgmt-api/internal/api/shared"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/service"
)

// CommentHandler handles task comment requests.
type CommentHandler struct {
	comments service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments service.CommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CommentHandler")
	}
	return &CommentHandler{
		comments: comments,
		logger:   logger.With(slog.String("component", "comment_handler")),
	}
}

// ListComments handles GET /tasks/{taskId}/comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathInt64OrError(w, r, "taskId")
	if !ok {
		return
	}

	views, err := h.comments.ListComments(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}

	resp := make([]CommentResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, commentViewToResponse(v))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// AddComment handles POST /tasks/{taskId}/comments. The caller is the author.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathInt64OrError(w, r, "taskId")
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.comments.AddComment(r.Context(), taskID, userID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}

	log.Debug("comment added",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", taskID))
	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(comment))
}

// GetComment handles GET /comments/{id}.
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	view, err := h.comments.GetComment(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, commentViewToResponse(*view))
}

// EditComment handles PUT /comments/{id}.
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.comments.EditComment(r.Context(), id, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to edit comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, commentToResponse(comment))
}

// DeleteComment handles DELETE /comments/{id}.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
