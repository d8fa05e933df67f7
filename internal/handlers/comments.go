package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/policy"
)

// CommentHandler serves the per-video comment threads.
type CommentHandler struct {
	Comments CommentService
}

type commentRequest struct {
	Content string `json:"content"`
}

// List handles GET /api/v1/videos/{id}/comments.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, err := h.Comments.ListComments(ctx, policy.ActorFromContext(ctx), r.PathValue("id"),
		intQuery(query.Get("page")), intQuery(query.Get("pageSize")))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"comments": commentViewResponses(page.Comments),
		"pagination": pageDTO{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Add handles POST /api/v1/videos/{id}/comments.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	comment, err := h.Comments.AddComment(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"comment": commentResponse(comment)})
}

// Update handles PATCH /api/v1/comments/{id}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	comment, err := h.Comments.UpdateComment(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"comment": commentResponse(comment)})
}

// Delete handles DELETE /api/v1/comments/{id}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Comments.DeleteComment(ctx, policy.ActorFromContext(ctx), r.PathValue("id")); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
