package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

// LikeHandler serves like toggles across videos, comments and tweets.
type LikeHandler struct {
	Likes LikeService
}

// Toggle handles POST /api/v1/likes/{kind}/{id}.
func (h LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind := models.SubjectKind(r.PathValue("kind"))
	liked, err := h.Likes.ToggleLike(ctx, policy.ActorFromContext(ctx), kind, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"liked": liked})
}

// ListVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Likes.ListLikedVideos(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videoResponses(videos)})
}
