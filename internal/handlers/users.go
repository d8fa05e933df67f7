package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

// UserHandler serves profile and watch-history endpoints.
type UserHandler struct {
	Accounts AccountService
}

// GetProfile handles GET /api/v1/users/{id}.
func (h UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Accounts.GetProfile(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	// Email is visible only to the account itself.
	if policy.ActorFromContext(ctx).ID != user.ID {
		user.Email = ""
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"user": userProfile(user)})
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateProfile handles PATCH /api/v1/users/me.
func (h UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid profile payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Accounts.UpdateProfile(ctx, policy.ActorFromContext(ctx), req.FullName, req.Email)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"user": userProfile(user)})
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.Accounts.UpdateAvatar)
}

// UpdateCover handles PATCH /api/v1/users/me/cover.
func (h UserHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.Accounts.UpdateCover)
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string, apply func(ctx context.Context, actor policy.Actor, localPath string) (models.User, error)) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	path, ok, err := formFile(r, field)
	if err != nil || !ok {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": field + " file is required"})
		return
	}
	defer discardTemp(path)

	user, err := apply(ctx, policy.ActorFromContext(ctx), path)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"user": userProfile(user)})
}

// WatchHistory handles GET /api/v1/users/me/history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Accounts.WatchHistory(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videoResponses(videos)})
}
