package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/policy"
)

// PlaylistHandler serves the playlist curation endpoints.
type PlaylistHandler struct {
	Playlists PlaylistService
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.CreatePlaylist(ctx, policy.ActorFromContext(ctx), req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"playlist": playlistResponse(playlist)})
}

// Get handles GET /api/v1/playlists/{id}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	detail, err := h.Playlists.GetPlaylist(ctx, policy.ActorFromContext(ctx), r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, playlistDetailResponse(detail))
}

// ListForUser handles GET /api/v1/users/{id}/playlists.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlists, err := h.Playlists.ListUserPlaylists(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlists": playlistResponses(playlists)})
}

// Update handles PATCH /api/v1/playlists/{id}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.UpdatePlaylist(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlist": playlistResponse(playlist)})
}

// Delete handles DELETE /api/v1/playlists/{id}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Playlists.DeletePlaylist(ctx, policy.ActorFromContext(ctx), r.PathValue("id")); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddVideo handles POST /api/v1/playlists/{id}/videos/{videoId}.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.Playlists.AddVideoToPlaylist(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveVideo handles DELETE /api/v1/playlists/{id}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.Playlists.RemoveVideoFromPlaylist(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}
