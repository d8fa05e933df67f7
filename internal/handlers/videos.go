package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/videotube/backend/internal/content"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/policy"
)

// VideoHandler serves the video catalogue endpoints.
type VideoHandler struct {
	Videos  VideoService
	Limiter RateLimiter
}

// Publish handles POST /api/v1/videos. The body is multipart carrying the
// video file and its thumbnail.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "publish") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many uploads"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("invalid publish payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	mediaPath, _, err := formFile(r, "videoFile")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video upload"})
		return
	}
	defer discardTemp(mediaPath)

	thumbPath, _, err := formFile(r, "thumbnail")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid thumbnail upload"})
		return
	}
	defer discardTemp(thumbPath)

	video, err := h.Videos.PublishVideo(ctx, policy.ActorFromContext(ctx), content.PublishVideoInput{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		MediaPath:     mediaPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]any{"video": videoResponse(video)})
}

// List handles GET /api/v1/videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	input := content.ListVideosInput{
		Page:      intQuery(query.Get("page")),
		PageSize:  intQuery(query.Get("pageSize")),
		Query:     query.Get("q"),
		OwnerID:   query.Get("ownerId"),
		SortBy:    query.Get("sortBy"),
		Ascending: query.Get("sortDir") == "asc",
	}

	page, err := h.Videos.ListVideos(ctx, policy.ActorFromContext(ctx), input)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"videos": videoResponses(page.Videos),
		"pagination": pageDTO{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/v1/videos/{id}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.Videos.GetVideo(ctx, policy.ActorFromContext(ctx), r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": videoResponse(video)})
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update handles PATCH /api/v1/videos/{id}. Metadata edits arrive as JSON;
// thumbnail replacement has its own multipart endpoint.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	video, err := h.Videos.UpdateVideo(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), content.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": videoResponse(video)})
}

// UpdateThumbnail handles PATCH /api/v1/videos/{id}/thumbnail.
func (h VideoHandler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	path, ok, err := formFile(r, "thumbnail")
	if err != nil || !ok {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "thumbnail file is required"})
		return
	}
	defer discardTemp(path)

	video, err := h.Videos.UpdateVideo(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), content.UpdateVideoInput{
		ThumbnailPath: path,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": videoResponse(video)})
}

// TogglePublish handles POST /api/v1/videos/{id}/toggle-publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.Videos.TogglePublish(ctx, policy.ActorFromContext(ctx), r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": videoResponse(video)})
}

// Delete handles DELETE /api/v1/videos/{id}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Videos.DeleteVideo(ctx, policy.ActorFromContext(ctx), r.PathValue("id")); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func intQuery(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
