package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/policy"
)

// DashboardHandler serves the channel owner's dashboard.
type DashboardHandler struct {
	Service VideoService
}

type statsDTO struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}

// Stats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Service.ChannelStats(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"stats": statsDTO{
		TotalVideos:      stats.TotalVideos,
		TotalViews:       stats.TotalViews,
		TotalLikes:       stats.TotalLikes,
		TotalSubscribers: stats.TotalSubscribers,
	}})
}

// Videos handles GET /api/v1/dashboard/videos, listing every video of the
// channel including unpublished ones.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Service.ListChannelVideos(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videoResponses(videos)})
}
