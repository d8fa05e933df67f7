package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/policy"
)

// SubscriptionHandler serves channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionService
}

// Toggle handles POST /api/v1/channels/{id}/subscription.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscribed, err := h.Subscriptions.ToggleSubscription(ctx, policy.ActorFromContext(ctx), r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed})
}

// Subscribers handles GET /api/v1/channels/{id}/subscribers.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Subscriptions.ListSubscribers(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"subscribers": userProfiles(users)})
}

// Channels handles GET /api/v1/subscriptions.
func (h SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Subscriptions.ListSubscribedChannels(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"channels": userProfiles(users)})
}
