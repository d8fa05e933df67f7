package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/policy"
)

// TweetHandler serves the short-text update endpoints.
type TweetHandler struct {
	Tweets TweetService
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tweet, err := h.Tweets.CreateTweet(ctx, policy.ActorFromContext(ctx), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"tweet": tweetResponse(tweet)})
}

// ListForUser handles GET /api/v1/users/{id}/tweets.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweets, err := h.Tweets.ListUserTweets(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"tweets": tweetResponses(tweets)})
}

// Update handles PATCH /api/v1/tweets/{id}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tweet, err := h.Tweets.UpdateTweet(ctx, policy.ActorFromContext(ctx), r.PathValue("id"), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"tweet": tweetResponse(tweet)})
}

// Delete handles DELETE /api/v1/tweets/{id}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Tweets.DeleteTweet(ctx, policy.ActorFromContext(ctx), r.PathValue("id")); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
