package handlers

import "net/http"

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts      AccountService
	Sessions      SessionManager
	Videos        VideoService
	Comments      CommentService
	Likes         LikeService
	Subscriptions SubscriptionService
	Tweets        TweetService
	Playlists     PlaylistService
	AuthLimiter   RateLimiter
	UploadLimiter RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux using
// method-qualified patterns.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Accounts: deps.Accounts, Sessions: deps.Sessions, Limiter: deps.AuthLimiter}
	users := UserHandler{Accounts: deps.Accounts}
	videos := VideoHandler{Videos: deps.Videos, Limiter: deps.UploadLimiter}
	comments := CommentHandler{Comments: deps.Comments}
	likes := LikeHandler{Likes: deps.Likes}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions}
	tweets := TweetHandler{Tweets: deps.Tweets}
	playlists := PlaylistHandler{Playlists: deps.Playlists}
	dashboard := DashboardHandler{Service: deps.Videos}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.Logout)

	mux.HandleFunc("GET /api/v1/users/me/history", users.WatchHistory)
	mux.HandleFunc("PATCH /api/v1/users/me", users.UpdateProfile)
	mux.HandleFunc("PATCH /api/v1/users/me/avatar", users.UpdateAvatar)
	mux.HandleFunc("PATCH /api/v1/users/me/cover", users.UpdateCover)
	mux.HandleFunc("GET /api/v1/users/{id}", users.GetProfile)
	mux.HandleFunc("GET /api/v1/users/{id}/tweets", tweets.ListForUser)
	mux.HandleFunc("GET /api/v1/users/{id}/playlists", playlists.ListForUser)

	mux.HandleFunc("GET /api/v1/videos", videos.List)
	mux.HandleFunc("POST /api/v1/videos", videos.Publish)
	mux.HandleFunc("GET /api/v1/videos/{id}", videos.Get)
	mux.HandleFunc("PATCH /api/v1/videos/{id}", videos.Update)
	mux.HandleFunc("PATCH /api/v1/videos/{id}/thumbnail", videos.UpdateThumbnail)
	mux.HandleFunc("POST /api/v1/videos/{id}/toggle-publish", videos.TogglePublish)
	mux.HandleFunc("DELETE /api/v1/videos/{id}", videos.Delete)
	mux.HandleFunc("GET /api/v1/videos/{id}/comments", comments.List)
	mux.HandleFunc("POST /api/v1/videos/{id}/comments", comments.Add)

	mux.HandleFunc("PATCH /api/v1/comments/{id}", comments.Update)
	mux.HandleFunc("DELETE /api/v1/comments/{id}", comments.Delete)

	mux.HandleFunc("POST /api/v1/likes/{kind}/{id}", likes.Toggle)
	mux.HandleFunc("GET /api/v1/likes/videos", likes.ListVideos)

	mux.HandleFunc("POST /api/v1/channels/{id}/subscription", subscriptions.Toggle)
	mux.HandleFunc("GET /api/v1/channels/{id}/subscribers", subscriptions.Subscribers)
	mux.HandleFunc("GET /api/v1/subscriptions", subscriptions.Channels)

	mux.HandleFunc("POST /api/v1/tweets", tweets.Create)
	mux.HandleFunc("PATCH /api/v1/tweets/{id}", tweets.Update)
	mux.HandleFunc("DELETE /api/v1/tweets/{id}", tweets.Delete)

	mux.HandleFunc("POST /api/v1/playlists", playlists.Create)
	mux.HandleFunc("GET /api/v1/playlists/{id}", playlists.Get)
	mux.HandleFunc("PATCH /api/v1/playlists/{id}", playlists.Update)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}", playlists.Delete)
	mux.HandleFunc("POST /api/v1/playlists/{id}/videos/{videoId}", playlists.AddVideo)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}/videos/{videoId}", playlists.RemoveVideo)

	mux.HandleFunc("GET /api/v1/dashboard/stats", dashboard.Stats)
	mux.HandleFunc("GET /api/v1/dashboard/videos", dashboard.Videos)
}
