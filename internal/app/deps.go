package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/content"
	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/handlers"
	"github.com/videotube/backend/internal/integrity"
	"github.com/videotube/backend/internal/media"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/repositories"
)

type wiring struct {
	deps     handlers.Dependencies
	identity *auth.Identity
	sweeper  *integrity.Sweeper
}

// buildDependencies wires together concrete implementations used by the HTTP
// handlers, the auth middleware and the background sweeper.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (wiring, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)

	uploader, err := media.NewS3Uploader(ctx, cfg.ObjectStore)
	if err != nil {
		return wiring{}, err
	}

	coordinator := integrity.NewCoordinator(comments, likes, playlists, videos)
	sweeper := integrity.NewSweeper(coordinator, integrity.SweeperConfig{
		QueueSize: cfg.SweepQueueSize,
		Workers:   cfg.SweepWorkers,
	}, logger)

	signer := auth.NewTokenSigner(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	identity := auth.NewIdentity(users, signer)

	service := content.NewService(users, videos, comments, likes, subscriptions, tweets, playlists,
		coordinator, sweeper, uploader)

	deps := handlers.Dependencies{
		Accounts:      service,
		Sessions:      identity,
		Videos:        service,
		Comments:      service,
		Likes:         service,
		Subscriptions: service,
		Tweets:        service,
		Playlists:     service,
		AuthLimiter:   middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
		UploadLimiter: middleware.NewIPRateLimiter(6, time.Minute, 2, 10*time.Minute),
	}

	return wiring{deps: deps, identity: identity, sweeper: sweeper}, nil
}
