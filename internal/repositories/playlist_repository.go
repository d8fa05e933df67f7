package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// PlaylistRepository defines the data access contract for playlists and
// their ordered video memberships.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	UpdateMeta(ctx context.Context, id, name, description string) error
	Delete(ctx context.Context, id string) error

	AddVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error)
	ListVideos(ctx context.Context, playlistID string) ([]models.Video, error)
}

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create persists a new, empty playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

// FindByID fetches a playlist including its ordered video id list.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, name, description, created_at, updated_at
        FROM playlists WHERE id = $1
    `, id)

	var playlist models.Playlist
	if err := row.Scan(&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("select playlist: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position
    `, id)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return models.Playlist{}, fmt.Errorf("scan playlist video id: %w", err)
		}
		playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	}
	if err := rows.Err(); err != nil {
		return models.Playlist{}, fmt.Errorf("iterate playlist video ids: %w", err)
	}

	return playlist, nil
}

// ListByOwner returns the owner's playlists, newest first, without memberships.
func (r *PostgresPlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, name, description, created_at, updated_at
        FROM playlists
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var playlist models.Playlist
		if err := rows.Scan(&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
			&playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// UpdateMeta renames the playlist and replaces its description.
func (r *PostgresPlaylistRepository) UpdateMeta(ctx context.Context, id, name, description string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists SET name = $2, description = $3, updated_at = NOW() WHERE id = $1
    `, id, name, description)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the playlist and its memberships.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1`, id); err != nil {
		return fmt.Errorf("delete playlist memberships: %w", err)
	}

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideo appends the video to the playlist. The composite primary key makes
// a duplicate add a no-op, reported as false.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, position)
        SELECT $1, $2, COALESCE(MAX(position), 0) + 1
        FROM playlist_videos WHERE playlist_id = $1
        ON CONFLICT (playlist_id, video_id) DO NOTHING
    `, playlistID, videoID)
	if err != nil {
		return false, fmt.Errorf("add playlist video: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RemoveVideo pulls the video out of the playlist, reporting whether it was
// a member.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2
    `, playlistID, videoID)
	if err != nil {
		return false, fmt.Errorf("remove playlist video: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RemoveVideoEverywhere pulls the video id out of every playlist.
func (r *PostgresPlaylistRepository) RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlist_videos WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("remove video from playlists: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListVideos returns the playlist's videos in playlist order.
func (r *PostgresPlaylistRepository) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns("v")+`
        FROM playlist_videos pv
        JOIN videos v ON v.id = pv.video_id
        WHERE pv.playlist_id = $1
        ORDER BY pv.position
    `, playlistID)
	if err != nil {
		return nil, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

var _ PlaylistRepository = (*PostgresPlaylistRepository)(nil)
