package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// VideoListFilter narrows and orders a video listing. SortColumn must be one
// of the allowlisted columns; the repository rejects anything else.
type VideoListFilter struct {
	ViewerID   string
	OwnerID    string
	Query      string
	SortColumn string
	Ascending  bool
	Limit      int
	Offset     int
}

// ChannelStats aggregates the dashboard numbers for one channel.
type ChannelStats struct {
	TotalVideos      int64
	TotalViews       int64
	TotalLikes       int64
	TotalSubscribers int64
}

// VideoRepository defines the data access contract for videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter VideoListFilter) ([]models.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	Stats(ctx context.Context, ownerID string) (ChannelStats, error)
}

// videoSortColumns is the allowlist guarding ORDER BY interpolation.
var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration_seconds",
	"title":     "title",
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

func videoColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.owner_id, %[1]s.title, %[1]s.description, %[1]s.media_url,
        %[1]s.thumbnail_url, %[1]s.duration_seconds, %[1]s.views, %[1]s.is_published,
        %[1]s.created_at, %[1]s.updated_at`, alias)
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var (
		video   models.Video
		seconds int64
	)
	err := row.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.MediaURL,
		&video.ThumbnailURL, &seconds, &video.Views, &video.Published, &video.CreatedAt, &video.UpdatedAt)
	video.Duration = time.Duration(seconds) * time.Second
	return video, err
}

func collectVideos(rows pgx.Rows) ([]models.Video, error) {
	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, media_url, thumbnail_url,
                            duration_seconds, views, is_published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.MediaURL, video.ThumbnailURL,
		int64(video.Duration/time.Second), video.Views, video.Published, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// FindByID fetches a video regardless of publication state; visibility is the
// caller's concern.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+videoColumns("v")+` FROM videos v WHERE v.id = $1`, id)
	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}
	return video, nil
}

// Update modifies the mutable fields of an existing video.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, updated_at = $5
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.ThumbnailURL, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPublished flips the publication flag.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET is_published = $2, updated_at = NOW() WHERE id = $1
    `, id, published)
	if err != nil {
		return fmt.Errorf("set video published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the video row itself. Dependent records are the integrity
// coordinator's responsibility.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of videos plus the total match count. Unpublished rows
// are only included for their owner.
func (r *PostgresVideoRepository) List(ctx context.Context, filter VideoListFilter) ([]models.Video, int64, error) {
	column, ok := videoSortColumns[filter.SortColumn]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort column %q", filter.SortColumn)
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query := fmt.Sprintf(`
        SELECT `+videoColumns("v")+`, COUNT(*) OVER() AS total
        FROM videos v
        WHERE (v.is_published OR v.owner_id = $1)
          AND ($2 = '' OR v.owner_id = $2)
          AND ($3 = '' OR v.title ILIKE '%%' || $3 || '%%' OR v.description ILIKE '%%' || $3 || '%%')
        ORDER BY v.%s %s, v.id
        LIMIT $4 OFFSET $5
    `, column, direction)

	rows, err := conn.Query(ctx, query, filter.ViewerID, filter.OwnerID, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var (
		videos []models.Video
		total  int64
	)
	for rows.Next() {
		var (
			video   models.Video
			seconds int64
		)
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.MediaURL,
			&video.ThumbnailURL, &seconds, &video.Views, &video.Published,
			&video.CreatedAt, &video.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		video.Duration = time.Duration(seconds) * time.Second
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, total, nil
}

// ListByOwner returns every video belonging to the owner, newest first.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns("v")+`
        FROM videos v
        WHERE v.owner_id = $1
        ORDER BY v.created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query owner videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the channel dashboard counters for one owner.
func (r *PostgresVideoRepository) Stats(ctx context.Context, ownerID string) (ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM videos WHERE owner_id = $1),
            (SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1),
            (SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.subject_id
                WHERE l.subject_kind = 'video' AND v.owner_id = $1),
            (SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1)
    `, ownerID)

	var stats ChannelStats
	if err := row.Scan(&stats.TotalVideos, &stats.TotalViews, &stats.TotalLikes, &stats.TotalSubscribers); err != nil {
		return ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}
	return stats, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
