package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID, viewerID string, limit, offset int) ([]models.CommentView, int64, error)
	DeleteByVideo(ctx context.Context, videoID string) (int64, error)
}

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create persists a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, comment.ID, comment.VideoID, comment.OwnerID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// FindByID fetches a comment by id.
func (r *PostgresCommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, video_id, owner_id, content, created_at, updated_at
        FROM comments WHERE id = $1
    `, id)

	var comment models.Comment
	if err := row.Scan(&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("select comment: %w", err)
	}
	return comment, nil
}

// UpdateContent replaces the comment body.
func (r *PostgresCommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1
    `, id, content)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single comment.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForVideo returns a newest-first page of decorated comments along with
// the total comment count for the video.
func (r *PostgresCommentRepository) ListForVideo(ctx context.Context, videoID, viewerID string, limit, offset int) ([]models.CommentView, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
               COALESCE(u.username, ''), COALESCE(u.full_name, ''), COALESCE(u.avatar_url, ''),
               (SELECT COUNT(*) FROM likes l
                   WHERE l.subject_kind = 'comment' AND l.subject_id = c.id),
               EXISTS (SELECT 1 FROM likes l
                   WHERE l.subject_kind = 'comment' AND l.subject_id = c.id AND l.user_id = $2),
               COUNT(*) OVER() AS total
        FROM comments c
        LEFT JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = $1
        ORDER BY c.created_at DESC, c.id
        LIMIT $3 OFFSET $4
    `, videoID, viewerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var (
		views []models.CommentView
		total int64
	)
	for rows.Next() {
		var view models.CommentView
		if err := rows.Scan(&view.ID, &view.VideoID, &view.OwnerID, &view.Content,
			&view.CreatedAt, &view.UpdatedAt, &view.AuthorUsername, &view.AuthorFullName,
			&view.AuthorAvatarURL, &view.LikesCount, &view.LikedByViewer, &total); err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}

	return views, total, nil
}

// DeleteByVideo removes every comment referencing the video and reports how
// many were purged.
func (r *PostgresCommentRepository) DeleteByVideo(ctx context.Context, videoID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("delete comments by video: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ CommentRepository = (*PostgresCommentRepository)(nil)
