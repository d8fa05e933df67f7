package repositories

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// LikeRepository defines the data access contract for likes. Insert and
// Delete report whether a row actually changed so the service layer can
// implement toggling without a read-modify-write race: the likes table
// carries a unique (user, subject) pair and inserts use ON CONFLICT DO
// NOTHING, so a concurrent duplicate insert simply reports false.
type LikeRepository interface {
	Insert(ctx context.Context, like models.Like) (bool, error)
	Delete(ctx context.Context, userID string, kind models.SubjectKind, subjectID string) (bool, error)
	DeleteBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) (int64, error)
	DeleteForVideoComments(ctx context.Context, videoID string) (int64, error)
	ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Insert records a like unless one already exists for the (user, subject)
// pair. Returns false when the pair was already present.
func (r *PostgresLikeRepository) Insert(ctx context.Context, like models.Like) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO likes (id, user_id, subject_kind, subject_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, subject_kind, subject_id) DO NOTHING
    `, like.ID, like.UserID, string(like.SubjectKind), like.SubjectID, like.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the like for the (user, subject) pair, reporting whether a
// row existed.
func (r *PostgresLikeRepository) Delete(ctx context.Context, userID string, kind models.SubjectKind, subjectID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes WHERE user_id = $1 AND subject_kind = $2 AND subject_id = $3
    `, userID, string(kind), subjectID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteBySubject removes every like pointing at the subject.
func (r *PostgresLikeRepository) DeleteBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes WHERE subject_kind = $1 AND subject_id = $2
    `, string(kind), subjectID)
	if err != nil {
		return 0, fmt.Errorf("delete likes by subject: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteForVideoComments removes likes attached to comments of the video.
// Runs before the comments themselves are purged so the subquery still sees
// them.
func (r *PostgresLikeRepository) DeleteForVideoComments(ctx context.Context, videoID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes
        WHERE subject_kind = 'comment'
          AND subject_id IN (SELECT id FROM comments WHERE video_id = $1)
    `, videoID)
	if err != nil {
		return 0, fmt.Errorf("delete comment likes by video: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListLikedVideos returns the published videos the user has liked, most
// recently liked first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns("v")+`
        FROM likes l
        JOIN videos v ON v.id = l.subject_id
        WHERE l.user_id = $1 AND l.subject_kind = 'video' AND v.is_published
        ORDER BY l.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
