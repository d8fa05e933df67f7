package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// UserRepository defines the data access contract for users, including the
// single refresh-token slot each account carries.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, usernameOrEmail string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error

	SetRefreshTokenHash(ctx context.Context, userID, hash string) error
	SwapRefreshTokenHash(ctx context.Context, userID, current, next string) (bool, error)
	ClearRefreshTokenHash(ctx context.Context, userID string) error

	RecordWatch(ctx context.Context, entry models.WatchEntry) error
	ListWatchHistory(ctx context.Context, userID string) ([]models.Video, error)
}

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_url,
        COALESCE(refresh_token_hash, ''), created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.AvatarURL, &user.CoverURL, &user.RefreshTokenHash, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

// Create persists a new user record. Username and email are stored lowercase.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, strings.ToLower(user.Username), strings.ToLower(user.Email), user.FullName,
		user.Password, user.AvatarURL, user.CoverURL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID fetches a user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return user, nil
}

// FindByLogin fetches a user by username or email, case-insensitively.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	login := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE username = $1 OR email = $1
    `, login)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by login: %w", err)
	}
	return user, nil
}

// UpdateProfile modifies the mutable profile fields of an existing user.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET full_name = $2, email = $3, avatar_url = $4, cover_url = $5, updated_at = $6
        WHERE id = $1
    `, user.ID, user.FullName, user.Email, user.AvatarURL, user.CoverURL, user.UpdatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshTokenHash overwrites the stored refresh-token digest, invalidating
// any previously issued refresh token for the user.
func (r *PostgresUserRepository) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1
    `, userID, hash)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapRefreshTokenHash replaces the stored digest only while it still equals
// current. The compare and the overwrite execute as one statement so two
// concurrent rotations cannot both succeed.
func (r *PostgresUserRepository) SwapRefreshTokenHash(ctx context.Context, userID, current, next string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token_hash = $3, updated_at = NOW()
        WHERE id = $1 AND refresh_token_hash = $2
    `, userID, current, next)
	if err != nil {
		return false, fmt.Errorf("swap refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearRefreshTokenHash removes the stored refresh token (logout).
func (r *PostgresUserRepository) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        UPDATE users SET refresh_token_hash = NULL, updated_at = NOW() WHERE id = $1
    `, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// RecordWatch upserts a watch-history entry, moving the video to the front of
// the user's history on rewatch.
func (r *PostgresUserRepository) RecordWatch(ctx context.Context, entry models.WatchEntry) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id, watched_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, video_id)
        DO UPDATE SET watched_at = EXCLUDED.watched_at
    `, entry.UserID, entry.VideoID, entry.WatchedAt.UTC())
	if err != nil {
		return fmt.Errorf("record watch: %w", err)
	}
	return nil
}

// ListWatchHistory returns the user's watched videos, most recent first.
// Videos that were unpublished after being watched stay hidden unless the
// viewer owns them.
func (r *PostgresUserRepository) ListWatchHistory(ctx context.Context, userID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns("v")+`
        FROM watch_history wh
        JOIN videos v ON v.id = wh.video_id
        WHERE wh.user_id = $1 AND (v.is_published OR v.owner_id = $1)
        ORDER BY wh.watched_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

var _ UserRepository = (*PostgresUserRepository)(nil)
