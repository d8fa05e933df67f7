package repositories

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// SubscriptionRepository defines the data access contract for channel
// subscriptions. The same insert/delete toggle contract as likes applies:
// a unique (subscriber, channel) pair backs the idempotence guarantee.
type SubscriptionRepository interface {
	Insert(ctx context.Context, sub models.Subscription) (bool, error)
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.User, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.User, error)
}

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Insert records a subscription unless the pair already exists.
func (r *PostgresSubscriptionRepository) Insert(ctx context.Context, sub models.Subscription) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING
    `, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return false, mapped
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the subscription pair, reporting whether a row existed.
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListSubscribers returns the public profiles subscribed to a channel.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.User, error) {
	return r.listProfiles(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
}

// ListSubscribedChannels returns the channels a user subscribes to.
func (r *PostgresSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.User, error) {
	return r.listProfiles(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
}

func (r *PostgresSubscriptionRepository) listProfiles(ctx context.Context, query, arg string) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query subscription profiles: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan subscription profile: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription profiles: %w", err)
	}
	return users, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
