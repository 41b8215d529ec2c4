package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

// SubscriptionRepository defines the interface for Web Push subscription storage
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	GetByUserIDs(ctx context.Context, userIDs []int64) ([]*models.PushSubscription, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByEndpoint(ctx context.Context, endpoint string, userID int64) error
}

type subscriptionRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Upsert stores a subscription keyed by endpoint. A browser endpoint already
// registered to another account is rebound to the current user.
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE
		SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, user_id = EXCLUDED.user_id
		RETURNING id, created_at`,
		sub.Endpoint, sub.P256dh, sub.Auth, sub.UserID).Scan(&sub.ID, &sub.CreatedAt)

	if err != nil {
		return fmt.Errorf("error upserting push subscription: %w", err)
	}

	return nil
}

// GetByUserIDs lists every subscription belonging to the given users
func (r *subscriptionRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]*models.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select("id", "endpoint", "p256dh", "auth", "user_id", "created_at").
		From("push_subscriptions").
		Where(sq.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.PushSubscription
	for rows.Next() {
		sub := &models.PushSubscription{}
		err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.UserID, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning push subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading push subscriptions: %w", err)
	}

	return subs, nil
}

// DeleteByID removes a subscription by its id. Used when a push service
// reports the endpoint gone; a missing row is not an error.
func (r *subscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting push subscription: %w", err)
	}

	return nil
}

// DeleteByEndpoint removes the caller's subscription for a browser endpoint
func (r *subscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM push_subscriptions
		WHERE endpoint = $1 AND user_id = $2`, endpoint, userID)
	if err != nil {
		return fmt.Errorf("error deleting push subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubscriptionNotFound
	}

	return nil
}
