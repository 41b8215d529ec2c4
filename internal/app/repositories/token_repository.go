package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

// TokenRepository defines the interface for refresh token operations
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshTokenByValue(ctx context.Context, tokenValue string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenValue string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type tokenRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) TokenRepository {
	return &tokenRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateRefreshToken stores a new refresh token
func (r *tokenRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query, args, err := r.sb.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at").
		Values(token.UserID, token.Token, token.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating refresh token: %w", err)
	}

	return nil
}

// GetRefreshTokenByValue looks up a refresh token by its opaque value
func (r *tokenRepository) GetRefreshTokenByValue(ctx context.Context, tokenValue string) (*models.RefreshToken, error) {
	query, args, err := r.sb.Select("id", "user_id", "token", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": tokenValue}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	token := &models.RefreshToken{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&token.ID, &token.UserID, &token.Token,
		&token.ExpiresAt, &token.Revoked, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error getting refresh token: %w", err)
	}

	return token, nil
}

// RevokeRefreshToken marks a refresh token as revoked
func (r *tokenRepository) RevokeRefreshToken(ctx context.Context, tokenValue string) error {
	query, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"token": tokenValue}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// RevokeAllUserTokens revokes every active refresh token of a user
func (r *tokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	query, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"user_id": userID, "revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error revoking user tokens: %w", err)
	}

	return nil
}

// CleanupExpiredTokens deletes tokens past their expiry and returns how many were removed
func (r *tokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Delete("refresh_tokens").
		Where(sq.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up expired tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
