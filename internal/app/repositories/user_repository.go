package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
	"github.com/coordenaplus/backend/internal/pkg/dberrors"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetPendingUsers(ctx context.Context) ([]*models.User, error)
	UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) (*models.User, error)
	GetApprovedAdminIDs(ctx context.Context) ([]int64, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// userRepository implements UserRepository over pgx
type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password, role, status, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user row: %w", err)
	}
	return user, nil
}

// Create inserts a new user and returns its id
func (r *userRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Name, user.Email, user.Password, user.Role, user.Status).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`, email)
	return scanUser(row)
}

// EmailExists checks if an email is already registered
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return exists, nil
}

// GetPendingUsers lists accounts awaiting an admin decision, oldest first
func (r *userRepository) GetPendingUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE status = $1
		ORDER BY created_at ASC`, models.AccountPending)
	if err != nil {
		return nil, fmt.Errorf("error querying pending users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Password,
			&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning pending user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading pending users: %w", err)
	}

	return users, nil
}

// UpdateStatus sets the approval status of a user and returns the updated row.
// Re-applying the current status is a no-op overwrite, not an error.
func (r *userRepository) UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, status, id)
	return scanUser(row)
}

// GetApprovedAdminIDs lists the ids of approved administrators
func (r *userRepository) GetApprovedAdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM users WHERE role = $1 AND status = $2`,
		models.RoleAdmin, models.AccountApproved)
	if err != nil {
		return nil, fmt.Errorf("error querying admin ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning admin id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading admin ids: %w", err)
	}

	return ids, nil
}

// UpdateLastLogin updates the last login time
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET last_login_at = NOW()
		WHERE id = $1`, id)

	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}

	return nil
}
