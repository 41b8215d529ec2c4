package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
	"github.com/coordenaplus/backend/internal/pkg/dberrors"
)

// CoordinatorRepository defines the interface for coordinator directory operations
type CoordinatorRepository interface {
	GetAll(ctx context.Context) ([]*models.Coordinator, error)
	GetByID(ctx context.Context, id int64) (*models.Coordinator, error)
	Create(ctx context.Context, coordinator *models.Coordinator) (int64, error)
	Update(ctx context.Context, coordinator *models.Coordinator) error
	UpdateStatus(ctx context.Context, id int64, status models.PresenceStatus) (*models.Coordinator, error)
	Delete(ctx context.Context, id int64) error
}

type coordinatorRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

// NewCoordinatorRepository creates a new CoordinatorRepository
func NewCoordinatorRepository(db *pgxpool.Pool) CoordinatorRepository {
	return &coordinatorRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var coordinatorColumns = []string{
	"id", "name", "email", "course", "status",
	"photo", "office_hours", "location", "created_at", "updated_at",
}

func scanCoordinator(row pgx.Row) (*models.Coordinator, error) {
	c := &models.Coordinator{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Course, &c.Status,
		&c.Photo, &c.OfficeHours, &c.Location, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCoordinatorNotFound
		}
		return nil, fmt.Errorf("error scanning coordinator row: %w", err)
	}
	return c, nil
}

// GetAll lists coordinators ordered by course then name
func (r *coordinatorRepository) GetAll(ctx context.Context) ([]*models.Coordinator, error) {
	query, args, err := r.sb.Select(coordinatorColumns...).
		From("coordinators").
		OrderBy("course ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying coordinators: %w", err)
	}
	defer rows.Close()

	var coordinators []*models.Coordinator
	for rows.Next() {
		c := &models.Coordinator{}
		err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Course, &c.Status,
			&c.Photo, &c.OfficeHours, &c.Location, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning coordinator: %w", err)
		}
		coordinators = append(coordinators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading coordinators: %w", err)
	}

	return coordinators, nil
}

// GetByID retrieves a coordinator by ID
func (r *coordinatorRepository) GetByID(ctx context.Context, id int64) (*models.Coordinator, error) {
	query, args, err := r.sb.Select(coordinatorColumns...).
		From("coordinators").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	return scanCoordinator(r.db.QueryRow(ctx, query, args...))
}

// Create inserts a new coordinator and returns its id
func (r *coordinatorRepository) Create(ctx context.Context, coordinator *models.Coordinator) (int64, error) {
	query, args, err := r.sb.Insert("coordinators").
		Columns("name", "email", "course", "status", "photo", "office_hours", "location").
		Values(coordinator.Name, coordinator.Email, coordinator.Course, coordinator.Status,
			coordinator.Photo, coordinator.OfficeHours, coordinator.Location).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building insert query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrCoordinatorAlreadyExists
		}
		return 0, fmt.Errorf("error creating coordinator: %w", err)
	}

	return id, nil
}

// Update rewrites the profile fields of a coordinator
func (r *coordinatorRepository) Update(ctx context.Context, coordinator *models.Coordinator) error {
	query, args, err := r.sb.Update("coordinators").
		Set("name", coordinator.Name).
		Set("email", coordinator.Email).
		Set("course", coordinator.Course).
		Set("photo", coordinator.Photo).
		Set("office_hours", coordinator.OfficeHours).
		Set("location", coordinator.Location).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": coordinator.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCoordinatorAlreadyExists
		}
		return fmt.Errorf("error updating coordinator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCoordinatorNotFound
	}

	return nil
}

// UpdateStatus flips the presence flag and returns the updated row
func (r *coordinatorRepository) UpdateStatus(ctx context.Context, id int64, status models.PresenceStatus) (*models.Coordinator, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE coordinators
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, email, course, status,
			photo, office_hours, location, created_at, updated_at`,
		status, id)
	return scanCoordinator(row)
}

// Delete removes a coordinator
func (r *coordinatorRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("coordinators").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting coordinator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCoordinatorNotFound
	}

	return nil
}
