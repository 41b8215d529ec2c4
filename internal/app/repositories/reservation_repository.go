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
)

// ReservationRepository defines the interface for reservation database operations
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	GetByStatus(ctx context.Context, status models.ReservationStatus) ([]*models.Reservation, error)
	GetByResponsibleID(ctx context.Context, userID int64) ([]*models.Reservation, error)
	Update(ctx context.Context, reservation *models.Reservation) error
	Delete(ctx context.Context, id int64) error
	Decide(ctx context.Context, id int64, status models.ReservationStatus, reason string) (*models.Reservation, error)
}

type reservationRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var reservationColumns = []string{
	"id", "date", "start_time", "end_time", "resource",
	"responsible", "responsible_id", "department", "title", "description",
	"status", "rejection_reason", "created_at", "updated_at",
}

func scanReservation(row pgx.Row) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := row.Scan(
		&res.ID, &res.Date, &res.StartTime, &res.EndTime, &res.Resource,
		&res.Responsible, &res.ResponsibleID, &res.Department, &res.Title, &res.Description,
		&res.Status, &res.RejectionReason, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("error scanning reservation row: %w", err)
	}
	return res, nil
}

func (r *reservationRepository) collect(ctx context.Context, query string, args []interface{}) ([]*models.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		res := &models.Reservation{}
		err := rows.Scan(
			&res.ID, &res.Date, &res.StartTime, &res.EndTime, &res.Resource,
			&res.Responsible, &res.ResponsibleID, &res.Department, &res.Title, &res.Description,
			&res.Status, &res.RejectionReason, &res.CreatedAt, &res.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading reservations: %w", err)
	}

	return reservations, nil
}

// Create inserts a new reservation and returns its id
func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) (int64, error) {
	query, args, err := r.sb.Insert("reservations").
		Columns("date", "start_time", "end_time", "resource",
			"responsible", "responsible_id", "department", "title", "description", "status").
		Values(reservation.Date, reservation.StartTime, reservation.EndTime, reservation.Resource,
			reservation.Responsible, reservation.ResponsibleID, reservation.Department,
			reservation.Title, reservation.Description, reservation.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building insert query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating reservation: %w", err)
	}

	return id, nil
}

// GetByID retrieves a reservation by ID
func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	query, args, err := r.sb.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	return scanReservation(r.db.QueryRow(ctx, query, args...))
}

// GetByStatus lists reservations in a given status ordered by date and start time
func (r *reservationRepository) GetByStatus(ctx context.Context, status models.ReservationStatus) ([]*models.Reservation, error) {
	query, args, err := r.sb.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"status": status}).
		OrderBy("date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	return r.collect(ctx, query, args)
}

// GetByResponsibleID lists every reservation owned by a user, newest first
func (r *reservationRepository) GetByResponsibleID(ctx context.Context, userID int64) ([]*models.Reservation, error) {
	query, args, err := r.sb.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"responsible_id": userID}).
		OrderBy("date DESC", "start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building select query: %w", err)
	}

	return r.collect(ctx, query, args)
}

// Update rewrites the editable fields of a reservation
func (r *reservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	query, args, err := r.sb.Update("reservations").
		Set("date", reservation.Date).
		Set("start_time", reservation.StartTime).
		Set("end_time", reservation.EndTime).
		Set("resource", reservation.Resource).
		Set("department", reservation.Department).
		Set("title", reservation.Title).
		Set("description", reservation.Description).
		Set("status", reservation.Status).
		Set("rejection_reason", reservation.RejectionReason).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": reservation.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReservationNotFound
	}

	return nil
}

// Delete removes a reservation
func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("reservations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReservationNotFound
	}

	return nil
}

// Decide transitions a reservation to the given status inside a transaction.
// Approving locks the row and rejects with ErrReservationConflict when another
// approved reservation already overlaps the same resource, date and time window.
func (r *reservationRepository) Decide(ctx context.Context, id int64, status models.ReservationStatus, reason string) (*models.Reservation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	current := &models.Reservation{}
	err = tx.QueryRow(ctx, `
		SELECT id, date, start_time, end_time, resource, status
		FROM reservations
		WHERE id = $1
		FOR UPDATE`, id).Scan(
		&current.ID, &current.Date, &current.StartTime, &current.EndTime,
		&current.Resource, &current.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("error locking reservation: %w", err)
	}

	if status == models.ReservationApproved {
		var conflict bool
		// Half-open interval comparison: back-to-back slots do not collide.
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM reservations
				WHERE resource = $1
				  AND date = $2
				  AND status = $3
				  AND id <> $4
				  AND start_time < $5
				  AND end_time > $6)`,
			current.Resource, current.Date, models.ReservationApproved,
			id, current.EndTime, current.StartTime).Scan(&conflict)
		if err != nil {
			return nil, fmt.Errorf("error checking reservation overlap: %w", err)
		}
		if conflict {
			return nil, apperrors.ErrReservationConflict
		}
	}

	row := tx.QueryRow(ctx, `
		UPDATE reservations
		SET status = $1, rejection_reason = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, date, start_time, end_time, resource,
			responsible, responsible_id, department, title, description,
			status, rejection_reason, created_at, updated_at`,
		status, reason, id)

	updated, err := scanReservation(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing reservation decision: %w", err)
	}

	return updated, nil
}
