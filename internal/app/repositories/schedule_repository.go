package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coordenaplus/backend/internal/app/models"
)

// ScheduleRepository defines the interface for the fixed weekly lab schedule
type ScheduleRepository interface {
	GetAll(ctx context.Context) ([]*models.ScheduledBlock, error)
	GetByLab(ctx context.Context, lab string) ([]*models.ScheduledBlock, error)
	ReplaceAll(ctx context.Context, blocks []*models.ScheduledBlock) (int64, error)
}

type scheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduledBlockColumns = `id, lab, day_of_week, start_time, end_time, course, professor`

func (r *scheduleRepository) queryBlocks(ctx context.Context, query string, args ...interface{}) ([]*models.ScheduledBlock, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying scheduled blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*models.ScheduledBlock
	for rows.Next() {
		b := &models.ScheduledBlock{}
		err := rows.Scan(&b.ID, &b.Lab, &b.DayOfWeek, &b.StartTime, &b.EndTime, &b.Course, &b.Professor)
		if err != nil {
			return nil, fmt.Errorf("error scanning scheduled block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading scheduled blocks: %w", err)
	}

	return blocks, nil
}

// GetAll lists the full weekly schedule
func (r *scheduleRepository) GetAll(ctx context.Context) ([]*models.ScheduledBlock, error) {
	return r.queryBlocks(ctx, `
		SELECT `+scheduledBlockColumns+`
		FROM scheduled_blocks
		ORDER BY lab ASC, day_of_week ASC, start_time ASC`)
}

// GetByLab lists the weekly schedule of a single lab
func (r *scheduleRepository) GetByLab(ctx context.Context, lab string) ([]*models.ScheduledBlock, error) {
	return r.queryBlocks(ctx, `
		SELECT `+scheduledBlockColumns+`
		FROM scheduled_blocks
		WHERE lab = $1
		ORDER BY day_of_week ASC, start_time ASC`, lab)
}

// ReplaceAll atomically swaps the whole schedule for a freshly imported one
// and returns the number of blocks inserted.
func (r *scheduleRepository) ReplaceAll(ctx context.Context, blocks []*models.ScheduledBlock) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_blocks`); err != nil {
		return 0, fmt.Errorf("error clearing scheduled blocks: %w", err)
	}

	rows := make([][]interface{}, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []interface{}{b.Lab, b.DayOfWeek, b.StartTime, b.EndTime, b.Course, b.Professor})
	}

	inserted, err := tx.CopyFrom(ctx,
		pgx.Identifier{"scheduled_blocks"},
		[]string{"lab", "day_of_week", "start_time", "end_time", "course", "professor"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("error inserting scheduled blocks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing schedule import: %w", err)
	}

	return inserted, nil
}
