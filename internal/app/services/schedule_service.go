package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/repositories"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

const maxImportBlocks = 2000

// ScheduleService handles the fixed weekly lab schedule and its XLSX import
type ScheduleService struct {
	scheduleRepo repositories.ScheduleRepository
	logger       zerolog.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo repositories.ScheduleRepository, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// GetAll lists the full weekly schedule
func (s *ScheduleService) GetAll(ctx context.Context) ([]*models.ScheduledBlock, error) {
	blocks, err := s.scheduleRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing schedule: %w", err)
	}
	return blocks, nil
}

// GetByLab lists the weekly schedule of one lab
func (s *ScheduleService) GetByLab(ctx context.Context, lab string) ([]*models.ScheduledBlock, error) {
	blocks, err := s.scheduleRepo.GetByLab(ctx, strings.TrimSpace(lab))
	if err != nil {
		return nil, fmt.Errorf("error listing lab schedule: %w", err)
	}
	return blocks, nil
}

// Import parses an XLSX workbook and atomically replaces the stored schedule.
// Expected header: lab, day, start, end, course, professor (order-free).
func (s *ScheduleService) Import(ctx context.Context, reader io.Reader) (*dto.ImportScheduleResponse, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open workbook", apperrors.ErrValidationFailed)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error reading worksheet: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: workbook has no data rows", apperrors.ErrValidationFailed)
	}

	colIndex := parseScheduleHeader(rows[0])
	for _, col := range []string{"lab", "day", "start", "end", "course", "professor"} {
		if colIndex[col] < 0 {
			return nil, fmt.Errorf("%w: missing column %q in header", apperrors.ErrValidationFailed, col)
		}
	}

	cell := func(row []string, col string) string {
		if idx := colIndex[col]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var blocks []*models.ScheduledBlock
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		lab := cell(row, "lab")
		day := cell(row, "day")
		start := cell(row, "start")
		end := cell(row, "end")
		course := cell(row, "course")
		professor := cell(row, "professor")

		if lab == "" && day == "" && start == "" && end == "" && course == "" && professor == "" {
			continue
		}

		dayOfWeek, err := parseDayOfWeek(day)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", apperrors.ErrValidationFailed, i+1, err)
		}

		if !timeRegex.MatchString(start) || !timeRegex.MatchString(end) || start >= end {
			return nil, fmt.Errorf("%w: row %d: invalid time window %s-%s", apperrors.ErrValidationFailed, i+1, start, end)
		}

		if lab == "" || course == "" {
			return nil, fmt.Errorf("%w: row %d: lab and course are required", apperrors.ErrValidationFailed, i+1)
		}

		blocks = append(blocks, &models.ScheduledBlock{
			Lab:       lab,
			DayOfWeek: dayOfWeek,
			StartTime: start,
			EndTime:   end,
			Course:    course,
			Professor: professor,
		})
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: workbook has no data rows", apperrors.ErrValidationFailed)
	}
	if len(blocks) > maxImportBlocks {
		return nil, fmt.Errorf("%w: workbook exceeds %d rows", apperrors.ErrValidationFailed, maxImportBlocks)
	}

	inserted, err := s.scheduleRepo.ReplaceAll(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("error replacing schedule: %w", err)
	}

	s.logger.Info().Int64("blocks", inserted).Msg("Weekly schedule imported")

	return &dto.ImportScheduleResponse{Inserted: int(inserted)}, nil
}

// parseScheduleHeader maps header labels to column indexes, order-free.
// Accepts English and Portuguese labels.
func parseScheduleHeader(header []string) map[string]int {
	idx := map[string]int{
		"lab": -1, "day": -1, "start": -1, "end": -1, "course": -1, "professor": -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lab", "laboratório", "laboratorio":
			idx["lab"] = i
		case "day", "dia":
			idx["day"] = i
		case "start", "início", "inicio":
			idx["start"] = i
		case "end", "fim", "término", "termino":
			idx["end"] = i
		case "course", "curso", "disciplina":
			idx["course"] = i
		case "professor", "docente":
			idx["professor"] = i
		}
	}
	return idx
}

// parseDayOfWeek accepts 1-7 (Monday=1) or a weekday name in English or
// Portuguese.
func parseDayOfWeek(day string) (int, error) {
	if n, err := strconv.Atoi(day); err == nil {
		if n >= 1 && n <= 7 {
			return n, nil
		}
		return 0, fmt.Errorf("day %d out of range 1-7", n)
	}

	switch strings.ToLower(day) {
	case "monday", "segunda", "segunda-feira":
		return 1, nil
	case "tuesday", "terça", "terca", "terça-feira", "terca-feira":
		return 2, nil
	case "wednesday", "quarta", "quarta-feira":
		return 3, nil
	case "thursday", "quinta", "quinta-feira":
		return 4, nil
	case "friday", "sexta", "sexta-feira":
		return 5, nil
	case "saturday", "sábado", "sabado":
		return 6, nil
	case "sunday", "domingo":
		return 7, nil
	default:
		return 0, fmt.Errorf("unrecognized day %q", day)
	}
}
