package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/repositories"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ReservationService handles booking operations. Every new booking enters the
// pending state and waits for an admin or professor decision.
type ReservationService struct {
	reservationRepo repositories.ReservationRepository
	logger          zerolog.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(reservationRepo repositories.ReservationRepository, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// validateSlot checks the date and time window of a booking request
func (s *ReservationService) validateSlot(date, start, end string) error {
	if !dateRegex.MatchString(date) {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", apperrors.ErrValidationFailed)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: invalid date", apperrors.ErrValidationFailed)
	}
	if !timeRegex.MatchString(start) || !timeRegex.MatchString(end) {
		return fmt.Errorf("%w: times must be in HH:MM format", apperrors.ErrValidationFailed)
	}
	if start >= end {
		return fmt.Errorf("%w: start time must be before end time", apperrors.ErrValidationFailed)
	}
	return nil
}

// canManage reports whether the caller may modify a reservation: the owner
// always can, admins and professors can manage anyone's.
func canManage(reservation *models.Reservation, callerID int64, callerRole string) bool {
	if reservation.ResponsibleID == callerID {
		return true
	}
	return callerRole == string(models.RoleAdmin) || callerRole == string(models.RoleProfessor)
}

// Create records a new pending reservation. Booking is restricted to
// professors and admins; the responsible party is stamped from the
// authenticated caller. The slot is not checked for conflicts here,
// overlaps surface when an admin tries to approve.
func (s *ReservationService) Create(ctx context.Context, req *dto.CreateReservationRequest, callerID int64, callerName, callerRole string) (*dto.ReservationResponse, error) {
	if callerRole != string(models.RoleAdmin) && callerRole != string(models.RoleProfessor) {
		return nil, apperrors.NewForbiddenError("only professors and admins can create reservations")
	}

	if err := s.validateSlot(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		Date:          req.Date,
		StartTime:     req.Start,
		EndTime:       req.End,
		Resource:      req.Resource,
		Responsible:   callerName,
		ResponsibleID: callerID,
		Department:    req.Department,
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.ReservationPending,
	}

	id, err := s.reservationRepo.Create(ctx, reservation)
	if err != nil {
		return nil, fmt.Errorf("error creating reservation: %w", err)
	}
	reservation.ID = id

	s.logger.Info().Int64("reservationId", id).Str("resource", reservation.Resource).Msg("Reservation created, awaiting approval")

	response := dto.NewReservationResponse(reservation)
	return &response, nil
}

// GetApproved lists the approved calendar visible to every authenticated user
func (s *ReservationService) GetApproved(ctx context.Context) ([]dto.ReservationResponse, error) {
	reservations, err := s.reservationRepo.GetByStatus(ctx, models.ReservationApproved)
	if err != nil {
		return nil, fmt.Errorf("error listing approved reservations: %w", err)
	}

	return dto.NewReservationListResponse(reservations), nil
}

// GetOwn lists every reservation of the caller regardless of status
func (s *ReservationService) GetOwn(ctx context.Context, callerID int64) ([]dto.ReservationResponse, error) {
	reservations, err := s.reservationRepo.GetByResponsibleID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("error listing own reservations: %w", err)
	}

	return dto.NewReservationListResponse(reservations), nil
}

// GetByID retrieves a single reservation
func (s *ReservationService) GetByID(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrReservationNotFound) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}

	response := dto.NewReservationResponse(reservation)
	return &response, nil
}

// Update rewrites a reservation and resets it to pending so the changed slot
// goes through review again. Only the owner or a privileged role may update.
func (s *ReservationService) Update(ctx context.Context, id int64, req *dto.UpdateReservationRequest, callerID int64, callerRole string) (*dto.ReservationResponse, error) {
	if err := s.validateSlot(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrReservationNotFound) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}

	if !canManage(reservation, callerID, callerRole) {
		return nil, apperrors.NewForbiddenError("you can only modify your own reservations")
	}

	reservation.Date = req.Date
	reservation.StartTime = req.Start
	reservation.EndTime = req.End
	reservation.Resource = req.Resource
	reservation.Department = req.Department
	reservation.Title = req.Title
	reservation.Description = req.Description
	reservation.Status = models.ReservationPending
	reservation.RejectionReason = ""

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("error updating reservation: %w", err)
	}

	s.logger.Info().Int64("reservationId", id).Msg("Reservation updated, back to pending review")

	response := dto.NewReservationResponse(reservation)
	return &response, nil
}

// Delete removes a reservation. Only the owner or a privileged role may delete.
func (s *ReservationService) Delete(ctx context.Context, id int64, callerID int64, callerRole string) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrReservationNotFound) {
			return apperrors.ErrReservationNotFound
		}
		return fmt.Errorf("error getting reservation: %w", err)
	}

	if !canManage(reservation, callerID, callerRole) {
		return apperrors.NewForbiddenError("you can only delete your own reservations")
	}

	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}

	s.logger.Info().Int64("reservationId", id).Msg("Reservation deleted")

	return nil
}
