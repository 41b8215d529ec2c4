package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/repositories"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
	"github.com/coordenaplus/backend/internal/pkg/notify"
)

// ApprovalService handles the admin review queues: pending accounts and
// pending reservations. Every decision is persisted first and notified after;
// a failed notification never rolls a decision back.
type ApprovalService struct {
	userRepo        repositories.UserRepository
	reservationRepo repositories.ReservationRepository
	dispatcher      notify.Dispatcher
	logger          zerolog.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	userRepo repositories.UserRepository,
	reservationRepo repositories.ReservationRepository,
	dispatcher notify.Dispatcher,
	logger zerolog.Logger,
) *ApprovalService {
	return &ApprovalService{
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

// GetPendingUsers lists accounts awaiting a decision
func (s *ApprovalService) GetPendingUsers(ctx context.Context) ([]dto.UserProfile, error) {
	users, err := s.userRepo.GetPendingUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing pending users: %w", err)
	}

	profiles := make([]dto.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, dto.NewUserProfile(user))
	}

	return profiles, nil
}

// DecideUser approves or rejects a pending account. Deciding an account that
// already carries the requested status is an idempotent no-op overwrite.
func (s *ApprovalService) DecideUser(ctx context.Context, userID int64, approved bool, reason string) (*dto.UserProfile, error) {
	status := models.AccountApproved
	if !approved {
		status = models.AccountRejected
	}

	user, err := s.userRepo.UpdateStatus(ctx, userID, status)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating user status: %w", err)
	}

	s.dispatcher.AccountDecision(user, approved, reason)
	s.logger.Info().Int64("userId", userID).Str("status", string(status)).Msg("Account decision recorded")

	profile := dto.NewUserProfile(user)
	return &profile, nil
}

// GetPendingReservations lists reservations awaiting a decision
func (s *ApprovalService) GetPendingReservations(ctx context.Context) ([]dto.ReservationResponse, error) {
	reservations, err := s.reservationRepo.GetByStatus(ctx, models.ReservationPending)
	if err != nil {
		return nil, fmt.Errorf("error listing pending reservations: %w", err)
	}

	return dto.NewReservationListResponse(reservations), nil
}

// DecideReservation approves or rejects a reservation. Approval runs the
// overlap check against already-approved bookings and fails with
// ErrReservationConflict when the slot is taken.
func (s *ApprovalService) DecideReservation(ctx context.Context, reservationID int64, approved bool, reason string) (*dto.ReservationResponse, error) {
	status := models.ReservationApproved
	if !approved {
		status = models.ReservationRejected
	}

	reservation, err := s.reservationRepo.Decide(ctx, reservationID, status, reason)
	if err != nil {
		if errors.Is(err, apperrors.ErrReservationNotFound) {
			return nil, apperrors.ErrReservationNotFound
		}
		if errors.Is(err, apperrors.ErrReservationConflict) {
			return nil, apperrors.ErrReservationConflict
		}
		return nil, fmt.Errorf("error deciding reservation: %w", err)
	}

	owner, err := s.userRepo.GetByID(ctx, reservation.ResponsibleID)
	if err != nil {
		// Decision is already committed; only the notification is lost.
		s.logger.Warn().Err(err).Int64("reservationId", reservationID).Msg("Could not load reservation owner for notification")
	} else {
		s.dispatcher.ReservationDecision(reservation, owner, approved, reason)
	}

	s.logger.Info().Int64("reservationId", reservationID).Str("status", string(status)).Msg("Reservation decision recorded")

	response := dto.NewReservationResponse(reservation)
	return &response, nil
}
