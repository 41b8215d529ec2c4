package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/repositories"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

// CoordinatorService handles the course coordinator directory
type CoordinatorService struct {
	coordinatorRepo repositories.CoordinatorRepository
	logger          zerolog.Logger
}

// NewCoordinatorService creates a new CoordinatorService
func NewCoordinatorService(coordinatorRepo repositories.CoordinatorRepository, logger zerolog.Logger) *CoordinatorService {
	return &CoordinatorService{
		coordinatorRepo: coordinatorRepo,
		logger:          logger,
	}
}

// GetAll lists every coordinator
func (s *CoordinatorService) GetAll(ctx context.Context) ([]dto.CoordinatorResponse, error) {
	coordinators, err := s.coordinatorRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing coordinators: %w", err)
	}

	out := make([]dto.CoordinatorResponse, 0, len(coordinators))
	for _, c := range coordinators {
		out = append(out, dto.NewCoordinatorResponse(c))
	}

	return out, nil
}

// GetByID retrieves a coordinator
func (s *CoordinatorService) GetByID(ctx context.Context, id int64) (*dto.CoordinatorResponse, error) {
	coordinator, err := s.coordinatorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCoordinatorNotFound) {
			return nil, apperrors.ErrCoordinatorNotFound
		}
		return nil, fmt.Errorf("error getting coordinator: %w", err)
	}

	response := dto.NewCoordinatorResponse(coordinator)
	return &response, nil
}

// parsePresence maps an optional status string to a PresenceStatus,
// defaulting to absent until the coordinator marks themselves present.
func parsePresence(status string) (models.PresenceStatus, error) {
	switch status {
	case "":
		return models.PresenceAbsent, nil
	case string(models.PresencePresent):
		return models.PresencePresent, nil
	case string(models.PresenceAbsent):
		return models.PresenceAbsent, nil
	default:
		return "", fmt.Errorf("%w: status must be present or absent", apperrors.ErrValidationFailed)
	}
}

// Create registers a new coordinator
func (s *CoordinatorService) Create(ctx context.Context, req *dto.CreateCoordinatorRequest) (*dto.CoordinatorResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Course) == "" {
		return nil, fmt.Errorf("%w: name and course are required", apperrors.ErrValidationFailed)
	}

	status, err := parsePresence(req.Status)
	if err != nil {
		return nil, err
	}

	coordinator := &models.Coordinator{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Course:      strings.TrimSpace(req.Course),
		Status:      status,
		Photo:       req.Photo,
		OfficeHours: req.OfficeHours,
		Location:    req.Location,
	}

	id, err := s.coordinatorRepo.Create(ctx, coordinator)
	if err != nil {
		if errors.Is(err, apperrors.ErrCoordinatorAlreadyExists) {
			return nil, apperrors.ErrCoordinatorAlreadyExists
		}
		return nil, fmt.Errorf("error creating coordinator: %w", err)
	}
	coordinator.ID = id

	s.logger.Info().Int64("coordinatorId", id).Str("course", coordinator.Course).Msg("Coordinator created")

	response := dto.NewCoordinatorResponse(coordinator)
	return &response, nil
}

// Update rewrites a coordinator profile
func (s *CoordinatorService) Update(ctx context.Context, id int64, req *dto.UpdateCoordinatorRequest) (*dto.CoordinatorResponse, error) {
	coordinator, err := s.coordinatorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCoordinatorNotFound) {
			return nil, apperrors.ErrCoordinatorNotFound
		}
		return nil, fmt.Errorf("error getting coordinator: %w", err)
	}

	coordinator.Name = strings.TrimSpace(req.Name)
	coordinator.Email = strings.ToLower(strings.TrimSpace(req.Email))
	coordinator.Course = strings.TrimSpace(req.Course)
	coordinator.Photo = req.Photo
	coordinator.OfficeHours = req.OfficeHours
	coordinator.Location = req.Location

	if err := s.coordinatorRepo.Update(ctx, coordinator); err != nil {
		if errors.Is(err, apperrors.ErrCoordinatorAlreadyExists) {
			return nil, apperrors.ErrCoordinatorAlreadyExists
		}
		return nil, fmt.Errorf("error updating coordinator: %w", err)
	}

	// Presence rides along when the update names one
	if req.Status != "" {
		status, err := parsePresence(req.Status)
		if err != nil {
			return nil, err
		}
		if status != coordinator.Status {
			updated, err := s.coordinatorRepo.UpdateStatus(ctx, id, status)
			if err != nil {
				return nil, fmt.Errorf("error updating coordinator presence: %w", err)
			}
			coordinator = updated
		}
	}

	response := dto.NewCoordinatorResponse(coordinator)
	return &response, nil
}

// UpdatePresence flips the present/absent flag shown on the directory
func (s *CoordinatorService) UpdatePresence(ctx context.Context, id int64, status models.PresenceStatus) (*dto.CoordinatorResponse, error) {
	coordinator, err := s.coordinatorRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, apperrors.ErrCoordinatorNotFound) {
			return nil, apperrors.ErrCoordinatorNotFound
		}
		return nil, fmt.Errorf("error updating coordinator presence: %w", err)
	}

	response := dto.NewCoordinatorResponse(coordinator)
	return &response, nil
}

// Delete removes a coordinator from the directory
func (s *CoordinatorService) Delete(ctx context.Context, id int64) error {
	if err := s.coordinatorRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCoordinatorNotFound) {
			return apperrors.ErrCoordinatorNotFound
		}
		return fmt.Errorf("error deleting coordinator: %w", err)
	}

	s.logger.Info().Int64("coordinatorId", id).Msg("Coordinator deleted")

	return nil
}
