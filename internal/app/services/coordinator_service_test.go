package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

func setupTestCoordinatorService() (*CoordinatorService, *mockCoordinatorRepo) {
	coordinatorRepo := newMockCoordinatorRepo()
	svc := NewCoordinatorService(coordinatorRepo, zerolog.Nop())
	return svc, coordinatorRepo
}

func TestCreateCoordinator_DefaultsToAbsent(t *testing.T) {
	svc, _ := setupTestCoordinatorService()

	result, err := svc.Create(context.Background(), &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "Marta@professor.estacio.br",
		Course: "Engenharia de Software",
	})

	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if result.Status != string(models.PresenceAbsent) {
		t.Errorf("presence should default to absent, got %q", result.Status)
	}
	if result.Email != "marta@professor.estacio.br" {
		t.Errorf("email should be lowercased, got %q", result.Email)
	}
}

func TestCreateCoordinator_ExplicitPresence(t *testing.T) {
	svc, _ := setupTestCoordinatorService()

	result, err := svc.Create(context.Background(), &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
		Status: "present",
	})

	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if result.Status != string(models.PresencePresent) {
		t.Errorf("expected present, got %q", result.Status)
	}
}

func TestCreateCoordinator_InvalidPresence(t *testing.T) {
	svc, _ := setupTestCoordinatorService()

	_, err := svc.Create(context.Background(), &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
		Status: "away",
	})

	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got: %v", err)
	}
}

func TestCreateCoordinator_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestCoordinatorService()

	req := &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
	}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first Create should succeed: %v", err)
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, apperrors.ErrCoordinatorAlreadyExists) {
		t.Errorf("expected ErrCoordinatorAlreadyExists, got: %v", err)
	}
}

func TestUpdateCoordinator(t *testing.T) {
	svc, repo := setupTestCoordinatorService()
	created, err := svc.Create(context.Background(), &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	result, err := svc.Update(context.Background(), created.ID, &dto.UpdateCoordinatorRequest{
		Name:     "Marta Dias",
		Email:    "marta@professor.estacio.br",
		Course:   "Ciência da Computação",
		Status:   "present",
		Location: "Bloco B, sala 12",
	})

	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if result.Course != "Ciência da Computação" {
		t.Errorf("course not updated, got %q", result.Course)
	}
	if result.Status != string(models.PresencePresent) {
		t.Errorf("presence named in the update should be applied, got %q", result.Status)
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Location != "Bloco B, sala 12" {
		t.Errorf("location not persisted, got %q", stored.Location)
	}
}

func TestUpdateCoordinator_NotFound(t *testing.T) {
	svc, _ := setupTestCoordinatorService()

	_, err := svc.Update(context.Background(), 9999, &dto.UpdateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
	})

	if !errors.Is(err, apperrors.ErrCoordinatorNotFound) {
		t.Errorf("expected ErrCoordinatorNotFound, got: %v", err)
	}
}

func TestUpdatePresence(t *testing.T) {
	svc, _ := setupTestCoordinatorService()
	created, err := svc.Create(context.Background(), &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	result, err := svc.UpdatePresence(context.Background(), created.ID, models.PresencePresent)
	if err != nil {
		t.Fatalf("UpdatePresence should succeed: %v", err)
	}
	if result.Status != string(models.PresencePresent) {
		t.Errorf("expected present, got %q", result.Status)
	}

	_, err = svc.UpdatePresence(context.Background(), 9999, models.PresencePresent)
	if !errors.Is(err, apperrors.ErrCoordinatorNotFound) {
		t.Errorf("expected ErrCoordinatorNotFound, got: %v", err)
	}
}

func TestDeleteCoordinator(t *testing.T) {
	svc, _ := setupTestCoordinatorService()
	created, err := svc.Create(context.Background(), &dto.CreateCoordinatorRequest{
		Name:   "Marta Dias",
		Email:  "marta@professor.estacio.br",
		Course: "Engenharia de Software",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, apperrors.ErrCoordinatorNotFound) {
		t.Error("coordinator should be gone after delete")
	}

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, apperrors.ErrCoordinatorNotFound) {
		t.Errorf("expected ErrCoordinatorNotFound, got: %v", err)
	}
}
