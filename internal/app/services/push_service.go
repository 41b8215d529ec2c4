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
	"github.com/coordenaplus/backend/internal/pkg/webpush"
)

// PushService manages browser push subscriptions
type PushService struct {
	subscriptionRepo repositories.SubscriptionRepository
	sender           webpush.Sender
	logger           zerolog.Logger
}

// NewPushService creates a new PushService
func NewPushService(subscriptionRepo repositories.SubscriptionRepository, sender webpush.Sender, logger zerolog.Logger) *PushService {
	return &PushService{
		subscriptionRepo: subscriptionRepo,
		sender:           sender,
		logger:           logger,
	}
}

// PublicKey returns the VAPID public key clients subscribe with
func (s *PushService) PublicKey() dto.PublicKeyResponse {
	return dto.PublicKeyResponse{PublicKey: s.sender.PublicKey()}
}

// Subscribe stores the caller's browser subscription. Re-subscribing the
// same endpoint rebinds it, so a shared machine follows the active account.
func (s *PushService) Subscribe(ctx context.Context, userID int64, req *dto.SubscribeRequest) error {
	sub := &models.PushSubscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
		UserID:   userID,
	}

	if err := s.subscriptionRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("error storing subscription: %w", err)
	}

	s.logger.Debug().Int64("userId", userID).Msg("Push subscription registered")

	return nil
}

// Unsubscribe removes the caller's subscription for an endpoint
func (s *PushService) Unsubscribe(ctx context.Context, userID int64, endpoint string) error {
	err := s.subscriptionRepo.DeleteByEndpoint(ctx, endpoint, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSubscriptionNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return fmt.Errorf("error removing subscription: %w", err)
	}

	return nil
}
