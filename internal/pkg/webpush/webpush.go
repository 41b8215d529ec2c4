// Package webpush sends Web Push messages signed with the application VAPID
// key pair.
package webpush

import (
	"context"
	"fmt"

	wp "github.com/SherClockHolmes/webpush-go"

	"github.com/coordenaplus/backend/internal/app/models"
)

// Sender delivers a payload to a single push subscription. It returns the
// transport status code so callers can prune subscriptions the push service
// reports as gone (404/410).
type Sender interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) (statusCode int, err error)
	// PublicKey returns the VAPID public key clients subscribe with
	PublicKey() string
}

// VAPIDConfig holds the application server keys
type VAPIDConfig struct {
	Subject    string // mailto: or https: contact URI
	PublicKey  string
	PrivateKey string
	TTL        int // seconds the push service may retain the message
}

// SenderImpl implements Sender on top of the webpush-go client
type SenderImpl struct {
	config VAPIDConfig
}

// NewSender creates a new Sender
func NewSender(config VAPIDConfig) *SenderImpl {
	return &SenderImpl{config: config}
}

// PublicKey returns the VAPID public key clients need to subscribe
func (s *SenderImpl) PublicKey() string {
	return s.config.PublicKey
}

// Send pushes a payload to one subscription endpoint
func (s *SenderImpl) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) (int, error) {
	resp, err := wp.SendNotificationWithContext(ctx, payload, &wp.Subscription{
		Endpoint: sub.Endpoint,
		Keys: wp.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &wp.Options{
		Subscriber:      s.config.Subject,
		VAPIDPublicKey:  s.config.PublicKey,
		VAPIDPrivateKey: s.config.PrivateKey,
		TTL:             s.config.TTL,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
