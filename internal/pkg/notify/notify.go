// Package notify dispatches best-effort notifications for approval-state
// transitions. Delivery runs detached from the triggering request: a failed
// push or email is logged and never propagated back to the caller.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/pkg/email"
	"github.com/coordenaplus/backend/internal/pkg/webpush"
)

// dispatchTimeout bounds one fan-out run, detached from the request context.
const dispatchTimeout = 30 * time.Second

// SubscriptionStore is the subset of the subscription repository the
// dispatcher needs to fan out pushes and prune dead endpoints.
type SubscriptionStore interface {
	GetByUserIDs(ctx context.Context, userIDs []int64) ([]*models.PushSubscription, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Dispatcher emits notifications for state transitions. Implementations must
// be safe for concurrent use and must never block the caller on delivery.
type Dispatcher interface {
	// RegistrationRequest tells approved admins a new account awaits review.
	RegistrationRequest(newUser *models.User, adminIDs []int64)
	// AccountDecision tells a user their registration was approved/rejected.
	AccountDecision(user *models.User, approved bool, reason string)
	// ReservationDecision tells the responsible party about a booking decision.
	ReservationDecision(reservation *models.Reservation, owner *models.User, approved bool, reason string)
}

// pushPayload is the JSON document delivered to the service worker
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Data  struct {
		URL string `json:"url"`
	} `json:"data"`
}

// DispatcherImpl implements Dispatcher over Web Push and SMTP
type DispatcherImpl struct {
	subs   SubscriptionStore
	pusher webpush.Sender
	mailer email.EmailService
	logger zerolog.Logger
}

// NewDispatcher creates a new DispatcherImpl
func NewDispatcher(subs SubscriptionStore, pusher webpush.Sender, mailer email.EmailService, logger zerolog.Logger) *DispatcherImpl {
	return &DispatcherImpl{
		subs:   subs,
		pusher: pusher,
		mailer: mailer,
		logger: logger,
	}
}

// RegistrationRequest pushes a review prompt to every approved admin
func (d *DispatcherImpl) RegistrationRequest(newUser *models.User, adminIDs []int64) {
	name := newUser.Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		d.push(ctx, adminIDs, "Nova solicitação de cadastro", name+" solicitou acesso.", "/pages/admin.html")
	}()
}

// AccountDecision pushes and emails the registration outcome to the user
func (d *DispatcherImpl) AccountDecision(user *models.User, approved bool, reason string) {
	u := *user
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		title := "Cadastro aprovado"
		body := "Sua conta foi aprovada. Bem-vindo ao Coordena+!"
		if !approved {
			title = "Cadastro rejeitado"
			body = "Sua solicitação de cadastro foi rejeitada."
		}
		d.push(ctx, []int64{u.ID}, title, body, "/pages/login.html")

		if err := d.mailer.SendAccountDecision(u.Email, u.Name, approved, reason); err != nil {
			d.logger.Warn().Err(err).Str("email", u.Email).Msg("Failed to send account decision email")
		}
	}()
}

// ReservationDecision pushes and emails the booking outcome to the owner
func (d *DispatcherImpl) ReservationDecision(reservation *models.Reservation, owner *models.User, approved bool, reason string) {
	r := *reservation
	u := *owner
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		title := "Reserva aprovada"
		body := "Sua reserva de " + r.Resource + " em " + r.Date + " às " + r.StartTime + " foi aprovada."
		if !approved {
			title = "Reserva rejeitada"
			body = "Sua reserva de " + r.Resource + " em " + r.Date + " às " + r.StartTime + " foi rejeitada."
		}
		d.push(ctx, []int64{u.ID}, title, body, "/pages/reservas.html")

		if err := d.mailer.SendReservationDecision(u.Email, u.Name, r.Resource, r.Date, r.StartTime, approved, reason); err != nil {
			d.logger.Warn().Err(err).Str("email", u.Email).Msg("Failed to send reservation decision email")
		}
	}()
}

// push fans a payload out to every subscription of the given users. A
// transport status of 404/410 means the endpoint is gone and the stored
// subscription is deleted; any other failure is logged and ignored.
func (d *DispatcherImpl) push(ctx context.Context, userIDs []int64, title, body, url string) {
	if len(userIDs) == 0 {
		return
	}

	subs, err := d.subs.GetByUserIDs(ctx, userIDs)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to load push subscriptions for dispatch")
		return
	}

	p := pushPayload{Title: title, Body: body}
	p.Data.URL = url
	payload, err := json.Marshal(p)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to marshal push payload")
		return
	}

	for _, sub := range subs {
		status, err := d.pusher.Send(ctx, sub, payload)
		if err != nil {
			d.logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("Push delivery failed")
			continue
		}

		if status == http.StatusNotFound || status == http.StatusGone {
			if err := d.subs.DeleteByID(ctx, sub.ID); err != nil {
				d.logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("Failed to remove stale push subscription")
			} else {
				d.logger.Info().Str("endpoint", sub.Endpoint).Int("status", status).Msg("Removed stale push subscription")
			}
			continue
		}

		if status >= 400 {
			d.logger.Warn().Int("status", status).Str("endpoint", sub.Endpoint).Msg("Push service rejected notification")
		}
	}
}
