package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
)

// The dispatcher delivers from detached goroutines, so the mocks report every
// action on an event channel and the tests wait on it instead of sleeping.

type mockSubStore struct {
	mu      sync.Mutex
	subs    map[int64][]*models.PushSubscription
	deleted []int64
	events  chan string
}

func (m *mockSubStore) GetByUserIDs(_ context.Context, userIDs []int64) ([]*models.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.PushSubscription
	for _, id := range userIDs {
		result = append(result, m.subs[id]...)
	}
	m.events <- "load"
	return result, nil
}

func (m *mockSubStore) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	m.events <- "delete"
	return nil
}

type sentPush struct {
	endpoint string
	payload  []byte
}

type mockSender struct {
	mu               sync.Mutex
	statusByEndpoint map[string]int
	failEndpoints    map[string]bool
	sent             []sentPush
	events           chan string
}

func (m *mockSender) Send(_ context.Context, sub *models.PushSubscription, payload []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEndpoints[sub.Endpoint] {
		m.events <- "send-error"
		return 0, errors.New("push transport down")
	}
	m.sent = append(m.sent, sentPush{endpoint: sub.Endpoint, payload: payload})
	m.events <- "send"
	status := m.statusByEndpoint[sub.Endpoint]
	if status == 0 {
		status = http.StatusCreated
	}
	return status, nil
}

func (m *mockSender) PublicKey() string {
	return "test-vapid-public-key"
}

type mailRecord struct {
	toEmail  string
	approved bool
	reason   string
	resource string
}

type mockMailer struct {
	mu     sync.Mutex
	mails  []mailRecord
	events chan string
}

func (m *mockMailer) SendAccountDecision(toEmail, _ string, approved bool, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, mailRecord{toEmail: toEmail, approved: approved, reason: reason})
	m.events <- "mail"
	return nil
}

func (m *mockMailer) SendReservationDecision(toEmail, _, resource, _, _ string, approved bool, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, mailRecord{toEmail: toEmail, approved: approved, reason: reason, resource: resource})
	m.events <- "mail"
	return nil
}

func setupTestDispatcher() (*DispatcherImpl, *mockSubStore, *mockSender, *mockMailer, chan string) {
	events := make(chan string, 64)
	store := &mockSubStore{subs: make(map[int64][]*models.PushSubscription), events: events}
	sender := &mockSender{
		statusByEndpoint: make(map[string]int),
		failEndpoints:    make(map[string]bool),
		events:           events,
	}
	mailer := &mockMailer{events: events}
	d := NewDispatcher(store, sender, mailer, zerolog.Nop())
	return d, store, sender, mailer, events
}

// waitEvents blocks until n events arrived or the test times out
func waitEvents(t *testing.T, events <-chan string, n int) []string {
	t.Helper()
	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case e := <-events:
			got = append(got, e)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", got)
		}
	}
	return got
}

// assertNoEvent fails when another event shows up shortly after
func assertNoEvent(t *testing.T, events <-chan string) {
	t.Helper()
	select {
	case e := <-events:
		t.Fatalf("unexpected event %q", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func subscription(id, userID int64, endpoint string) *models.PushSubscription {
	return &models.PushSubscription{ID: id, UserID: userID, Endpoint: endpoint, P256dh: "key", Auth: "secret"}
}

func TestRegistrationRequest_FansOutToAdmins(t *testing.T) {
	d, store, sender, _, events := setupTestDispatcher()
	store.subs[1] = []*models.PushSubscription{
		subscription(10, 1, "https://push.example/admin1-a"),
		subscription(11, 1, "https://push.example/admin1-b"),
	}
	store.subs[2] = []*models.PushSubscription{
		subscription(12, 2, "https://push.example/admin2"),
	}

	newUser := &models.User{ID: 5, Name: "Ana Souza", Email: "ana@alunos.estacio.br"}
	d.RegistrationRequest(newUser, []int64{1, 2})

	waitEvents(t, events, 4) // load + 3 sends

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 3 {
		t.Fatalf("expected 3 pushes, got %d", len(sender.sent))
	}

	var payload pushPayload
	if err := json.Unmarshal(sender.sent[0].payload, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Title != "Nova solicitação de cadastro" {
		t.Errorf("unexpected title %q", payload.Title)
	}
	if !strings.Contains(payload.Body, "Ana Souza") {
		t.Errorf("body should name the applicant, got %q", payload.Body)
	}
}

func TestRegistrationRequest_NoAdmins(t *testing.T) {
	d, _, _, _, events := setupTestDispatcher()

	d.RegistrationRequest(&models.User{ID: 5, Name: "Ana Souza"}, nil)

	// Without target users the store must not even be queried
	assertNoEvent(t, events)
}

func TestAccountDecision_PushAndEmail(t *testing.T) {
	d, store, _, mailer, events := setupTestDispatcher()
	store.subs[5] = []*models.PushSubscription{subscription(20, 5, "https://push.example/user5")}

	user := &models.User{ID: 5, Name: "Ana Souza", Email: "ana@alunos.estacio.br"}
	d.AccountDecision(user, false, "documento inválido")

	waitEvents(t, events, 3) // load + send + mail

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.mails) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.mails))
	}
	mail := mailer.mails[0]
	if mail.toEmail != "ana@alunos.estacio.br" || mail.approved || mail.reason != "documento inválido" {
		t.Errorf("email carried wrong decision: %+v", mail)
	}
}

func TestReservationDecision_PayloadNamesSlot(t *testing.T) {
	d, store, sender, mailer, events := setupTestDispatcher()
	store.subs[7] = []*models.PushSubscription{subscription(30, 7, "https://push.example/user7")}

	reservation := &models.Reservation{
		ID: 3, Date: "2026-09-10", StartTime: "08:00", EndTime: "10:00",
		Resource: "Lab 101", ResponsibleID: 7,
	}
	owner := &models.User{ID: 7, Name: "Ana Souza", Email: "ana@alunos.estacio.br"}
	d.ReservationDecision(reservation, owner, true, "")

	waitEvents(t, events, 3) // load + send + mail

	sender.mu.Lock()
	var payload pushPayload
	_ = json.Unmarshal(sender.sent[0].payload, &payload)
	sender.mu.Unlock()

	if payload.Title != "Reserva aprovada" {
		t.Errorf("unexpected title %q", payload.Title)
	}
	if !strings.Contains(payload.Body, "Lab 101") || !strings.Contains(payload.Body, "2026-09-10") {
		t.Errorf("body should name the booked slot, got %q", payload.Body)
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.mails) != 1 || mailer.mails[0].resource != "Lab 101" {
		t.Error("email should carry the reservation resource")
	}
}

func TestPush_PrunesGoneEndpoints(t *testing.T) {
	d, store, sender, _, events := setupTestDispatcher()
	store.subs[5] = []*models.PushSubscription{
		subscription(20, 5, "https://push.example/alive"),
		subscription(21, 5, "https://push.example/gone"),
	}
	sender.statusByEndpoint["https://push.example/gone"] = http.StatusGone

	d.AccountDecision(&models.User{ID: 5, Name: "Ana Souza", Email: "ana@alunos.estacio.br"}, true, "")

	waitEvents(t, events, 5) // load + 2 sends + delete + mail

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.deleted) != 1 || store.deleted[0] != 21 {
		t.Errorf("expected subscription 21 pruned, got %v", store.deleted)
	}
}

func TestPush_TransportErrorKeepsSubscription(t *testing.T) {
	d, store, sender, _, events := setupTestDispatcher()
	store.subs[5] = []*models.PushSubscription{subscription(20, 5, "https://push.example/flaky")}
	sender.failEndpoints["https://push.example/flaky"] = true

	d.AccountDecision(&models.User{ID: 5, Name: "Ana Souza", Email: "ana@alunos.estacio.br"}, true, "")

	waitEvents(t, events, 3) // load + send-error + mail

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.deleted) != 0 {
		t.Errorf("a transport error must not prune the subscription, deleted: %v", store.deleted)
	}
}
