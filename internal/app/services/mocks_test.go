package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
)

// In-memory repository fakes shared by the service tests. They mirror the
// behavior of the Postgres implementations closely enough that the services
// cannot tell the difference for the paths under test.

type mockUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := m.nextID
	m.nextID++
	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.users[id] = &stored
	return id, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) GetPendingUsers(_ context.Context) ([]*models.User, error) {
	var pending []*models.User
	for _, u := range m.users {
		if u.Status == models.AccountPending {
			copied := *u
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id int64, status models.AccountStatus) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetApprovedAdminIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for _, u := range m.users {
		if u.Role == models.RoleAdmin && u.Status == models.AccountApproved {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type mockTokenRepo struct {
	tokens map[string]*models.RefreshToken
	nextID int64
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*models.RefreshToken), nextID: 1}
}

func (m *mockTokenRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	token.ID = m.nextID
	m.nextID++
	token.CreatedAt = time.Now()
	stored := *token
	m.tokens[token.Token] = &stored
	return nil
}

func (m *mockTokenRepo) GetRefreshTokenByValue(_ context.Context, tokenValue string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[tokenValue]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

func (m *mockTokenRepo) RevokeRefreshToken(_ context.Context, tokenValue string) error {
	t, ok := m.tokens[tokenValue]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.Revoked = true
	return nil
}

func (m *mockTokenRepo) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (m *mockTokenRepo) CleanupExpiredTokens(_ context.Context) (int64, error) {
	var removed int64
	for value, t := range m.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(m.tokens, value)
			removed++
		}
	}
	return removed, nil
}

type mockReservationRepo struct {
	reservations map[int64]*models.Reservation
	nextID       int64
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[int64]*models.Reservation), nextID: 1}
}

func (m *mockReservationRepo) Create(_ context.Context, reservation *models.Reservation) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *reservation
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.reservations[id] = &stored
	return id, nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id int64) (*models.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperrors.ErrReservationNotFound
}

func (m *mockReservationRepo) GetByStatus(_ context.Context, status models.ReservationStatus) ([]*models.Reservation, error) {
	var result []*models.Reservation
	for _, r := range m.reservations {
		if r.Status == status {
			copied := *r
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockReservationRepo) GetByResponsibleID(_ context.Context, userID int64) ([]*models.Reservation, error) {
	var result []*models.Reservation
	for _, r := range m.reservations {
		if r.ResponsibleID == userID {
			copied := *r
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockReservationRepo) Update(_ context.Context, reservation *models.Reservation) error {
	stored, ok := m.reservations[reservation.ID]
	if !ok {
		return apperrors.ErrReservationNotFound
	}
	stored.Date = reservation.Date
	stored.StartTime = reservation.StartTime
	stored.EndTime = reservation.EndTime
	stored.Resource = reservation.Resource
	stored.Department = reservation.Department
	stored.Title = reservation.Title
	stored.Description = reservation.Description
	stored.Status = reservation.Status
	stored.RejectionReason = reservation.RejectionReason
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *mockReservationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.reservations[id]; !ok {
		return apperrors.ErrReservationNotFound
	}
	delete(m.reservations, id)
	return nil
}

// Decide mirrors the transactional repository: approval runs the half-open
// interval overlap check against other approved bookings of the same
// resource and date.
func (m *mockReservationRepo) Decide(_ context.Context, id int64, status models.ReservationStatus, reason string) (*models.Reservation, error) {
	current, ok := m.reservations[id]
	if !ok {
		return nil, apperrors.ErrReservationNotFound
	}

	if status == models.ReservationApproved {
		for _, other := range m.reservations {
			if other.ID == id || other.Status != models.ReservationApproved {
				continue
			}
			if other.Resource != current.Resource || other.Date != current.Date {
				continue
			}
			if other.StartTime < current.EndTime && other.EndTime > current.StartTime {
				return nil, apperrors.ErrReservationConflict
			}
		}
	}

	current.Status = status
	current.RejectionReason = reason
	current.UpdatedAt = time.Now()
	copied := *current
	return &copied, nil
}

type mockCoordinatorRepo struct {
	coordinators map[int64]*models.Coordinator
	nextID       int64
}

func newMockCoordinatorRepo() *mockCoordinatorRepo {
	return &mockCoordinatorRepo{coordinators: make(map[int64]*models.Coordinator), nextID: 1}
}

func (m *mockCoordinatorRepo) GetAll(_ context.Context) ([]*models.Coordinator, error) {
	var result []*models.Coordinator
	for _, c := range m.coordinators {
		copied := *c
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCoordinatorRepo) GetByID(_ context.Context, id int64) (*models.Coordinator, error) {
	if c, ok := m.coordinators[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperrors.ErrCoordinatorNotFound
}

func (m *mockCoordinatorRepo) Create(_ context.Context, coordinator *models.Coordinator) (int64, error) {
	for _, c := range m.coordinators {
		if c.Email == coordinator.Email {
			return 0, apperrors.ErrCoordinatorAlreadyExists
		}
	}
	id := m.nextID
	m.nextID++
	stored := *coordinator
	stored.ID = id
	m.coordinators[id] = &stored
	return id, nil
}

func (m *mockCoordinatorRepo) Update(_ context.Context, coordinator *models.Coordinator) error {
	stored, ok := m.coordinators[coordinator.ID]
	if !ok {
		return apperrors.ErrCoordinatorNotFound
	}
	for _, c := range m.coordinators {
		if c.ID != coordinator.ID && c.Email == coordinator.Email {
			return apperrors.ErrCoordinatorAlreadyExists
		}
	}
	status := stored.Status
	*stored = *coordinator
	stored.Status = status
	return nil
}

func (m *mockCoordinatorRepo) UpdateStatus(_ context.Context, id int64, status models.PresenceStatus) (*models.Coordinator, error) {
	c, ok := m.coordinators[id]
	if !ok {
		return nil, apperrors.ErrCoordinatorNotFound
	}
	c.Status = status
	copied := *c
	return &copied, nil
}

func (m *mockCoordinatorRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.coordinators[id]; !ok {
		return apperrors.ErrCoordinatorNotFound
	}
	delete(m.coordinators, id)
	return nil
}

type mockSubscriptionRepo struct {
	byEndpoint map[string]*models.PushSubscription
	nextID     int64
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{byEndpoint: make(map[string]*models.PushSubscription), nextID: 1}
}

func (m *mockSubscriptionRepo) Upsert(_ context.Context, sub *models.PushSubscription) error {
	if existing, ok := m.byEndpoint[sub.Endpoint]; ok {
		existing.P256dh = sub.P256dh
		existing.Auth = sub.Auth
		existing.UserID = sub.UserID
		return nil
	}
	stored := *sub
	stored.ID = m.nextID
	m.nextID++
	m.byEndpoint[sub.Endpoint] = &stored
	return nil
}

func (m *mockSubscriptionRepo) GetByUserIDs(_ context.Context, userIDs []int64) ([]*models.PushSubscription, error) {
	var result []*models.PushSubscription
	for _, sub := range m.byEndpoint {
		for _, id := range userIDs {
			if sub.UserID == id {
				copied := *sub
				result = append(result, &copied)
			}
		}
	}
	return result, nil
}

func (m *mockSubscriptionRepo) DeleteByID(_ context.Context, id int64) error {
	for endpoint, sub := range m.byEndpoint {
		if sub.ID == id {
			delete(m.byEndpoint, endpoint)
			return nil
		}
	}
	return nil
}

func (m *mockSubscriptionRepo) DeleteByEndpoint(_ context.Context, endpoint string, userID int64) error {
	sub, ok := m.byEndpoint[endpoint]
	if !ok || sub.UserID != userID {
		return apperrors.ErrSubscriptionNotFound
	}
	delete(m.byEndpoint, endpoint)
	return nil
}

type mockScheduleRepo struct {
	blocks []*models.ScheduledBlock
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{}
}

func (m *mockScheduleRepo) GetAll(_ context.Context) ([]*models.ScheduledBlock, error) {
	return m.blocks, nil
}

func (m *mockScheduleRepo) GetByLab(_ context.Context, lab string) ([]*models.ScheduledBlock, error) {
	var result []*models.ScheduledBlock
	for _, b := range m.blocks {
		if b.Lab == lab {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ReplaceAll(_ context.Context, blocks []*models.ScheduledBlock) (int64, error) {
	m.blocks = blocks
	for i, b := range m.blocks {
		b.ID = int64(i + 1)
	}
	return int64(len(blocks)), nil
}

// mockDispatcher records notification calls. The services invoke the
// dispatcher synchronously, the mutex only guards against tests that poke at
// the records from helper goroutines.
type mockDispatcher struct {
	mu sync.Mutex

	registrationRequests []registrationCall
	accountDecisions     []accountDecisionCall
	reservationDecisions []reservationDecisionCall
}

type registrationCall struct {
	user     *models.User
	adminIDs []int64
}

type accountDecisionCall struct {
	user     *models.User
	approved bool
	reason   string
}

type reservationDecisionCall struct {
	reservation *models.Reservation
	owner       *models.User
	approved    bool
	reason      string
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{}
}

func (m *mockDispatcher) RegistrationRequest(newUser *models.User, adminIDs []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrationRequests = append(m.registrationRequests, registrationCall{user: newUser, adminIDs: adminIDs})
}

func (m *mockDispatcher) AccountDecision(user *models.User, approved bool, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountDecisions = append(m.accountDecisions, accountDecisionCall{user: user, approved: approved, reason: reason})
}

func (m *mockDispatcher) ReservationDecision(reservation *models.Reservation, owner *models.User, approved bool, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservationDecisions = append(m.reservationDecisions, reservationDecisionCall{
		reservation: reservation,
		owner:       owner,
		approved:    approved,
		reason:      reason,
	})
}
