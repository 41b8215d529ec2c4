package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         UserRepository
	TokenRepository        TokenRepository
	ReservationRepository  ReservationRepository
	SubscriptionRepository SubscriptionRepository
	CoordinatorRepository  CoordinatorRepository
	ScheduleRepository     ScheduleRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		SubscriptionRepository: NewSubscriptionRepository(db),
		CoordinatorRepository:  NewCoordinatorRepository(db),
		ScheduleRepository:     NewScheduleRepository(db),
	}
}
