// Package models defines the entities persisted by the Coordena+ backend.
package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleProfessor RoleType = "professor"
	RoleAdmin     RoleType = "admin"
)

// AccountStatus governs whether a user may authenticate
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountApproved AccountStatus = "approved"
	AccountRejected AccountStatus = "rejected"
)

// ReservationStatus is the approval state of a booking request
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationApproved ReservationStatus = "approved"
	ReservationRejected ReservationStatus = "rejected"
)

// PresenceStatus is the office-presence state of a coordinator
type PresenceStatus string

const (
	PresencePresent PresenceStatus = "present"
	PresenceAbsent  PresenceStatus = "absent"
)
