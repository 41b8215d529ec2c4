package models

import "time"

// Reservation defines a lab booking request based on the 'reservations' table.
// Requests are created as 'pending'; an admin or professor decision moves them
// to 'approved' or 'rejected'. The overlap invariant (no two approved
// reservations for the same resource and time window) is enforced when the
// decision is made, not at creation.
type Reservation struct {
	ID              int64             `json:"id" db:"id"`
	Date            string            `json:"date" db:"date" example:"2025-06-01"`      // Booking day, YYYY-MM-DD
	StartTime       string            `json:"start" db:"start_time" example:"10:00"`    // Inclusive start, HH:MM
	EndTime         string            `json:"end" db:"end_time" example:"11:00"`        // Exclusive end, HH:MM
	Resource        string            `json:"resource" db:"resource" example:"Lab1"`    // Lab room identifier
	Responsible     string            `json:"responsible" db:"responsible"`             // Stamped from the authenticated user
	ResponsibleID   int64             `json:"responsibleId" db:"responsible_id"`        // Owner user id
	Department      string            `json:"department" db:"department"`               // Free-text department
	Title           string            `json:"title" db:"title"`                         // Short label shown on the calendar
	Description     string            `json:"description,omitempty" db:"description"`   // Optional free text
	Status          ReservationStatus `json:"status" db:"status" example:"pending"`
	RejectionReason string            `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}
