package models

import "time"

// Coordinator defines a course coordinator entry based on the 'coordinators'
// table. Coordinators are directory records managed by admins; they are not
// user accounts.
type Coordinator struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Email       string         `json:"email" db:"email"` // Unique contact address
	Course      string         `json:"course" db:"course"`
	Status      PresenceStatus `json:"status" db:"status" example:"absent"` // Office presence, toggled by admin/professor
	Photo       string         `json:"photo,omitempty" db:"photo"`          // Optional photo URL
	OfficeHours string         `json:"officeHours,omitempty" db:"office_hours"`
	Location    string         `json:"location,omitempty" db:"location"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}
