package models

import (
	"time"
)

// User defines the user model based on the 'users' table.
// Accounts are created with status 'pending' and only an admin action moves
// them to 'approved' or 'rejected'.
type User struct {
	ID          int64         `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Name        string        `json:"name" db:"name" example:"Ana Souza"`                                      // Full name
	Email       string        `json:"email" db:"email" example:"ana@alunos.estacio.br"`                        // Institutional email, unique
	Password    string        `json:"-" db:"password"`                                                         // Bcrypt hash (excluded from JSON)
	Role        RoleType      `json:"role" db:"role" example:"student"`                                        // Inferred from the email domain, never client supplied
	Status      AccountStatus `json:"status" db:"status" example:"pending"`                                    // Gates login for non-admin roles
	CreatedAt   time.Time     `json:"createdAt" db:"created_at" example:"2025-01-01T10:00:00Z"`                // Timestamp when the user was created
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at" example:"2025-01-02T15:30:00Z"`                // Timestamp when the user was last updated
	LastLoginAt *time.Time    `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2025-04-20T18:00:00Z"` // Timestamp of the last login (nullable)
}
