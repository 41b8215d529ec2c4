package dto

import "github.com/coordenaplus/backend/internal/app/models"

// CreateCoordinatorRequest creates a new coordinator directory entry
type CreateCoordinatorRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Course      string `json:"course" binding:"required"`
	Status      string `json:"status"` // defaults to "absent"
	Photo       string `json:"photo"`
	OfficeHours string `json:"officeHours"`
	Location    string `json:"location"`
}

// UpdateCoordinatorRequest updates a coordinator directory entry
type UpdateCoordinatorRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Course      string `json:"course" binding:"required"`
	Status      string `json:"status"`
	Photo       string `json:"photo"`
	OfficeHours string `json:"officeHours"`
	Location    string `json:"location"`
}

// UpdatePresenceRequest toggles a coordinator's office presence
type UpdatePresenceRequest struct {
	Status string `json:"status" binding:"required,oneof=present absent"`
}

// CoordinatorResponse represents one coordinator in API responses
type CoordinatorResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Course      string `json:"course"`
	Status      string `json:"status"`
	Photo       string `json:"photo,omitempty"`
	OfficeHours string `json:"officeHours,omitempty"`
	Location    string `json:"location,omitempty"`
}

// NewCoordinatorResponse builds a CoordinatorResponse from a model
func NewCoordinatorResponse(c *models.Coordinator) CoordinatorResponse {
	return CoordinatorResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Course:      c.Course,
		Status:      string(c.Status),
		Photo:       c.Photo,
		OfficeHours: c.OfficeHours,
		Location:    c.Location,
	}
}
