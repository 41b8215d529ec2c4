package dto

import "github.com/coordenaplus/backend/internal/app/models"

// CreateReservationRequest represents a new booking request. Status and
// responsible party are stamped server-side regardless of what the caller
// sends.
type CreateReservationRequest struct {
	Date        string `json:"date" binding:"required"`  // YYYY-MM-DD
	Start       string `json:"start" binding:"required"` // HH:MM
	End         string `json:"end" binding:"required"`   // HH:MM
	Resource    string `json:"resource" binding:"required"`
	Department  string `json:"department" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateReservationRequest represents an update to an existing booking.
// Status cannot be changed here; decisions go through the admin endpoints.
type UpdateReservationRequest struct {
	Date        string `json:"date" binding:"required"`
	Start       string `json:"start" binding:"required"`
	End         string `json:"end" binding:"required"`
	Resource    string `json:"resource" binding:"required"`
	Department  string `json:"department" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// ReservationResponse represents one booking in API responses
type ReservationResponse struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Resource        string `json:"resource"`
	Responsible     string `json:"responsible"`
	Department      string `json:"department"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// NewReservationResponse builds a ReservationResponse from a model
func NewReservationResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		Date:            r.Date,
		Start:           r.StartTime,
		End:             r.EndTime,
		Resource:        r.Resource,
		Responsible:     r.Responsible,
		Department:      r.Department,
		Title:           r.Title,
		Description:     r.Description,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
	}
}

// NewReservationListResponse builds a list of ReservationResponse
func NewReservationListResponse(reservations []*models.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, NewReservationResponse(r))
	}
	return out
}
