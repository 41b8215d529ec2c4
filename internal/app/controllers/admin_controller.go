package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/services"
	"github.com/coordenaplus/backend/internal/middleware"
)

// AdminController handles the review queues for accounts and reservations
type AdminController struct {
	approvalService *services.ApprovalService
	logger          zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(approvalService *services.ApprovalService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		approvalService: approvalService,
		logger:          logger,
	}
}

// GetPendingUsers lists accounts awaiting a decision
// @Summary List pending accounts
// @Description Returns accounts waiting for an admin decision, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserProfile} "Pending accounts"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/pending [get]
func (c *AdminController) GetPendingUsers(ctx *gin.Context) {
	users, err := c.approvalService.GetPendingUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: users})
}

// ApproveUser approves a pending account
// @Summary Approve an account
// @Description Marks an account as approved and notifies the user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserProfile} "Account approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id}/approve [post]
func (c *AdminController) ApproveUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	profile, err := c.approvalService.DecideUser(ctx.Request.Context(), id, true, "")
	if err != nil {
		c.logger.Warn().Err(err).Int64("userId", id).Msg("Account approval failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile})
}

// RejectUser rejects a pending account
// @Summary Reject an account
// @Description Marks an account as rejected and notifies the user with the optional reason
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.RejectRequest false "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.UserProfile} "Account rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id}/reject [post]
func (c *AdminController) RejectUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	// Body is optional; an empty reason is fine
	var req dto.RejectRequest
	_ = ctx.ShouldBindJSON(&req)

	profile, err := c.approvalService.DecideUser(ctx.Request.Context(), id, false, req.Reason)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userId", id).Msg("Account rejection failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile})
}

// GetPendingReservations lists reservations awaiting a decision
// @Summary List pending reservations
// @Description Returns reservations waiting for a decision, ordered by date
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ReservationResponse} "Pending reservations"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Privileged role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/reservations/pending [get]
func (c *AdminController) GetPendingReservations(ctx *gin.Context) {
	reservations, err := c.approvalService.GetPendingReservations(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservations})
}

// ApproveReservation approves a pending reservation
// @Summary Approve a reservation
// @Description Approves a booking after checking the slot against already-approved reservations, then notifies the owner
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReservationResponse} "Reservation approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Privileged role required"
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Failure 409 {object} dto.ErrorResponse "Slot already taken by an approved reservation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/reservations/{id}/approve [post]
func (c *AdminController) ApproveReservation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	reservation, err := c.approvalService.DecideReservation(ctx.Request.Context(), id, true, "")
	if err != nil {
		c.logger.Warn().Err(err).Int64("reservationId", id).Msg("Reservation approval failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservation})
}

// RejectReservation rejects a pending reservation
// @Summary Reject a reservation
// @Description Rejects a booking and notifies the owner with the optional reason
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param request body dto.RejectRequest false "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.ReservationResponse} "Reservation rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Privileged role required"
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/reservations/{id}/reject [post]
func (c *AdminController) RejectReservation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.RejectRequest
	_ = ctx.ShouldBindJSON(&req)

	reservation, err := c.approvalService.DecideReservation(ctx.Request.Context(), id, false, req.Reason)
	if err != nil {
		c.logger.Warn().Err(err).Int64("reservationId", id).Msg("Reservation rejection failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservation})
}
