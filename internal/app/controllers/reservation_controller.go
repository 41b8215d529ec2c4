package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/services"
	"github.com/coordenaplus/backend/internal/middleware"
)

// ReservationController handles booking operations
type ReservationController struct {
	reservationService *services.ReservationService
	logger             zerolog.Logger
}

// NewReservationController creates a new ReservationController
func NewReservationController(reservationService *services.ReservationService, logger zerolog.Logger) *ReservationController {
	return &ReservationController{
		reservationService: reservationService,
		logger:             logger,
	}
}

// parseIDParam reads the :id path parameter
func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// Create handles new booking requests
// @Summary Create a reservation
// @Description Records a new booking request in the pending state. The responsible party is the authenticated caller.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReservationRequest true "Booking details"
// @Success 201 {object} dto.APIResponse{data=dto.ReservationResponse} "Reservation created, awaiting approval"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or time window"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a professor or admin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations [post]
func (c *ReservationController) Create(ctx *gin.Context) {
	var req dto.CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	reservation, err := c.reservationService.Create(ctx.Request.Context(), &req, userID, middleware.GetUserName(ctx), middleware.GetRole(ctx))
	if err != nil {
		c.logger.Warn().Err(err).Int64("userId", userID).Msg("Reservation creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: reservation})
}

// List returns the approved calendar
// @Summary List approved reservations
// @Description Returns every approved reservation, ordered by date and start time
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ReservationResponse} "Approved reservations"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations [get]
func (c *ReservationController) List(ctx *gin.Context) {
	reservations, err := c.reservationService.GetApproved(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservations})
}

// ListOwn returns the caller's reservations
// @Summary List own reservations
// @Description Returns every reservation of the authenticated user regardless of status
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ReservationResponse} "Own reservations"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations/me [get]
func (c *ReservationController) ListOwn(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	reservations, err := c.reservationService.GetOwn(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservations})
}

// GetByID returns a single reservation
// @Summary Get a reservation
// @Description Returns one reservation by id
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReservationResponse} "Reservation"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations/{id} [get]
func (c *ReservationController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	reservation, err := c.reservationService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservation})
}

// Update rewrites a reservation
// @Summary Update a reservation
// @Description Rewrites a booking and returns it to the pending state for review. Only the owner, a professor or an admin may update.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Updated booking details"
// @Success 200 {object} dto.APIResponse{data=dto.ReservationResponse} "Reservation updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or time window"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations/{id} [put]
func (c *ReservationController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	reservation, err := c.reservationService.Update(ctx.Request.Context(), id, &req, userID, middleware.GetRole(ctx))
	if err != nil {
		c.logger.Warn().Err(err).Int64("reservationId", id).Msg("Reservation update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reservation})
}

// Delete removes a reservation
// @Summary Delete a reservation
// @Description Removes a booking. Only the owner, a professor or an admin may delete.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reservation deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations/{id} [delete]
func (c *ReservationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.reservationService.Delete(ctx.Request.Context(), id, userID, middleware.GetRole(ctx)); err != nil {
		c.logger.Warn().Err(err).Int64("reservationId", id).Msg("Reservation deletion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Reservation deleted"}})
}
