package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/services"
	"github.com/coordenaplus/backend/internal/middleware"
)

// CoordinatorController handles the coordinator directory
type CoordinatorController struct {
	coordinatorService *services.CoordinatorService
	logger             zerolog.Logger
}

// NewCoordinatorController creates a new CoordinatorController
func NewCoordinatorController(coordinatorService *services.CoordinatorService, logger zerolog.Logger) *CoordinatorController {
	return &CoordinatorController{
		coordinatorService: coordinatorService,
		logger:             logger,
	}
}

// List returns every coordinator
// @Summary List coordinators
// @Description Returns the coordinator directory ordered by course and name
// @Tags coordinators
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CoordinatorResponse} "Coordinators"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinators [get]
func (c *CoordinatorController) List(ctx *gin.Context) {
	coordinators, err := c.coordinatorService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: coordinators})
}

// GetByID returns one coordinator
// @Summary Get a coordinator
// @Description Returns one coordinator by id
// @Tags coordinators
// @Produce json
// @Security BearerAuth
// @Param id path int true "Coordinator ID"
// @Success 200 {object} dto.APIResponse{data=dto.CoordinatorResponse} "Coordinator"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinators/{id} [get]
func (c *CoordinatorController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	coordinator, err := c.coordinatorService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: coordinator})
}

// Create registers a coordinator
// @Summary Create a coordinator
// @Description Adds a coordinator to the directory
// @Tags coordinators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCoordinatorRequest true "Coordinator details"
// @Success 201 {object} dto.APIResponse{data=dto.CoordinatorResponse} "Coordinator created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 409 {object} dto.ErrorResponse "Email already in the directory"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinators [post]
func (c *CoordinatorController) Create(ctx *gin.Context) {
	var req dto.CreateCoordinatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coordinator, err := c.coordinatorService.Create(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Coordinator creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: coordinator})
}

// Update rewrites a coordinator profile
// @Summary Update a coordinator
// @Description Rewrites a coordinator directory entry
// @Tags coordinators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Coordinator ID"
// @Param request body dto.UpdateCoordinatorRequest true "Updated details"
// @Success 200 {object} dto.APIResponse{data=dto.CoordinatorResponse} "Coordinator updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinators/{id} [put]
func (c *CoordinatorController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCoordinatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coordinator, err := c.coordinatorService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("coordinatorId", id).Msg("Coordinator update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: coordinator})
}

// UpdatePresence toggles a coordinator's presence flag
// @Summary Update coordinator presence
// @Description Marks a coordinator present or absent in the directory
// @Tags coordinators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Coordinator ID"
// @Param request body dto.UpdatePresenceRequest true "New presence status"
// @Success 200 {object} dto.APIResponse{data=dto.CoordinatorResponse} "Presence updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Privileged role required"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinators/{id}/status [patch]
func (c *CoordinatorController) UpdatePresence(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePresenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coordinator, err := c.coordinatorService.UpdatePresence(ctx.Request.Context(), id, models.PresenceStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: coordinator})
}

// Delete removes a coordinator
// @Summary Delete a coordinator
// @Description Removes a coordinator from the directory
// @Tags coordinators
// @Produce json
// @Security BearerAuth
// @Param id path int true "Coordinator ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Coordinator deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinators/{id} [delete]
func (c *CoordinatorController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.coordinatorService.Delete(ctx.Request.Context(), id); err != nil {
		c.logger.Warn().Err(err).Int64("coordinatorId", id).Msg("Coordinator deletion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Coordinator deleted"}})
}
