package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/services"
	"github.com/coordenaplus/backend/internal/middleware"
)

// PushController handles browser push subscription management
type PushController struct {
	pushService *services.PushService
	logger      zerolog.Logger
}

// NewPushController creates a new PushController
func NewPushController(pushService *services.PushService, logger zerolog.Logger) *PushController {
	return &PushController{
		pushService: pushService,
		logger:      logger,
	}
}

// PublicKey returns the VAPID public key
// @Summary Get VAPID public key
// @Description Returns the key clients need to create a push subscription
// @Tags push
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PublicKeyResponse} "Public key"
// @Router /push/public-key [get]
func (c *PushController) PublicKey(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.pushService.PublicKey()})
}

// Subscribe registers a browser push subscription
// @Summary Subscribe to push notifications
// @Description Stores the caller's browser subscription. Re-subscribing an endpoint rebinds it to the caller.
// @Tags push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubscribeRequest true "Browser subscription"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "Subscription stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /push/subscribe [post]
func (c *PushController) Subscribe(ctx *gin.Context) {
	var req dto.SubscribeRequest
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

	if err := c.pushService.Subscribe(ctx.Request.Context(), userID, &req); err != nil {
		c.logger.Error().Err(err).Int64("userId", userID).Msg("Push subscription failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.SuccessResponse{Message: "Subscription stored"}})
}

// Unsubscribe removes a browser push subscription
// @Summary Unsubscribe from push notifications
// @Description Removes the caller's subscription for the given endpoint
// @Tags push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UnsubscribeRequest true "Endpoint to remove"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Subscription removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Subscription not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /push/unsubscribe [post]
func (c *PushController) Unsubscribe(ctx *gin.Context) {
	var req dto.UnsubscribeRequest
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

	if err := c.pushService.Unsubscribe(ctx.Request.Context(), userID, req.Endpoint); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Subscription removed"}})
}
