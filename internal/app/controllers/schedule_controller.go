package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/services"
	"github.com/coordenaplus/backend/internal/middleware"
)

// maxScheduleUpload bounds the accepted XLSX size
const maxScheduleUpload = 5 << 20 // 5 MB

// ScheduleController handles the fixed weekly lab schedule
type ScheduleController struct {
	scheduleService *services.ScheduleService
	logger          zerolog.Logger
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService, logger zerolog.Logger) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// List returns the weekly schedule
// @Summary List scheduled blocks
// @Description Returns the fixed weekly schedule, optionally filtered by lab
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param lab query string false "Filter by lab name"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduledBlock} "Scheduled blocks"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /schedule [get]
func (c *ScheduleController) List(ctx *gin.Context) {
	lab := ctx.Query("lab")

	var blocks interface{}
	var err error
	if lab != "" {
		blocks, err = c.scheduleService.GetByLab(ctx.Request.Context(), lab)
	} else {
		blocks, err = c.scheduleService.GetAll(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: blocks})
}

// Import replaces the schedule from an uploaded XLSX workbook
// @Summary Import the weekly schedule
// @Description Parses an XLSX workbook (multipart field "file") and atomically replaces the stored schedule
// @Tags schedule
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} dto.APIResponse{data=dto.ImportScheduleResponse} "Schedule imported"
// @Failure 400 {object} dto.ErrorResponse "Missing file or malformed workbook"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /schedule/import [post]
func (c *ScheduleController) Import(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing file")
		errorDetail = errorDetail.WithDetails("Upload the workbook in the multipart field 'file'")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if fileHeader.Size > maxScheduleUpload {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File too large")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Msg("Could not open uploaded schedule file")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.scheduleService.Import(ctx.Request.Context(), file)
	if err != nil {
		c.logger.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("Schedule import failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result})
}
