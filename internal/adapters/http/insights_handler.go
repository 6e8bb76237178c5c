package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/core/internal/application/services"
	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// InsightsHandler serves the derived read models: the daily schedule, the
// dashboard summary and the refill reminders.
type InsightsHandler struct {
	scheduleService  *services.ScheduleService
	dashboardService *services.DashboardService
	refillService    *services.RefillService
	logger           *logger.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(scheduleService *services.ScheduleService, dashboardService *services.DashboardService, refillService *services.RefillService, logger *logger.Logger) *InsightsHandler {
	return &InsightsHandler{
		scheduleService:  scheduleService,
		dashboardService: dashboardService,
		refillService:    refillService,
		logger:           logger,
	}
}

// GetSchedule godoc
// @Summary Get daily schedule
// @Description Expand the user's active medications into dose entries for a day
// @Tags insights
// @Produce json
// @Param date query string false "Day to generate for (YYYY-MM-DD), defaults to today"
// @Success 200 {object} ports.ScheduleResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /schedule [get]
func (h *InsightsHandler) GetSchedule(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	day := time.Now()
	if dateStr := c.QueryParam("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date parameter, expected YYYY-MM-DD")
		}
		day = parsed
	}

	entries, err := h.scheduleService.GenerateSchedule(c.Request().Context(), ownerID, day)
	if err != nil {
		h.logger.Error("Generate schedule failed", "error", err, "user_id", ownerID)
		return mapInsightsError(err)
	}

	return c.JSON(http.StatusOK, ports.ScheduleResponse{
		Date:    day.Format("2006-01-02"),
		Entries: entries,
	})
}

// GetDashboard godoc
// @Summary Get dashboard summary
// @Description Aggregate medication counts, upcoming doses and alerts for today
// @Tags insights
// @Produce json
// @Success 200 {object} entities.DashboardSummary
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *InsightsHandler) GetDashboard(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	summary, err := h.dashboardService.BuildDashboard(c.Request().Context(), ownerID, time.Now())
	if err != nil {
		h.logger.Error("Build dashboard failed", "error", err, "user_id", ownerID)
		return mapInsightsError(err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetRefillReminders godoc
// @Summary Get refill reminders
// @Description Estimate upcoming refill needs for the user's active medications
// @Tags insights
// @Produce json
// @Success 200 {object} ports.RefillRemindersResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /refills [get]
func (h *InsightsHandler) GetRefillReminders(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	reminders, err := h.refillService.ListRefillReminders(c.Request().Context(), ownerID, time.Now())
	if err != nil {
		h.logger.Error("List refill reminders failed", "error", err, "user_id", ownerID)
		return mapInsightsError(err)
	}

	return c.JSON(http.StatusOK, ports.RefillRemindersResponse{Reminders: reminders})
}

func mapInsightsError(err error) error {
	var genErr *entities.ScheduleGenerationError

	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, entities.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &genErr):
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate schedule")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
