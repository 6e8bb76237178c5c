package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/core/internal/application/services"
	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// MedicationHandler handles medication record requests
type MedicationHandler struct {
	medicationService *services.MedicationService
	logger            *logger.Logger
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(medicationService *services.MedicationService, logger *logger.Logger) *MedicationHandler {
	return &MedicationHandler{
		medicationService: medicationService,
		logger:            logger,
	}
}

// CreateMedication godoc
// @Summary Create a medication
// @Description Create a new medication record for the authenticated user
// @Tags medications
// @Accept json
// @Produce json
// @Param request body ports.CreateMedicationRequest true "Medication data"
// @Success 201 {object} entities.Medication
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /medications [post]
func (h *MedicationHandler) CreateMedication(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	var req ports.CreateMedicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	medication, err := h.medicationService.CreateMedication(c.Request().Context(), ownerID, req)
	if err != nil {
		h.logger.Error("Create medication failed", "error", err, "user_id", ownerID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusCreated, medication)
}

// GetMedication godoc
// @Summary Get medication by ID
// @Description Get a single medication record owned by the authenticated user
// @Tags medications
// @Produce json
// @Param id path string true "Medication ID"
// @Success 200 {object} entities.Medication
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /medications/{id} [get]
func (h *MedicationHandler) GetMedication(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	medication, err := h.medicationService.GetMedication(c.Request().Context(), ownerID, medicationID)
	if err != nil {
		h.logger.Error("Get medication failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, medication)
}

// UpdateMedication handles partial updates of a medication record
func (h *MedicationHandler) UpdateMedication(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	var req ports.UpdateMedicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	medication, err := h.medicationService.UpdateMedication(c.Request().Context(), ownerID, medicationID, req)
	if err != nil {
		h.logger.Error("Update medication failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, medication)
}

// DeleteMedication handles medication deletion
func (h *MedicationHandler) DeleteMedication(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	if err := h.medicationService.DeleteMedication(c.Request().Context(), ownerID, medicationID); err != nil {
		h.logger.Error("Delete medication failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Medication deleted"})
}

// ListMedications godoc
// @Summary List medications
// @Description List medication records owned by the authenticated user
// @Tags medications
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param urgency query string false "Filter by urgency"
// @Param search query string false "Search by name"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ports.PaginatedResponse[entities.Medication]
// @Security BearerAuth
// @Router /medications [get]
func (h *MedicationHandler) ListMedications(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	filter, err := buildMedicationFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	medications, total, err := h.medicationService.ListMedications(c.Request().Context(), ownerID, filter)
	if err != nil {
		h.logger.Error("List medications failed", "error", err, "user_id", ownerID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve medications")
	}

	response := ports.PaginatedResponse[*entities.Medication]{
		Data:   medications,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	return c.JSON(http.StatusOK, response)
}

// AddIntakeTime appends an intake time to a medication
func (h *MedicationHandler) AddIntakeTime(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	var req ports.AddIntakeTimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	medication, err := h.medicationService.AddIntakeTime(c.Request().Context(), ownerID, medicationID, req.Time)
	if err != nil {
		h.logger.Error("Add intake time failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, medication)
}

// RemoveIntakeTime removes an intake time from a medication
func (h *MedicationHandler) RemoveIntakeTime(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	value := c.Param("time")
	if value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Intake time is required")
	}

	medication, err := h.medicationService.RemoveIntakeTime(c.Request().Context(), ownerID, medicationID, value)
	if err != nil {
		h.logger.Error("Remove intake time failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, medication)
}

// SetDaysOfWeek replaces the day-of-week restriction of a medication
func (h *MedicationHandler) SetDaysOfWeek(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	var req ports.SetDaysOfWeekRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	medication, err := h.medicationService.SetDaysOfWeek(c.Request().Context(), ownerID, medicationID, req.Days)
	if err != nil {
		h.logger.Error("Set days of week failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, medication)
}

// SetActive toggles the active flag of a medication
func (h *MedicationHandler) SetActive(c echo.Context) error {
	ownerID := getUserIDFromContext(c)

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid medication ID")
	}

	var req ports.SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	medication, err := h.medicationService.SetActive(c.Request().Context(), ownerID, medicationID, req.Active)
	if err != nil {
		h.logger.Error("Set active failed", "error", err, "medication_id", medicationID)
		return mapMedicationError(err)
	}

	return c.JSON(http.StatusOK, medication)
}

func buildMedicationFilter(c echo.Context) (ports.MedicationFilter, error) {
	filter := ports.MedicationFilter{Limit: 20}

	if activeStr := c.QueryParam("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return filter, errors.New("invalid active parameter")
		}
		filter.Active = &active
	}

	if urgencyStr := c.QueryParam("urgency"); urgencyStr != "" {
		urgency := entities.Urgency(urgencyStr)
		if !urgency.IsValid() {
			return filter, errors.New("invalid urgency parameter")
		}
		filter.Urgency = &urgency
	}

	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			return filter, errors.New("invalid limit parameter")
		}
		filter.Limit = limit
	}

	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filter, errors.New("invalid offset parameter")
		}
		filter.Offset = offset
	}

	filter.SortBy = c.QueryParam("sort_by")
	filter.SortOrder = c.QueryParam("sort_order")

	return filter, nil
}

func mapMedicationError(err error) error {
	switch {
	case errors.Is(err, entities.ErrMedicationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Medication not found")
	case errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, entities.ErrIntakeTimeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Intake time not found")
	case errors.Is(err, entities.ErrInvalidArgument),
		errors.Is(err, entities.ErrInvalidUrgency),
		errors.Is(err, entities.ErrInvalidTimeOfDay),
		errors.Is(err, entities.ErrInvalidWeekday),
		errors.Is(err, entities.ErrDuplicateIntakeTime):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
