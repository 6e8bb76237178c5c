package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/core/internal/application/services"
	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/config"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// stubUserRepo knows a single user.
type stubUserRepo struct {
	id uuid.UUID
}

func (s *stubUserRepo) Create(ctx context.Context, user *entities.User) error { return nil }
func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (s *stubUserRepo) Update(ctx context.Context, user *entities.User) error { return nil }
func (s *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }
func (s *stubUserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return id == s.id, nil
}

// stubMedicationRepo serves a fixed medication list.
type stubMedicationRepo struct {
	medications []*entities.Medication
}

func (s *stubMedicationRepo) Create(ctx context.Context, medication *entities.Medication) error {
	return nil
}
func (s *stubMedicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Medication, error) {
	return nil, entities.ErrMedicationNotFound
}
func (s *stubMedicationRepo) Update(ctx context.Context, medication *entities.Medication) error {
	return nil
}
func (s *stubMedicationRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubMedicationRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) ([]*entities.Medication, error) {
	return s.medications, nil
}
func (s *stubMedicationRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) (int64, error) {
	return int64(len(s.medications)), nil
}
func (s *stubMedicationRepo) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Medication, error) {
	return s.medications, nil
}

func newInsightsTestHandler(t *testing.T, ownerID uuid.UUID, medications []*entities.Medication) *InsightsHandler {
	t.Helper()

	policy := config.ScheduleConfig{
		RefillHorizonDays:  7,
		DefaultMissingTime: true,
		DashboardCacheTTL:  time.Second,
	}
	userRepo := &stubUserRepo{id: ownerID}
	medicationRepo := &stubMedicationRepo{medications: medications}

	scheduleService := services.NewScheduleService(medicationRepo, userRepo, policy, logger.NewNop())
	dashboardService := services.NewDashboardService(scheduleService, nil, policy, logger.NewNop())
	refillService := services.NewRefillService(medicationRepo, userRepo, policy, logger.NewNop())

	return NewInsightsHandler(scheduleService, dashboardService, refillService, logger.NewNop())
}

func doRequest(t *testing.T, handler echo.HandlerFunc, target string, ownerID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", ownerID.String())

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGetScheduleRoundTrip(t *testing.T) {
	ownerID := uuid.New()
	medication := &entities.Medication{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Aspirin",
		Urgency: entities.UrgencyRoutine,
		Active:  true,
		IntakeTimes: []entities.TimeOfDay{
			{Hour: 8, Minute: 0},
			{Hour: 20, Minute: 0},
		},
	}
	handler := newInsightsTestHandler(t, ownerID, []*entities.Medication{medication})

	rec := doRequest(t, handler.GetSchedule, "/api/v1/schedule?date=2026-03-02", ownerID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response ports.ScheduleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.Date != "2026-03-02" {
		t.Errorf("Date = %q, want 2026-03-02", response.Date)
	}
	if len(response.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(response.Entries))
	}
	if response.Entries[0].MedicationName != "Aspirin" {
		t.Errorf("entry name = %q", response.Entries[0].MedicationName)
	}
}

func TestGetScheduleRejectsBadDate(t *testing.T) {
	ownerID := uuid.New()
	handler := newInsightsTestHandler(t, ownerID, nil)

	rec := doRequest(t, handler.GetSchedule, "/api/v1/schedule?date=yesterday", ownerID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetScheduleUnknownUser(t *testing.T) {
	handler := newInsightsTestHandler(t, uuid.New(), nil)

	rec := doRequest(t, handler.GetSchedule, "/api/v1/schedule", uuid.New())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetRefillRemindersRoundTrip(t *testing.T) {
	ownerID := uuid.New()
	medication := &entities.Medication{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Aspirin",
		Urgency: entities.UrgencyUrgent,
		Active:  true,
		IntakeTimes: []entities.TimeOfDay{
			{Hour: 8, Minute: 0},
			{Hour: 20, Minute: 0},
		},
	}
	handler := newInsightsTestHandler(t, ownerID, []*entities.Medication{medication})

	rec := doRequest(t, handler.GetRefillReminders, "/api/v1/refills", ownerID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response ports.RefillRemindersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(response.Reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(response.Reminders))
	}
	if response.Reminders[0].RemainingDoses != 14 {
		t.Errorf("RemainingDoses = %d, want 14", response.Reminders[0].RemainingDoses)
	}
}

func TestGetDashboardRoundTrip(t *testing.T) {
	ownerID := uuid.New()
	medication := &entities.Medication{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Aspirin",
		Urgency: entities.UrgencyRoutine,
		Active:  true,
		IntakeTimes: []entities.TimeOfDay{
			{Hour: 23, Minute: 59},
		},
	}
	handler := newInsightsTestHandler(t, ownerID, []*entities.Medication{medication})

	rec := doRequest(t, handler.GetDashboard, "/api/v1/dashboard", ownerID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var summary entities.DashboardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if summary.ActiveMedicationCount != 1 {
		t.Errorf("ActiveMedicationCount = %d, want 1", summary.ActiveMedicationCount)
	}
}
