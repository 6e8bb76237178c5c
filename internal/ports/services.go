package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medtrack/core/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// UserService interface for profile operations
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*entities.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// MedicationService interface for medication record management
type MedicationService interface {
	CreateMedication(ctx context.Context, ownerID uuid.UUID, req CreateMedicationRequest) (*entities.Medication, error)
	GetMedication(ctx context.Context, ownerID, id uuid.UUID) (*entities.Medication, error)
	UpdateMedication(ctx context.Context, ownerID, id uuid.UUID, req UpdateMedicationRequest) (*entities.Medication, error)
	DeleteMedication(ctx context.Context, ownerID, id uuid.UUID) error
	ListMedications(ctx context.Context, ownerID uuid.UUID, filter MedicationFilter) ([]*entities.Medication, int, error)
	AddIntakeTime(ctx context.Context, ownerID, id uuid.UUID, value string) (*entities.Medication, error)
	RemoveIntakeTime(ctx context.Context, ownerID, id uuid.UUID, value string) (*entities.Medication, error)
	SetDaysOfWeek(ctx context.Context, ownerID, id uuid.UUID, days []string) (*entities.Medication, error)
	SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) (*entities.Medication, error)
}

// ScheduleService interface for schedule generation
type ScheduleService interface {
	GenerateSchedule(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]entities.ScheduleEntry, error)
}

// DashboardService interface for dashboard aggregation
type DashboardService interface {
	BuildDashboard(ctx context.Context, ownerID uuid.UUID, now time.Time) (*entities.DashboardSummary, error)
}

// RefillService interface for refill estimation
type RefillService interface {
	ListRefillReminders(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]entities.RefillReminder, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// User related types
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Medication related types
type CreateMedicationRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Urgency      string   `json:"urgency" validate:"required,oneof=urgent nonurgent routine"`
	Dosage       string   `json:"dosage" validate:"omitempty,max=200"`
	Instructions string   `json:"instructions" validate:"omitempty,max=2000"`
	IntakeTimes  []string `json:"intake_times" validate:"omitempty,dive,max=5"`
	DaysOfWeek   []string `json:"days_of_week" validate:"omitempty,dive,max=9"`
	Active       *bool    `json:"active"`
}

type UpdateMedicationRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Urgency      *string `json:"urgency" validate:"omitempty,oneof=urgent nonurgent routine"`
	Dosage       *string `json:"dosage" validate:"omitempty,max=200"`
	Instructions *string `json:"instructions" validate:"omitempty,max=2000"`
}

type AddIntakeTimeRequest struct {
	Time string `json:"time" validate:"required,max=5"`
}

type SetDaysOfWeekRequest struct {
	Days []string `json:"days" validate:"dive,max=9"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

// Insights related types
type ScheduleResponse struct {
	Date    string                   `json:"date"`
	Entries []entities.ScheduleEntry `json:"entries"`
}

type RefillRemindersResponse struct {
	Reminders []entities.RefillReminder `json:"reminders"`
}

// Response types for pagination and common structures
type PaginatedResponse[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
