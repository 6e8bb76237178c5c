package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrMedicationNotFound = errors.New("medication not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUrgency     = errors.New("invalid urgency")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrInvalidWeekday     = errors.New("invalid weekday")
	ErrDuplicateIntakeTime = errors.New("intake time already exists")
	ErrIntakeTimeNotFound = errors.New("intake time not found")
	ErrUserDisabled       = errors.New("user account is disabled")
)

// ScheduleGenerationError wraps any unexpected failure encountered while
// expanding medication records into schedule entries. The original cause is
// kept for diagnostics; callers match on the type, not the cause.
type ScheduleGenerationError struct {
	Cause error
}

func (e *ScheduleGenerationError) Error() string {
	return fmt.Sprintf("schedule generation failed: %v", e.Cause)
}

func (e *ScheduleGenerationError) Unwrap() error {
	return e.Cause
}

// Enums and types
type Urgency string

const (
	UrgencyUrgent    Urgency = "urgent"
	UrgencyNonUrgent Urgency = "nonurgent"
	UrgencyRoutine   Urgency = "routine"
)

// DoseStatus is the lifecycle state of a schedule entry. Only
// DoseStatusUpcoming is produced today; taken/missed transitions arrive with
// a persisted dose log.
type DoseStatus string

const (
	DoseStatusUpcoming DoseStatus = "upcoming"
	DoseStatusTaken    DoseStatus = "taken"
	DoseStatusMissed   DoseStatus = "missed"
)

// AlertCategory classifies dashboard alerts.
type AlertCategory string

const (
	AlertCategoryRefill      AlertCategory = "refill"
	AlertCategoryInteraction AlertCategory = "interaction"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    *string    `json:"first_name" db:"first_name"`
	LastName     *string    `json:"last_name" db:"last_name"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
}

// TimeOfDay is a clock time without a date component. The zero value is
// midnight. Values outside the 00:00-23:59 range are invalid; InvalidTimeOfDay
// marks a stored intake time that could not be parsed.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

var InvalidTimeOfDay = TimeOfDay{Hour: -1, Minute: -1}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return InvalidTimeOfDay, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.Valid() {
		return InvalidTimeOfDay, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return t, nil
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns the number of minutes since midnight.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinuteOfDay() < other.MinuteOfDay()
}

// AfterClock reports whether the time of day is strictly after the clock time
// of the given instant.
func (t TimeOfDay) AfterClock(instant time.Time) bool {
	return t.MinuteOfDay() > instant.Hour()*60+instant.Minute()
}

// Medication represents one prescribed medication owned by a single user.
// IntakeTimes are plain values owned by the record; there is no separate
// intake-time entity. An empty DaysOfWeek means the medication applies every
// day.
type Medication struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	OwnerID      uuid.UUID      `json:"owner_id" db:"owner_id"`
	Name         string         `json:"name" db:"name"`
	Urgency      Urgency        `json:"urgency" db:"urgency"`
	Dosage       string         `json:"dosage" db:"dosage"`
	Instructions string         `json:"instructions" db:"instructions"`
	IntakeTimes  []TimeOfDay    `json:"intake_times"`
	DaysOfWeek   []time.Weekday `json:"days_of_week"`
	Active       bool           `json:"active" db:"active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time     `json:"deleted_at" db:"deleted_at"`
}

// ScheduleEntry is one derived (medication, time) pairing for the current
// day. It is never persisted.
type ScheduleEntry struct {
	MedicationID   uuid.UUID  `json:"medication_id"`
	MedicationName string     `json:"medication_name"`
	Dosage         string     `json:"dosage"`
	Instructions   string     `json:"instructions"`
	Urgency        Urgency    `json:"urgency"`
	Time           TimeOfDay  `json:"time"`
	Taken          bool       `json:"taken"`
	Status         DoseStatus `json:"status"`
}

// UpcomingDose is the simplified projection of a schedule entry shown on the
// dashboard.
type UpcomingDose struct {
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	NextDoseTime TimeOfDay `json:"next_dose_time"`
	Taken        bool      `json:"taken"`
}

// Alert is an advisory dashboard message. Content is currently placeholder
// only; no interaction or refill rules are evaluated.
type Alert struct {
	Category          AlertCategory `json:"category"`
	Message           string        `json:"message"`
	SubjectMedication string        `json:"subject_medication,omitempty"`
}

// DashboardSummary is the aggregated snapshot of today's medication activity.
type DashboardSummary struct {
	ActiveMedicationCount int            `json:"active_medication_count"`
	TodaysDoseCount       int            `json:"todays_dose_count"`
	UpcomingMedications   []UpcomingDose `json:"upcoming_medications"`
	Alerts                []Alert        `json:"alerts"`
	GeneratedAt           time.Time      `json:"generated_at"`
}

// RefillReminder is a heuristic estimate of when a medication's supply needs
// replenishing.
type RefillReminder struct {
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Urgency        Urgency   `json:"urgency"`
	RemainingDoses int       `json:"remaining_doses"`
	RefillByDate   time.Time `json:"refill_by_date"`
}

// Business logic methods for Medication

// AppliesOn reports whether the medication is scheduled on the given weekday.
// An empty DaysOfWeek set means every day.
func (m *Medication) AppliesOn(day time.Weekday) bool {
	if len(m.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range m.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// HasIntakeTime reports whether an equal intake time already exists.
func (m *Medication) HasIntakeTime(t TimeOfDay) bool {
	for _, existing := range m.IntakeTimes {
		if existing == t {
			return true
		}
	}
	return false
}

// AddIntakeTime inserts an intake time, keeping the collection unique by
// value and sorted. Adding an equal value is rejected.
func (m *Medication) AddIntakeTime(t TimeOfDay) error {
	if !t.Valid() {
		return ErrInvalidTimeOfDay
	}
	if m.HasIntakeTime(t) {
		return ErrDuplicateIntakeTime
	}

	inserted := false
	times := make([]TimeOfDay, 0, len(m.IntakeTimes)+1)
	for _, existing := range m.IntakeTimes {
		if !inserted && t.Before(existing) {
			times = append(times, t)
			inserted = true
		}
		times = append(times, existing)
	}
	if !inserted {
		times = append(times, t)
	}
	m.IntakeTimes = times
	return nil
}

// RemoveIntakeTime deletes an intake time by value.
func (m *Medication) RemoveIntakeTime(t TimeOfDay) error {
	for i, existing := range m.IntakeTimes {
		if existing == t {
			m.IntakeTimes = append(m.IntakeTimes[:i], m.IntakeTimes[i+1:]...)
			return nil
		}
	}
	return ErrIntakeTimeNotFound
}

// SetDaysOfWeek replaces the day set, dropping duplicates. An empty set is
// valid and means every day.
func (m *Medication) SetDaysOfWeek(days []time.Weekday) error {
	seen := make(map[time.Weekday]bool, len(days))
	unique := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return ErrInvalidWeekday
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}
	m.DaysOfWeek = unique
	return nil
}

// Utility methods
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyUrgent, UrgencyNonUrgent, UrgencyRoutine:
		return true
	default:
		return false
	}
}

func (s DoseStatus) IsValid() bool {
	switch s {
	case DoseStatusUpcoming, DoseStatusTaken, DoseStatusMissed:
		return true
	default:
		return false
	}
}

func (c AlertCategory) IsValid() bool {
	switch c {
	case AlertCategoryRefill, AlertCategoryInteraction:
		return true
	default:
		return false
	}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a lowercase weekday name to its time.Weekday value.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[name]
	if !ok {
		return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return day, nil
}
