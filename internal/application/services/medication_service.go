package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// MedicationService handles medication record management. Every operation is
// scoped to the owning user; a record belonging to someone else behaves as if
// it did not exist.
type MedicationService struct {
	medicationRepo ports.MedicationRepository
	userRepo       ports.UserRepository
	logger         *logger.Logger
}

// NewMedicationService creates a new medication service
func NewMedicationService(medicationRepo ports.MedicationRepository, userRepo ports.UserRepository, logger *logger.Logger) *MedicationService {
	return &MedicationService{
		medicationRepo: medicationRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// CreateMedication creates a new medication record for the owner
func (s *MedicationService) CreateMedication(ctx context.Context, ownerID uuid.UUID, req ports.CreateMedicationRequest) (*entities.Medication, error) {
	exists, err := s.userRepo.Exists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("checking owner: %w", err)
	}
	if !exists {
		return nil, entities.ErrUserNotFound
	}

	urgency := entities.Urgency(req.Urgency)
	if !urgency.IsValid() {
		return nil, entities.ErrInvalidUrgency
	}

	medication := &entities.Medication{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Urgency:      urgency,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if req.Active != nil {
		medication.Active = *req.Active
	}

	for _, value := range req.IntakeTimes {
		intakeTime, err := entities.ParseTimeOfDay(value)
		if err != nil {
			return nil, err
		}
		// Duplicate values collapse to one member.
		if err := medication.AddIntakeTime(intakeTime); err != nil && err != entities.ErrDuplicateIntakeTime {
			return nil, err
		}
	}

	days, err := parseWeekdays(req.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	if err := medication.SetDaysOfWeek(days); err != nil {
		return nil, err
	}

	if err := s.medicationRepo.Create(ctx, medication); err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	s.logger.Info("Medication created", "medication_id", medication.ID, "owner_id", ownerID, "name", medication.Name)

	return medication, nil
}

// GetMedication retrieves one of the owner's medications
func (s *MedicationService) GetMedication(ctx context.Context, ownerID, id uuid.UUID) (*entities.Medication, error) {
	return s.getOwned(ctx, ownerID, id)
}

// UpdateMedication updates a medication's descriptive fields
func (s *MedicationService) UpdateMedication(ctx context.Context, ownerID, id uuid.UUID, req ports.UpdateMedicationRequest) (*entities.Medication, error) {
	medication, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		medication.Name = *req.Name
	}
	if req.Urgency != nil {
		urgency := entities.Urgency(*req.Urgency)
		if !urgency.IsValid() {
			return nil, entities.ErrInvalidUrgency
		}
		medication.Urgency = urgency
	}
	if req.Dosage != nil {
		medication.Dosage = *req.Dosage
	}
	if req.Instructions != nil {
		medication.Instructions = *req.Instructions
	}

	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return medication, nil
}

// DeleteMedication removes a medication and, with it, its intake times
func (s *MedicationService) DeleteMedication(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.medicationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	s.logger.Info("Medication deleted", "medication_id", id, "owner_id", ownerID)
	return nil
}

// ListMedications returns the owner's medications and the total count
func (s *MedicationService) ListMedications(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) ([]*entities.Medication, int, error) {
	medications, err := s.medicationRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list medications: %w", err)
	}

	total, err := s.medicationRepo.CountByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count medications: %w", err)
	}

	return medications, int(total), nil
}

// AddIntakeTime adds a time-of-day value to the medication's schedule.
// Adding a value that already exists is not an error; the set is unchanged.
func (s *MedicationService) AddIntakeTime(ctx context.Context, ownerID, id uuid.UUID, value string) (*entities.Medication, error) {
	medication, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	intakeTime, err := entities.ParseTimeOfDay(value)
	if err != nil {
		return nil, err
	}

	if err := medication.AddIntakeTime(intakeTime); err != nil {
		if err == entities.ErrDuplicateIntakeTime {
			return medication, nil
		}
		return nil, err
	}

	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return medication, nil
}

// RemoveIntakeTime removes a time-of-day value from the medication's schedule
func (s *MedicationService) RemoveIntakeTime(ctx context.Context, ownerID, id uuid.UUID, value string) (*entities.Medication, error) {
	medication, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	intakeTime, err := entities.ParseTimeOfDay(value)
	if err != nil {
		return nil, err
	}

	if err := medication.RemoveIntakeTime(intakeTime); err != nil {
		return nil, err
	}

	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return medication, nil
}

// SetDaysOfWeek replaces the medication's day set. An empty list means the
// medication applies every day.
func (s *MedicationService) SetDaysOfWeek(ctx context.Context, ownerID, id uuid.UUID, dayNames []string) (*entities.Medication, error) {
	medication, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	days, err := parseWeekdays(dayNames)
	if err != nil {
		return nil, err
	}
	if err := medication.SetDaysOfWeek(days); err != nil {
		return nil, err
	}

	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return medication, nil
}

// SetActive flips the medication's active state. Inactive medications are
// excluded from schedule, dashboard, and refill computation.
func (s *MedicationService) SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) (*entities.Medication, error) {
	medication, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	medication.Active = active
	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return medication, nil
}

func (s *MedicationService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*entities.Medication, error) {
	medication, err := s.medicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Exclusive ownership: another user's record is indistinguishable from a
	// missing one.
	if medication.OwnerID != ownerID {
		return nil, entities.ErrMedicationNotFound
	}

	return medication, nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, err := entities.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}
