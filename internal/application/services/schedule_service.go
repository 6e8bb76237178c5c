package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/config"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// ScheduleService expands a user's active medications into the flat list of
// dose entries that apply on a given day. It is stateless and read-only; the
// reference day is always passed in by the caller.
type ScheduleService struct {
	medicationRepo ports.MedicationRepository
	userRepo       ports.UserRepository
	policy         config.ScheduleConfig
	logger         *logger.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(medicationRepo ports.MedicationRepository, userRepo ports.UserRepository, policy config.ScheduleConfig, logger *logger.Logger) *ScheduleService {
	return &ScheduleService{
		medicationRepo: medicationRepo,
		userRepo:       userRepo,
		policy:         policy,
		logger:         logger,
	}
}

// GenerateSchedule returns one entry per (medication, intake time) pair for
// every active medication of the owner that applies on today's weekday. An
// owner with no medications gets an empty, non-nil schedule. Entries carry no
// ordering guarantee; sorting belongs to the dashboard aggregation.
func (s *ScheduleService) GenerateSchedule(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]entities.ScheduleEntry, error) {
	exists, err := s.userRepo.Exists(ctx, ownerID)
	if err != nil {
		return nil, &entities.ScheduleGenerationError{Cause: fmt.Errorf("checking owner: %w", err)}
	}
	if !exists {
		return nil, entities.ErrUserNotFound
	}

	medications, err := s.medicationRepo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, &entities.ScheduleGenerationError{Cause: fmt.Errorf("fetching medications: %w", err)}
	}

	weekday := today.Weekday()
	entries := make([]entities.ScheduleEntry, 0)

	for _, medication := range medications {
		if len(medication.IntakeTimes) == 0 {
			s.logger.Debugw("Medication has no intake times, skipping",
				"medication_id", medication.ID, "owner_id", ownerID)
			continue
		}

		// Day mismatch short-circuits before any time expansion.
		if !medication.AppliesOn(weekday) {
			continue
		}

		for _, intakeTime := range medication.IntakeTimes {
			if !intakeTime.Valid() {
				if !s.policy.DefaultMissingTime {
					s.logger.LogMalformedRecord(medication.ID.String(), "intake_time", "skipped")
					continue
				}
				// Historical behavior: an unreadable intake time counts as a
				// midnight dose rather than aborting the whole schedule.
				s.logger.LogMalformedRecord(medication.ID.String(), "intake_time", "defaulted_to_midnight")
				intakeTime = entities.TimeOfDay{}
			}

			entries = append(entries, entities.ScheduleEntry{
				MedicationID:   medication.ID,
				MedicationName: medication.Name,
				Dosage:         medication.Dosage,
				Instructions:   medication.Instructions,
				Urgency:        medication.Urgency,
				Time:           intakeTime,
				Taken:          false,
				Status:         entities.DoseStatusUpcoming,
			})
		}
	}

	return entries, nil
}
