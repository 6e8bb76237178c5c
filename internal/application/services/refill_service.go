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

// RefillService derives naive remaining-supply estimates. Unlike the schedule
// it is day-agnostic: every active medication gets one reminder. The math is
// doses per day times a fixed horizon, not an inventory model.
type RefillService struct {
	medicationRepo ports.MedicationRepository
	userRepo       ports.UserRepository
	policy         config.ScheduleConfig
	logger         *logger.Logger
}

// NewRefillService creates a new refill service
func NewRefillService(medicationRepo ports.MedicationRepository, userRepo ports.UserRepository, policy config.ScheduleConfig, logger *logger.Logger) *RefillService {
	return &RefillService{
		medicationRepo: medicationRepo,
		userRepo:       userRepo,
		policy:         policy,
		logger:         logger,
	}
}

// ListRefillReminders returns one reminder per active medication of the
// owner. RemainingDoses assumes the configured horizon's worth of supply on
// hand; RefillByDate is the same horizon from now for every medication.
func (s *RefillService) ListRefillReminders(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]entities.RefillReminder, error) {
	exists, err := s.userRepo.Exists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("checking owner: %w", err)
	}
	if !exists {
		return nil, entities.ErrUserNotFound
	}

	medications, err := s.medicationRepo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching medications: %w", err)
	}

	horizon := s.policy.RefillHorizonDays
	refillBy := now.AddDate(0, 0, horizon)

	reminders := make([]entities.RefillReminder, 0, len(medications))
	for _, medication := range medications {
		reminders = append(reminders, entities.RefillReminder{
			MedicationID:   medication.ID,
			MedicationName: medication.Name,
			Urgency:        medication.Urgency,
			RemainingDoses: len(medication.IntakeTimes) * horizon,
			RefillByDate:   refillBy,
		})
	}

	return reminders, nil
}
