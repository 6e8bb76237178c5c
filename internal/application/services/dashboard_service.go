package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/config"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// DashboardService aggregates the schedule into the dashboard summary. The
// cache is optional; on any cache failure the summary is computed directly.
type DashboardService struct {
	scheduleService *ScheduleService
	cache           ports.CacheRepository
	policy          config.ScheduleConfig
	logger          *logger.Logger
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(scheduleService *ScheduleService, cache ports.CacheRepository, policy config.ScheduleConfig, logger *logger.Logger) *DashboardService {
	return &DashboardService{
		scheduleService: scheduleService,
		cache:           cache,
		policy:          policy,
		logger:          logger,
	}
}

// BuildDashboard produces the summary of today's medication activity for the
// owner, relative to now. A nil owner id is a contract violation and fails
// immediately.
func (s *DashboardService) BuildDashboard(ctx context.Context, ownerID uuid.UUID, now time.Time) (*entities.DashboardSummary, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id is required", entities.ErrInvalidArgument)
	}

	cacheKey := s.cacheKey(ownerID, now)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	entries, err := s.scheduleService.GenerateSchedule(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}

	// Distinct medications contributing to today's schedule, regardless of
	// time of day.
	seen := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		seen[entry.MedicationID] = true
	}

	upcoming := make([]entities.ScheduleEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Time.Valid() {
			continue
		}
		if entry.Time.AfterClock(now) {
			upcoming = append(upcoming, entry)
		}
	}

	// Stable: entries sharing a time keep their generation order.
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Time.Before(upcoming[j].Time)
	})

	doses := make([]entities.UpcomingDose, 0, len(upcoming))
	for _, entry := range upcoming {
		doses = append(doses, entities.UpcomingDose{
			Name:         entry.MedicationName,
			Dosage:       entry.Dosage,
			NextDoseTime: entry.Time,
			Taken:        entry.Taken,
		})
	}

	summary := &entities.DashboardSummary{
		ActiveMedicationCount: len(seen),
		TodaysDoseCount:       len(upcoming),
		UpcomingMedications:   doses,
		Alerts:                buildAlerts(upcoming),
		GeneratedAt:           now,
	}

	s.writeCache(ctx, cacheKey, summary)

	return summary, nil
}

// buildAlerts produces the advisory alert list. The content is a placeholder:
// no refill thresholds or interaction rules are evaluated yet, and callers
// must not treat these as clinical guidance.
func buildAlerts(upcoming []entities.ScheduleEntry) []entities.Alert {
	alerts := make([]entities.Alert, 0, 2)

	if len(upcoming) > 0 {
		subject := upcoming[0].MedicationName
		alerts = append(alerts, entities.Alert{
			Category:          entities.AlertCategoryRefill,
			Message:           fmt.Sprintf("Check your remaining supply of %s and request a refill if needed.", subject),
			SubjectMedication: subject,
		})
	}

	alerts = append(alerts, entities.Alert{
		Category: entities.AlertCategoryInteraction,
		Message:  "Review possible interactions with your pharmacist when adding new medications.",
	})

	return alerts
}

func (s *DashboardService) cacheKey(ownerID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("dashboard:%s:%s", ownerID, now.Format("2006-01-02"))
}

func (s *DashboardService) readCache(ctx context.Context, key string) *entities.DashboardSummary {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Debugw("Dashboard cache read failed", "key", key, "error", err)
		}
		return nil
	}

	var summary entities.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		s.logger.Warnw("Discarding unreadable cached dashboard", "key", key, "error", err)
		return nil
	}

	return &summary
}

func (s *DashboardService) writeCache(ctx context.Context, key string, summary *entities.DashboardSummary) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warnw("Failed to encode dashboard for cache", "key", key, "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, data, s.policy.DashboardCacheTTL); err != nil {
		s.logger.Debugw("Dashboard cache write failed", "key", key, "error", err)
	}
}
