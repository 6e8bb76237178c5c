package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/core/internal/domain/entities"
)

func TestListRefillRemindersEstimatesSupply(t *testing.T) {
	f := newFixture(t)
	aspirin := f.addMedication(t, "Aspirin", []string{"08:00", "20:00"}, nil)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	reminders, err := f.refillService().ListRefillReminders(context.Background(), f.owner.ID, now)
	if err != nil {
		t.Fatalf("ListRefillReminders: %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(reminders))
	}

	reminder := reminders[0]
	if reminder.MedicationID != aspirin.ID {
		t.Errorf("reminder medication = %v, want %v", reminder.MedicationID, aspirin.ID)
	}
	// Two doses a day over a seven day horizon.
	if reminder.RemainingDoses != 14 {
		t.Errorf("RemainingDoses = %d, want 14", reminder.RemainingDoses)
	}
	wantDate := now.AddDate(0, 0, 7)
	if !reminder.RefillByDate.Equal(wantDate) {
		t.Errorf("RefillByDate = %v, want %v", reminder.RefillByDate, wantDate)
	}
}

func TestListRefillRemindersHonorsConfiguredHorizon(t *testing.T) {
	f := newFixture(t)
	f.policy.RefillHorizonDays = 30
	f.addMedication(t, "Aspirin", []string{"08:00"}, nil)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	reminders, err := f.refillService().ListRefillReminders(context.Background(), f.owner.ID, now)
	if err != nil {
		t.Fatalf("ListRefillReminders: %v", err)
	}

	if reminders[0].RemainingDoses != 30 {
		t.Errorf("RemainingDoses = %d, want 30", reminders[0].RemainingDoses)
	}
	if !reminders[0].RefillByDate.Equal(now.AddDate(0, 0, 30)) {
		t.Errorf("RefillByDate = %v, want now+30d", reminders[0].RefillByDate)
	}
}

func TestListRefillRemindersIgnoresDayRestrictions(t *testing.T) {
	f := newFixture(t)
	// The estimate assumes daily dosing even for a Monday-only medication.
	f.addMedication(t, "Weekly shot", []string{"08:00"}, []time.Weekday{time.Monday})

	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	reminders, err := f.refillService().ListRefillReminders(context.Background(), f.owner.ID, now)
	if err != nil {
		t.Fatalf("ListRefillReminders: %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(reminders))
	}
	if reminders[0].RemainingDoses != 7 {
		t.Errorf("RemainingDoses = %d, want 7", reminders[0].RemainingDoses)
	}
}

func TestListRefillRemindersSkipsInactiveMedications(t *testing.T) {
	f := newFixture(t)
	paused := f.addMedication(t, "Paused", []string{"08:00"}, nil)
	paused.Active = false

	reminders, err := f.refillService().ListRefillReminders(context.Background(), f.owner.ID, time.Now())
	if err != nil {
		t.Fatalf("ListRefillReminders: %v", err)
	}
	if len(reminders) != 0 {
		t.Fatalf("inactive medication produced %d reminders", len(reminders))
	}
}

func TestListRefillRemindersMedicationWithoutTimes(t *testing.T) {
	f := newFixture(t)
	f.addMedication(t, "No times", nil, nil)

	reminders, err := f.refillService().ListRefillReminders(context.Background(), f.owner.ID, time.Now())
	if err != nil {
		t.Fatalf("ListRefillReminders: %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(reminders))
	}
	if reminders[0].RemainingDoses != 0 {
		t.Errorf("RemainingDoses = %d, want 0", reminders[0].RemainingDoses)
	}
}

func TestListRefillRemindersUnknownOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.refillService().ListRefillReminders(context.Background(), uuid.New(), time.Now())
	if !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}
