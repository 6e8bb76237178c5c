package entities

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", TimeOfDay{Hour: 8, Minute: 0}, false},
		{"00:00", TimeOfDay{}, false},
		{"23:59", TimeOfDay{Hour: 23, Minute: 59}, false},
		{"9:5", TimeOfDay{Hour: 9, Minute: 5}, false},
		{"24:00", InvalidTimeOfDay, true},
		{"12:60", InvalidTimeOfDay, true},
		{"-1:30", InvalidTimeOfDay, true},
		{"garbage", InvalidTimeOfDay, true},
		{"", InvalidTimeOfDay, true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tc.input, got)
			} else if !errors.Is(err, ErrInvalidTimeOfDay) {
				t.Errorf("ParseTimeOfDay(%q): error %v does not wrap ErrInvalidTimeOfDay", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestTimeOfDayZeroValueIsMidnight(t *testing.T) {
	var zero TimeOfDay
	if !zero.Valid() {
		t.Fatal("zero TimeOfDay should be valid")
	}
	if zero.String() != "00:00" {
		t.Fatalf("zero TimeOfDay renders as %q, want 00:00", zero.String())
	}
	if zero.MinuteOfDay() != 0 {
		t.Fatalf("zero TimeOfDay MinuteOfDay = %d, want 0", zero.MinuteOfDay())
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	morning := TimeOfDay{Hour: 8, Minute: 30}
	evening := TimeOfDay{Hour: 20, Minute: 0}

	if !morning.Before(evening) {
		t.Error("08:30 should sort before 20:00")
	}
	if evening.Before(morning) {
		t.Error("20:00 should not sort before 08:30")
	}
	if morning.Before(morning) {
		t.Error("a time should not sort before itself")
	}
}

func TestTimeOfDayAfterClock(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 30, 45, 0, time.UTC)

	cases := []struct {
		time TimeOfDay
		want bool
	}{
		{TimeOfDay{Hour: 14, Minute: 31}, true},
		{TimeOfDay{Hour: 20, Minute: 0}, true},
		// A dose exactly at the current minute is not upcoming.
		{TimeOfDay{Hour: 14, Minute: 30}, false},
		{TimeOfDay{Hour: 8, Minute: 0}, false},
	}

	for _, tc := range cases {
		if got := tc.time.AfterClock(now); got != tc.want {
			t.Errorf("%v.AfterClock(14:30) = %t, want %t", tc.time, got, tc.want)
		}
	}
}

func TestAppliesOn(t *testing.T) {
	everyday := &Medication{Name: "Everyday"}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if !everyday.AppliesOn(day) {
			t.Errorf("medication with no day restriction should apply on %v", day)
		}
	}

	weekdaysOnly := &Medication{
		Name:       "Weekdays",
		DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
	}
	if !weekdaysOnly.AppliesOn(time.Monday) {
		t.Error("should apply on Monday")
	}
	if weekdaysOnly.AppliesOn(time.Tuesday) {
		t.Error("should not apply on Tuesday")
	}
	if weekdaysOnly.AppliesOn(time.Sunday) {
		t.Error("should not apply on Sunday")
	}
}

func TestAddIntakeTimeKeepsSortedUniqueSet(t *testing.T) {
	m := &Medication{Name: "Test"}

	for _, value := range []string{"20:00", "08:00", "12:30"} {
		tod, err := ParseTimeOfDay(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if err := m.AddIntakeTime(tod); err != nil {
			t.Fatalf("AddIntakeTime(%q): %v", value, err)
		}
	}

	want := []TimeOfDay{
		{Hour: 8, Minute: 0},
		{Hour: 12, Minute: 30},
		{Hour: 20, Minute: 0},
	}
	if len(m.IntakeTimes) != len(want) {
		t.Fatalf("got %d intake times, want %d", len(m.IntakeTimes), len(want))
	}
	for i, tod := range want {
		if m.IntakeTimes[i] != tod {
			t.Errorf("intake time %d = %v, want %v", i, m.IntakeTimes[i], tod)
		}
	}

	if err := m.AddIntakeTime(TimeOfDay{Hour: 12, Minute: 30}); err != ErrDuplicateIntakeTime {
		t.Errorf("adding duplicate returned %v, want ErrDuplicateIntakeTime", err)
	}
	if len(m.IntakeTimes) != 3 {
		t.Errorf("duplicate add changed the set, now %d entries", len(m.IntakeTimes))
	}

	if err := m.AddIntakeTime(InvalidTimeOfDay); err != ErrInvalidTimeOfDay {
		t.Errorf("adding invalid time returned %v, want ErrInvalidTimeOfDay", err)
	}
}

func TestRemoveIntakeTime(t *testing.T) {
	m := &Medication{
		IntakeTimes: []TimeOfDay{
			{Hour: 8, Minute: 0},
			{Hour: 20, Minute: 0},
		},
	}

	if err := m.RemoveIntakeTime(TimeOfDay{Hour: 8, Minute: 0}); err != nil {
		t.Fatalf("RemoveIntakeTime: %v", err)
	}
	if len(m.IntakeTimes) != 1 || m.IntakeTimes[0] != (TimeOfDay{Hour: 20, Minute: 0}) {
		t.Fatalf("unexpected intake times after remove: %v", m.IntakeTimes)
	}

	if err := m.RemoveIntakeTime(TimeOfDay{Hour: 8, Minute: 0}); err != ErrIntakeTimeNotFound {
		t.Errorf("removing absent time returned %v, want ErrIntakeTimeNotFound", err)
	}
}

func TestSetDaysOfWeek(t *testing.T) {
	m := &Medication{}

	if err := m.SetDaysOfWeek([]time.Weekday{time.Monday, time.Monday, time.Friday}); err != nil {
		t.Fatalf("SetDaysOfWeek: %v", err)
	}
	if len(m.DaysOfWeek) != 2 {
		t.Fatalf("duplicates should collapse, got %v", m.DaysOfWeek)
	}

	if err := m.SetDaysOfWeek(nil); err != nil {
		t.Fatalf("clearing days: %v", err)
	}
	if len(m.DaysOfWeek) != 0 {
		t.Fatalf("expected empty day set, got %v", m.DaysOfWeek)
	}

	if err := m.SetDaysOfWeek([]time.Weekday{time.Weekday(7)}); err != ErrInvalidWeekday {
		t.Errorf("out-of-range weekday returned %v, want ErrInvalidWeekday", err)
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("wednesday")
	if err != nil {
		t.Fatalf("ParseWeekday: %v", err)
	}
	if day != time.Wednesday {
		t.Fatalf("ParseWeekday(wednesday) = %v", day)
	}

	if _, err := ParseWeekday("Wednesday"); !errors.Is(err, ErrInvalidWeekday) {
		t.Error("weekday names are lowercase only")
	}
	if _, err := ParseWeekday("someday"); !errors.Is(err, ErrInvalidWeekday) {
		t.Error("unknown weekday should be rejected")
	}
}

func TestScheduleGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ScheduleGenerationError{Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("ScheduleGenerationError should unwrap to its cause")
	}

	var genErr *ScheduleGenerationError
	if !errors.As(error(err), &genErr) {
		t.Error("errors.As should match *ScheduleGenerationError")
	}
}

func TestUrgencyIsValid(t *testing.T) {
	for _, u := range []Urgency{UrgencyUrgent, UrgencyNonUrgent, UrgencyRoutine} {
		if !u.IsValid() {
			t.Errorf("%q should be valid", u)
		}
	}
	if Urgency("critical").IsValid() {
		t.Error("unknown urgency should be invalid")
	}
}
