package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-config-tests")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "MedTrack" {
		t.Errorf("App.Name = %q, want MedTrack", cfg.App.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Schedule.RefillHorizonDays != 7 {
		t.Errorf("Schedule.RefillHorizonDays = %d, want 7", cfg.Schedule.RefillHorizonDays)
	}
	if !cfg.Schedule.DefaultMissingTime {
		t.Error("Schedule.DefaultMissingTime should default to true")
	}
	if cfg.Schedule.DashboardCacheTTL != 30*time.Second {
		t.Errorf("Schedule.DashboardCacheTTL = %v, want 30s", cfg.Schedule.DashboardCacheTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-config-tests")
	t.Setenv("SCHEDULE_REFILL_HORIZON_DAYS", "30")
	t.Setenv("SCHEDULE_DEFAULT_MISSING_TIME", "false")
	t.Setenv("DB_NAME", "medtrack_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Schedule.RefillHorizonDays != 30 {
		t.Errorf("Schedule.RefillHorizonDays = %d, want 30", cfg.Schedule.RefillHorizonDays)
	}
	if cfg.Schedule.DefaultMissingTime {
		t.Error("Schedule.DefaultMissingTime should be overridable to false")
	}
	if cfg.Database.Name != "medtrack_test" {
		t.Errorf("Database.Name = %q, want medtrack_test", cfg.Database.Name)
	}
}

func TestLoadRejectsDefaultJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "your-super-secret-jwt-key")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject the default JWT secret")
	}
}

func TestLoadRejectsNonPositiveRefillHorizon(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-config-tests")
	t.Setenv("SCHEDULE_REFILL_HORIZON_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject a zero refill horizon")
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "medtrack",
		Password: "secret",
		Name:     "medtrack",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=medtrack password=secret dbname=medtrack sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

func TestRedisGetAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	if got := cfg.GetAddr(); got != "cache.internal:6380" {
		t.Errorf("GetAddr() = %q", got)
	}
}
