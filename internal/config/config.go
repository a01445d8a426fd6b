package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tabulr/timetabler/internal/scheduler"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the service-level settings read from the environment.
type Config struct {
	Env        string
	Port       int
	StorageDir string

	Log LogConfig
	Run RunDefaults
}

type LogConfig struct {
	Level  string
	Format string
}

// RunDefaults seed a scheduling run when the request leaves a knob unset.
// PeriodsPerDay of 0 means "derive from SlotBudget".
type RunDefaults struct {
	Days          int
	PeriodsPerDay int
	Rooms         int
	SlotBudget    int
}

// Load reads configuration from the environment, after sourcing a .env
// file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3001)
	v.SetDefault("STORAGE_DIR", "db/generated")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DAYS", 5)
	v.SetDefault("PERIODS_PER_DAY", 0)
	v.SetDefault("ROOMS", 0)
	v.SetDefault("SLOT_BUDGET", scheduler.DefaultSlotBudget)

	cfg := &Config{
		Env:        v.GetString("ENV"),
		Port:       v.GetInt("PORT"),
		StorageDir: v.GetString("STORAGE_DIR"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Run: RunDefaults{
			Days:          v.GetInt("DAYS"),
			PeriodsPerDay: v.GetInt("PERIODS_PER_DAY"),
			Rooms:         v.GetInt("ROOMS"),
			SlotBudget:    v.GetInt("SLOT_BUDGET"),
		},
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, errors.New("PORT must be between 1 and 65535")
	}
	if cfg.Run.Days < 1 || cfg.Run.Days > 7 {
		return nil, errors.New("DAYS must be between 1 and 7")
	}
	if cfg.Run.Rooms < 0 {
		return nil, errors.New("ROOMS must not be negative")
	}
	if cfg.Run.PeriodsPerDay == 0 && cfg.Run.SlotBudget < cfg.Run.Days {
		return nil, errors.New("SLOT_BUDGET must cover at least one period per day")
	}
	return cfg, nil
}

// Periods resolves the per-day period count, falling back to the slot
// budget derivation when no explicit value was configured.
func (r RunDefaults) Periods() int {
	if r.PeriodsPerDay > 0 {
		return r.PeriodsPerDay
	}
	return scheduler.PeriodsForBudget(r.Days, r.SlotBudget)
}
