package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/semester"
)

type Config struct {
	Planner  PlannerConfig  `toml:"planner"`
	Clock    ClockConfig    `toml:"clock"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Reminder ReminderConfig `toml:"reminder"`
	Export   ExportConfig   `toml:"export"`
}

type PlannerConfig struct {
	// ReferenceDate pins the semester a new planner is resolved from.
	ReferenceDate string `toml:"reference_date"`
}

type ClockConfig struct {
	// Now fixes the process's notion of the current time ("2006-01-02" or RFC 3339).
	Now string `toml:"now"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `toml:"format"` // "text" | "json"
}

type ReminderConfig struct {
	Enabled     bool   `toml:"enabled"`
	Cron        string `toml:"cron"`
	LeadMinutes int    `toml:"lead_minutes"`
}

type ExportConfig struct {
	DefaultFormat string `toml:"default_format"` // "ics" | "json" | "yaml" | "xlsx"
	SheetName     string `toml:"sheet_name"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Reminder: ReminderConfig{
			Enabled:     true,
			Cron:        "0 7 * * *",
			LeadMinutes: 15,
		},
		Export: ExportConfig{
			DefaultFormat: "ics",
			SheetName:     "Timetable",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "semplan"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Storage.Path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.Storage.Path = filepath.Join(dir, "semplan.db")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEMPLAN_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("SEMPLAN_NOW"); v != "" {
		cfg.Clock.Now = v
	}
	if v := os.Getenv("SEMPLAN_REFERENCE_DATE"); v != "" {
		cfg.Planner.ReferenceDate = v
	}
	if v := os.Getenv("SEMPLAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Write stores cfg at path, creating the directory if needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// NewClock returns a fixed clock when [clock] now is set, the system clock
// otherwise.
func (c *Config) NewClock() (clock.Clock, error) {
	if c.Clock.Now == "" {
		return clock.Real{}, nil
	}
	if t, err := time.ParseInLocation(time.RFC3339, c.Clock.Now, time.Local); err == nil {
		return clock.NewFixed(t), nil
	}
	d, err := semester.ParseDate(c.Clock.Now)
	if err != nil {
		return nil, fmt.Errorf("clock.now: %w", err)
	}
	return clock.NewFixed(d.In(time.Local)), nil
}

// ReferenceDate returns the configured reference date, or today on c.
func (c *Config) ReferenceDate(clk clock.Clock) (semester.Date, error) {
	if c.Planner.ReferenceDate == "" {
		return semester.Today(clk), nil
	}
	d, err := semester.ParseDate(c.Planner.ReferenceDate)
	if err != nil {
		return semester.Date{}, fmt.Errorf("planner.reference_date: %w", err)
	}
	return d, nil
}

// NewLogger builds the process logger, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
