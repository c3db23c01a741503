package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/semester"
)

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SEMPLAN_DB", "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Reminder.Cron != "0 7 * * *" || cfg.Export.DefaultFormat != "ics" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if !strings.HasSuffix(cfg.Storage.Path, filepath.Join(".config", "semplan", "semplan.db")) {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
}

func TestLoadFile_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[planner]
reference_date = "2019-09-01"

[storage]
path = "/tmp/from-file.db"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("SEMPLAN_DB", "/tmp/from-env.db")
	t.Setenv("SEMPLAN_NOW", "2019-10-01")
	t.Setenv("SEMPLAN_REFERENCE_DATE", "")
	t.Setenv("SEMPLAN_LOG_LEVEL", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Planner.ReferenceDate != "2019-09-01" || cfg.Log.Level != "debug" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Storage.Path != "/tmp/from-env.db" || cfg.Clock.Now != "2019-10-01" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Reminder.LeadMinutes != 15 {
		t.Errorf("default for unset key lost: %d", cfg.Reminder.LeadMinutes)
	}
}

func TestWriteThenLoad(t *testing.T) {
	t.Setenv("SEMPLAN_DB", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Storage.Path = "/tmp/x.db"
	cfg.Export.SheetName = "Sem 1"

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Export.SheetName != "Sem 1" || got.Storage.Path != "/tmp/x.db" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestNewClock(t *testing.T) {
	cfg := DefaultConfig()
	c, err := cfg.NewClock()
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	if _, ok := c.(clock.Real); !ok {
		t.Errorf("unset clock.now should give the real clock, got %T", c)
	}

	cfg.Clock.Now = "2019-09-01"
	c, err = cfg.NewClock()
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	if got := semester.Today(c); got != semester.NewDate(2019, time.September, 1) {
		t.Errorf("Today = %v, want 2019-09-01", got)
	}

	cfg.Clock.Now = "soon"
	if _, err := cfg.NewClock(); err == nil {
		t.Error("expected error for an unparseable clock.now")
	}
}

func TestReferenceDate(t *testing.T) {
	c := clock.NewFixed(time.Date(2020, 2, 1, 0, 0, 0, 0, time.Local))
	cfg := DefaultConfig()

	if got, _ := cfg.ReferenceDate(c); got != semester.NewDate(2020, time.February, 1) {
		t.Errorf("ReferenceDate() = %v, want today", got)
	}
	cfg.Planner.ReferenceDate = "2019-09-01"
	if got, _ := cfg.ReferenceDate(c); got != semester.NewDate(2019, time.September, 1) {
		t.Errorf("ReferenceDate() = %v, want configured date", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("log output = %q", out)
	}
}
