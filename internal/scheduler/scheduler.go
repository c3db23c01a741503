// Package scheduler runs the reminder daemon: once per cron trigger it
// loads the planner, sends a digest of the day's slots and arms a
// notification shortly before each slot still to come.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/robfig/cron/v3"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/config"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

// Notifier delivers one notification.
type Notifier func(title, message string) error

// Desktop sends a desktop notification.
func Desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Loader returns the current planner. It is called on every trigger so the
// daemon sees edits made while it runs.
type Loader func() (*planner.Planner, error)

type Scheduler struct {
	cfg     config.ReminderConfig
	load    Loader
	clock   clock.Clock
	notify  Notifier
	logger  *slog.Logger
	PIDFile string

	mu     sync.Mutex
	timers []*time.Timer
}

func New(cfg config.ReminderConfig, load Loader, c clock.Clock, notify Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if notify == nil {
		notify = Desktop
	}
	pidFile, _ := DefaultPIDPath()
	return &Scheduler{
		cfg:     cfg,
		load:    load,
		clock:   clock.Or(c),
		notify:  notify,
		logger:  logger,
		PIDFile: pidFile,
	}
}

// Next is the first trigger after t.
func (s *Scheduler) Next(t time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(s.cfg.Cron)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing reminder schedule %q: %w", s.cfg.Cron, err)
	}
	return sched.Next(t), nil
}

// Run blocks until ctx is done, reminding on every trigger.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.Next(s.clock.Now()); err != nil {
		return err
	}

	if s.PIDFile != "" {
		if err := WritePID(s.PIDFile); err != nil {
			return fmt.Errorf("writing PID file: %w", err)
		}
		defer RemovePID(s.PIDFile)
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Cron, func() {
		if err := s.Remind(ctx); err != nil {
			s.logger.Error("reminder failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduling reminders: %w", err)
	}
	c.Start()

	next, _ := s.Next(s.clock.Now())
	s.logger.Info("reminder daemon started", "schedule", s.cfg.Cron, "next", next.Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	s.disarm()
	s.logger.Info("reminder daemon stopped")
	return nil
}

// Remind sends today's digest and arms reminders for the slots still ahead.
func (s *Scheduler) Remind(ctx context.Context) error {
	p, err := s.load()
	if err != nil {
		return fmt.Errorf("loading planner: %w", err)
	}

	now := s.clock.Now()
	today := semester.DateOf(now)
	day, err := p.Day(today)
	if err != nil {
		s.logger.Debug("today is outside the planned semester", "date", today)
		return nil
	}

	title, body, ok := Digest(day)
	if !ok {
		s.logger.Debug("nothing planned today", "date", today)
		return nil
	}
	if err := s.notify(title, body); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}
	s.logger.Info("digest sent", "date", today, "slots", day.Len())

	s.disarm()
	lead := time.Duration(s.cfg.LeadMinutes) * time.Minute
	for _, u := range Upcoming(day, now, lead) {
		u := u
		timer := time.AfterFunc(u.At.Sub(now), func() {
			if ctx.Err() != nil {
				return
			}
			if err := s.notify(u.Slot.Name, fmt.Sprintf("%s at %s", u.Slot.String(), u.Slot.Start)); err != nil {
				s.logger.Error("slot reminder failed", "slot", u.Slot.Name, "error", err)
			}
		})
		s.mu.Lock()
		s.timers = append(s.timers, timer)
		s.mu.Unlock()
		s.logger.Debug("slot reminder armed", "slot", u.Slot.Name, "at", u.At.Format("15:04"))
	}
	return nil
}

func (s *Scheduler) disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// Digest summarises a day's slots for a notification. ok is false when the
// day is empty.
func Digest(day planner.Day) (title, body string, ok bool) {
	slots := day.Slots()
	if len(slots) == 0 {
		return "", "", false
	}
	title = fmt.Sprintf("semplan: %d slot(s) today (%s)", len(slots), day.WeekLabel())
	for i, s := range slots {
		if i > 0 {
			body += "\n"
		}
		body += s.String()
	}
	return title, body, true
}

// Reminder is a notification due at At for Slot.
type Reminder struct {
	Slot planner.Slot
	At   time.Time
}

// Upcoming lists a reminder lead before each slot of day whose reminder
// time is still ahead of now, earliest first.
func Upcoming(day planner.Day, now time.Time, lead time.Duration) []Reminder {
	d := day.Date()
	var out []Reminder
	for _, s := range day.Slots() {
		start := time.Date(d.Year, d.Month, d.Day, s.Start.Hour, s.Start.Minute, 0, 0, now.Location())
		at := start.Add(-lead)
		if !at.After(now) {
			continue
		}
		out = append(out, Reminder{Slot: s, At: at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
