package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/config"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
	"github.com/christopherklint97/semplan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "semplan",
	Short:         "Semester planner with recurring slots and undo",
	Long:          "semplan lays out the academic year week by week and keeps a timetable of slots for the current semester, with recurring entries over normal, recess, reading and exam weeks.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var refFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&refFlag, "ref", "", "Reference date the semester is resolved from (default: today)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// session is everything a command needs: config, clock, logger and the
// planner database.
type session struct {
	cfg    *config.Config
	clock  clock.Clock
	logger *slog.Logger
	db     *store.DB
	ref    semester.Date
}

func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	clk, err := cfg.NewClock()
	if err != nil {
		return nil, err
	}

	ref, err := cfg.ReferenceDate(clk)
	if err != nil {
		return nil, err
	}
	if refFlag != "" {
		if ref, err = semester.ParseDate(refFlag); err != nil {
			return nil, fmt.Errorf("--ref: %w", err)
		}
	}

	db, err := store.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &session{cfg: cfg, clock: clk, logger: logger, db: db, ref: ref}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) load() (*planner.Planner, error) {
	p, err := s.db.Load(s.ref)
	if err != nil {
		return nil, fmt.Errorf("loading planner: %w", err)
	}
	return p, nil
}

func (s *session) save(p *planner.Planner) error {
	if err := s.db.Save(p, s.ref, s.clock.Now()); err != nil {
		return fmt.Errorf("saving planner: %w", err)
	}
	return nil
}

func (s *session) today() semester.Date {
	return semester.Today(s.clock)
}
