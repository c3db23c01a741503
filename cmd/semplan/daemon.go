package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/semplan/internal/config"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/scheduler"
	"github.com/christopherklint97/semplan/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the semester week by week",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder daemon",
	Args:  cobra.NoArgs,
	RunE:  runRemind,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reminder daemon",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	remindCmd.Flags().Bool("once", false, "Send today's digest and exit")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.load()
	if err != nil {
		return err
	}

	app := tui.NewApp(p, s.clock, s.save)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	if n := app.Changes(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d changes\n", n)
	}
	return nil
}

func runRemind(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.cfg.Reminder.Enabled {
		return fmt.Errorf("reminders are disabled; set [reminder] enabled = true in the config")
	}

	load := func() (*planner.Planner, error) {
		// Resolved from the current day on every trigger.
		return s.db.Load(s.today())
	}
	sched := scheduler.New(s.cfg.Reminder, load, s.clock, scheduler.Desktop, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if once, _ := cmd.Flags().GetBool("once"); once {
		return sched.Remind(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return sched.Run(ctx)
}

func runStop(cmd *cobra.Command, args []string) error {
	path, err := scheduler.DefaultPIDPath()
	if err != nil {
		return err
	}
	pid, err := scheduler.ReadPID(path)
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sent stop signal to semplan (PID %d)\n", pid)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Write(configPath, config.DefaultConfig()); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}
