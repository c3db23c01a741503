package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/semplan/internal/command"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
	"github.com/christopherklint97/semplan/internal/view"
)

var listCmd = &cobra.Command{
	Use:   "list [DATE]",
	Short: "List the slots of a day (default: today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

var viewCmd = &cobra.Command{
	Use:   "view [DATE]",
	Short: "Show the week containing a date (default: today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

var findCmd = &cobra.Command{
	Use:   "find TAG...",
	Short: "Find slots carrying every given tag",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFind,
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last change",
	Args:  cobra.NoArgs,
	RunE:  runUndo,
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo the last undone change",
	Args:  cobra.NoArgs,
	RunE:  runRedo,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every slot of the semester",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved semester and saved planners",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	viewCmd.Flags().Bool("calendar", false, "List every week of the semester instead")
	clearCmd.Flags().Bool("yes", false, "Do not ask for confirmation")
}

func dateArg(s *session, args []string) (semester.Date, error) {
	if len(args) == 0 {
		return s.today(), nil
	}
	return command.ParseDate(args[0], s.clock.Now())
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := dateArg(s, args)
	if err != nil {
		return err
	}
	p, err := s.load()
	if err != nil {
		return err
	}
	day, err := p.Day(d)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), view.Day(day, s.today()))
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.load()
	if err != nil {
		return err
	}
	if all, _ := cmd.Flags().GetBool("calendar"); all {
		fmt.Fprint(cmd.OutOrStdout(), view.Calendar(p.Semester()))
		return nil
	}

	d, err := dateArg(s, args)
	if err != nil {
		return err
	}
	out, err := view.Week(p, d, s.today())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runFind(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.load()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), view.Matches(command.Find(p, command.ParseTags(args...))))
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	return step(cmd, "Undone", (*planner.Planner).Undo)
}

func runRedo(cmd *cobra.Command, args []string) error {
	return step(cmd, "Redone", (*planner.Planner).Redo)
}

func step(cmd *cobra.Command, done string, move func(*planner.Planner) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.load()
	if err != nil {
		return err
	}
	if err := move(p); err != nil {
		return err
	}
	if err := s.save(p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (revision %d of %d)\n", done, p.Pointer(), p.HistoryLen()-1)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.load()
	if err != nil {
		return err
	}
	if p.Count() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear.")
		return nil
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete all %d slots of %s %s? [y/N] ", p.Count(), p.Semester().AcademicYear, p.Semester().Name)
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	n := p.Count()
	command.Clear(p)
	if err := s.save(p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d slots (undo restores them)\n", n)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	sem := semester.Resolve(s.ref)
	fmt.Fprint(out, view.Semester(sem, s.today()))

	recs, err := s.db.Semesters()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nSaved planners:")
	for _, r := range recs {
		fmt.Fprintf(out, "  %s %-6s from %s  revision %d of %d  (updated %s)\n",
			r.AcademicYear, r.Name, r.Start, r.Pointer, r.Revisions-1, r.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "\nDatabase: %s\n", s.cfg.Storage.Path)
	return nil
}
