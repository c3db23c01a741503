package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/semplan/internal/command"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/view"
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a slot on a date or on every matching weekday",
	Example: `  semplan add "CS2113T Lecture" --start 16:00 --duration 120 --weekday fri --normal --tags cs2113t,lecture
  semplan add Consultation --date "next tuesday" --start 2pm --duration 30`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var deleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a slot from every date it expands to",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var editCmd = &cobra.Command{
	Use:   "edit NAME",
	Short: "Edit or move a slot on every date it expands to",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, deleteCmd, editCmd} {
		addSlotFlags(c)
		addWhenFlags(c)
	}

	editCmd.Flags().String("new-name", "", "New name")
	editCmd.Flags().String("new-location", "", "New location")
	editCmd.Flags().String("new-description", "", "New description")
	editCmd.Flags().String("new-start", "", "New start time")
	editCmd.Flags().Int("new-duration", -1, "New duration in minutes")
	editCmd.Flags().StringSlice("new-tags", nil, "New tags (replace the old ones)")
	editCmd.Flags().String("new-date", "", "Move the slot; every occurrence shifts by the same number of days")
}

func addSlotFlags(c *cobra.Command) {
	c.Flags().String("start", "09:00", "Start time (15:04, 3pm, 3:04pm)")
	c.Flags().Int("duration", 60, "Duration in minutes")
	c.Flags().String("location", "", "Location")
	c.Flags().String("description", "", "Description")
	c.Flags().StringSlice("tags", nil, "Tags, comma separated")
}

func addWhenFlags(c *cobra.Command) {
	c.Flags().StringP("date", "d", "", `Date ("2019-09-02", "today", "next monday")`)
	c.Flags().StringP("weekday", "w", "", "Weekday, anchored on the next such day from today")
	c.Flags().Bool("normal", false, "Repeat over normal weeks")
	c.Flags().Bool("recess", false, "Repeat over recess week")
	c.Flags().Bool("reading", false, "Repeat over reading week")
	c.Flags().Bool("exam", false, "Repeat over examination weeks")
	c.Flags().Bool("past", false, "Include dates before today")
}

func slotFromFlags(cmd *cobra.Command, name string) (planner.Slot, error) {
	startStr, _ := cmd.Flags().GetString("start")
	start, err := planner.ParseTimeOfDay(startStr)
	if err != nil {
		return planner.Slot{}, err
	}
	duration, _ := cmd.Flags().GetInt("duration")
	location, _ := cmd.Flags().GetString("location")
	description, _ := cmd.Flags().GetString("description")
	tags, _ := cmd.Flags().GetStringSlice("tags")

	slot := planner.Slot{
		Name:        name,
		Location:    location,
		Description: description,
		Start:       start,
		Duration:    duration,
		Tags:        planner.NewTags(command.ParseTags(tags...)...),
	}
	return slot, slot.Validate()
}

func whenFromFlags(cmd *cobra.Command) command.When {
	var w command.When
	w.Date, _ = cmd.Flags().GetString("date")
	w.Weekday, _ = cmd.Flags().GetString("weekday")
	w.Past, _ = cmd.Flags().GetBool("past")
	for _, name := range []string{"normal", "recess", "reading", "exam"} {
		if on, _ := cmd.Flags().GetBool(name); on {
			w.Categories = append(w.Categories, name)
		}
	}
	return w
}

// batch is the shared shape of add, delete and edit: load, run, save and
// report.
func batch(cmd *cobra.Command, verb string, run func(s *session, p *planner.Planner) (command.Result, error)) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.load()
	if err != nil {
		return err
	}

	res, err := run(s, p)
	if err != nil {
		return err
	}
	if res.Committed {
		if err := s.save(p); err != nil {
			return err
		}
	}
	s.logger.Debug("batch finished", "verb", verb, "applied", len(res.Applied), "rejected", len(res.Rejected))

	fmt.Fprint(cmd.OutOrStdout(), view.Result(verb, res))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	slot, err := slotFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	return batch(cmd, "Added", func(s *session, p *planner.Planner) (command.Result, error) {
		r, err := whenFromFlags(cmd).Recurrence(s.clock.Now())
		if err != nil {
			return command.Result{}, err
		}
		return command.Add(p, s.clock, slot, r)
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	slot, err := slotFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	return batch(cmd, "Deleted", func(s *session, p *planner.Planner) (command.Result, error) {
		r, err := whenFromFlags(cmd).Recurrence(s.clock.Now())
		if err != nil {
			return command.Result{}, err
		}
		return command.Delete(p, s.clock, slot, r)
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	slot, err := slotFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	var e planner.Edit
	e.Name, _ = cmd.Flags().GetString("new-name")
	e.Location, _ = cmd.Flags().GetString("new-location")
	e.Description, _ = cmd.Flags().GetString("new-description")
	tags, _ := cmd.Flags().GetStringSlice("new-tags")
	e.Tags = command.ParseTags(tags...)
	if v, _ := cmd.Flags().GetString("new-start"); v != "" {
		start, err := planner.ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		e.Start = &start
	}
	if v, _ := cmd.Flags().GetInt("new-duration"); v >= 0 {
		e.Duration = &v
	}

	return batch(cmd, "Edited", func(s *session, p *planner.Planner) (command.Result, error) {
		if v, _ := cmd.Flags().GetString("new-date"); v != "" {
			d, err := command.ParseDate(v, s.clock.Now())
			if err != nil {
				return command.Result{}, err
			}
			e.Date = &d
		}
		r, err := whenFromFlags(cmd).Recurrence(s.clock.Now())
		if err != nil {
			return command.Result{}, err
		}
		return command.Edit(p, s.clock, slot, r, e)
	})
}
