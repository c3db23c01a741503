// Package tui is an interactive week-by-week browser over a planner.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

type viewState int

const (
	browseView viewState = iota
	filterView
	confirmClearView
)

// Saver persists the planner after a change made in the browser.
type Saver func(*planner.Planner) error

type App struct {
	state   viewState
	table   table.Model
	filter  filterModel
	rows    []planner.Placement
	monday  semester.Date
	today   semester.Date
	status  string
	errMsg  string
	changes int

	planner *planner.Planner
	save    Saver
}

func NewApp(p *planner.Planner, c clock.Clock, save Saver) *App {
	sem := p.Semester()
	today := semester.Today(c)
	monday := sem.Start
	if sem.Contains(today) {
		monday = today.Monday()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Day", Width: 14},
			{Title: "Time", Width: 11},
			{Title: "Name", Width: 24},
			{Title: "Location", Width: 14},
			{Title: "Tags", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	a := &App{
		state:   browseView,
		table:   t,
		filter:  newFilterModel(),
		monday:  monday,
		today:   today,
		planner: p,
		save:    save,
	}
	a.refresh()
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state {
	case filterView:
		return a.updateFilter(msg)
	case confirmClearView:
		return a.updateConfirmClear(msg)
	}
	return a.updateBrowse(msg)
}

func (a *App) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		a.errMsg = ""
		switch keyMsg.String() {
		case "q":
			return a, tea.Quit
		case "left", "h", "p":
			a.moveWeek(-1)
			return a, nil
		case "right", "l", "n":
			a.moveWeek(1)
			return a, nil
		case "t":
			if a.planner.Semester().Contains(a.today) {
				a.monday = a.today.Monday()
				a.refresh()
			}
			return a, nil
		case "u":
			a.history(a.planner.Undo, "Undone")
			return a, nil
		case "r", "ctrl+r":
			a.history(a.planner.Redo, "Redone")
			return a, nil
		case "d", "x":
			a.deleteSelected()
			return a, nil
		case "c":
			if a.planner.Count() > 0 {
				a.state = confirmClearView
			}
			return a, nil
		case "/":
			a.state = filterView
			return a, a.filter.input.Focus()
		}
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			a.filter.input.Blur()
			a.state = browseView
			a.refresh()
			return a, nil
		case "esc":
			a.filter.input.SetValue("")
			a.filter.input.Blur()
			a.state = browseView
			a.refresh()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	return a, cmd
}

func (a *App) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		a.state = browseView
		if keyMsg.String() == "y" {
			a.planner.ClearSlots()
			a.planner.Commit()
			a.persist("Cleared every slot")
		}
	}
	return a, nil
}

func (a *App) moveWeek(delta int) {
	sem := a.planner.Semester()
	next := a.monday.AddDays(7 * delta)
	if !sem.Contains(next) {
		return
	}
	a.monday = next
	a.refresh()
}

func (a *App) history(step func() error, done string) {
	if err := step(); err != nil {
		switch {
		case errors.Is(err, planner.ErrNoUndoableState):
			a.status = warningStyle.Render("Nothing to undo")
		case errors.Is(err, planner.ErrNoRedoableState):
			a.status = warningStyle.Render("Nothing to redo")
		default:
			a.errMsg = err.Error()
		}
		return
	}
	a.persist(done)
}

func (a *App) deleteSelected() {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.rows) {
		return
	}
	pl := a.rows[i]
	removed, err := a.planner.RemoveSlot(pl.Date, pl.Slot)
	if err != nil {
		a.errMsg = err.Error()
		return
	}
	if !removed {
		return
	}
	a.planner.Commit()
	a.persist(fmt.Sprintf("Deleted %s on %s", pl.Slot.Name, pl.Date))
}

func (a *App) persist(done string) {
	a.refresh()
	if a.save != nil {
		if err := a.save(a.planner); err != nil {
			a.errMsg = fmt.Sprintf("saving: %v", err)
			return
		}
	}
	a.changes++
	a.status = successStyle.Render(done)
}

// refresh rebuilds the table rows for the current week and filter.
func (a *App) refresh() {
	tags := a.filter.Tags()
	a.rows = a.rows[:0]
	var rows []table.Row
	for _, d := range a.planner.Semester().WeekOf(a.monday) {
		day, err := a.planner.Day(d)
		if err != nil {
			continue
		}
		for _, s := range day.Slots() {
			if !s.HasTags(tags) {
				continue
			}
			a.rows = append(a.rows, planner.Placement{Date: d, Slot: s})
			rows = append(rows, table.Row{
				fmt.Sprintf("%s %s", d.Weekday().String()[:3], d),
				fmt.Sprintf("%s-%s", s.Start, s.End()),
				s.Name,
				s.Location,
				strings.Join(s.Tags, ","),
			})
		}
	}
	a.table.SetRows(rows)
	if a.table.Cursor() >= len(rows) {
		a.table.SetCursor(max(0, len(rows)-1))
	}
}

func (a *App) View() string {
	var b strings.Builder

	sem := a.planner.Semester()
	label := "?"
	if w, ok := sem.Calendar.Week(a.monday); ok {
		label = w.FullLabel()
		if w.Category() != semester.Normal {
			label = specialWeekStyle.Render(label)
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("semplan: %s %s", sem.AcademicYear, sem.Name)))
	b.WriteString("  " + label + "\n")
	week := fmt.Sprintf("%s to %s", a.monday, a.monday.AddDays(6))
	if a.monday == a.today.Monday() {
		week += highlightStyle.Render("  this week")
	}
	b.WriteString(subtitleStyle.Render(week))
	b.WriteString("\n")

	if len(a.rows) == 0 {
		b.WriteString(dimStyle.Render("No slots this week"))
		b.WriteString("\n")
	} else {
		b.WriteString(a.table.View())
		b.WriteString("\n")
	}

	if tags := a.filter.Tags(); len(tags) > 0 && a.state != filterView {
		b.WriteString(dimStyle.Render("filter: #" + strings.Join(tags, " #")))
		b.WriteString("\n")
	}

	switch a.state {
	case filterView:
		b.WriteString(a.filter.View())
		b.WriteString(helpStyle.Render("\nEnter: apply • Esc: clear filter"))
		return b.String()
	case confirmClearView:
		b.WriteString(warningStyle.Render(fmt.Sprintf("Delete all %d slots? (y/N)", a.planner.Count())))
		return b.String()
	}

	if a.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: ") + a.errMsg + "\n")
	} else if a.status != "" {
		b.WriteString(a.status + "\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"←/→: week • t: today • d: delete • u/r: undo/redo (%d/%d) • c: clear • /: filter • q: quit",
		a.planner.Pointer(), a.planner.HistoryLen()-1)))
	return b.String()
}

// Changes counts the edits saved during the session.
func (a *App) Changes() int {
	return a.changes
}
