// Package view renders planner days, weeks and semesters as terminal text.
package view

import (
	"fmt"
	"strings"

	"github.com/christopherklint97/semplan/internal/command"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

// Source is the read side of a planner.
type Source interface {
	Semester() semester.Semester
	Day(d semester.Date) (planner.Day, error)
}

// Slot renders one slot on a single line.
func Slot(s planner.Slot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s-%s  %s", s.Start, s.End(), s.Name))
	if s.Location != "" {
		b.WriteString(dimStyle.Render(" @ " + s.Location))
	}
	if len(s.Tags) > 0 {
		b.WriteString(" " + tagStyle.Render("#"+strings.Join(s.Tags, " #")))
	}
	if s.Description != "" {
		b.WriteString("\n      " + dimStyle.Render(s.Description))
	}
	return b.String()
}

func dayHeading(d planner.Day, today semester.Date) string {
	heading := fmt.Sprintf("%s %s", d.DayOfWeek().String()[:3], d.Date())
	if d.Date() == today {
		return todayStyle.Render(heading + " (today)")
	}
	return dayStyle.Render(heading)
}

// Day renders the slots of one day under a heading carrying its week label.
func Day(d planner.Day, today semester.Date) string {
	var b strings.Builder
	b.WriteString(dayHeading(d, today))
	b.WriteString("  " + subtitleStyle.Render(d.WeekLabel()))
	b.WriteString("\n")
	writeSlots(&b, d)
	return b.String()
}

func writeSlots(b *strings.Builder, d planner.Day) {
	slots := d.Slots()
	if len(slots) == 0 {
		b.WriteString("  " + dimStyle.Render("no slots") + "\n")
		return
	}
	for i, s := range slots {
		fmt.Fprintf(b, "  %d. %s\n", i+1, Slot(s))
	}
}

// Week renders the Monday to Sunday week containing d, titled with the
// week's calendar label.
func Week(src Source, d semester.Date, today semester.Date) (string, error) {
	sem := src.Semester()
	if !sem.Contains(d) {
		return "", &planner.DateError{Date: d, Start: sem.Start, End: sem.End}
	}

	var b strings.Builder
	label := "?"
	if w, ok := sem.Calendar.Week(d); ok {
		label = w.FullLabel()
		if w.Category() != semester.Normal {
			label = specialWeekStyle.Render(label)
		}
	}
	monday := d.Monday()
	b.WriteString(titleStyle.Render(label))
	b.WriteString("  " + subtitleStyle.Render(fmt.Sprintf("%s to %s", monday, monday.AddDays(6))))
	b.WriteString("\n\n")

	for _, date := range sem.WeekOf(d) {
		day, err := src.Day(date)
		if err != nil {
			return "", err
		}
		b.WriteString(dayHeading(day, today) + "\n")
		writeSlots(&b, day)
	}
	return b.String(), nil
}

// Semester summarises a resolved semester: bounds, week count and the
// number of days in each category.
func Semester(sem semester.Semester, today semester.Date) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", sem.AcademicYear, sem.Name)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s to %s, %d weeks\n", sem.Start, sem.End, sem.WeekCount)
	if label, ok := sem.Label(today); ok {
		fmt.Fprintf(&b, "Today (%s): %s\n", today, label)
	} else {
		fmt.Fprintf(&b, "Today (%s) is outside this semester\n", today)
	}
	for _, c := range semester.Categories() {
		fmt.Fprintf(&b, "  %-8s %3d days\n", c, len(sem.DatesIn(c)))
	}
	return b.String()
}

// Calendar lists every week of the semester with its label.
func Calendar(sem semester.Semester) string {
	var b strings.Builder
	for _, w := range sem.Weeks() {
		label := w.FullLabel()
		if w.Category() != semester.Normal {
			label = specialWeekStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", dimStyle.Render(w.ISO.String()), w.Monday, label)
	}
	return b.String()
}

// Matches renders tag search results grouped by date.
func Matches(ms []planner.Match) string {
	if len(ms) == 0 {
		return dimStyle.Render("no matching slots") + "\n"
	}
	var b strings.Builder
	var last semester.Date
	for _, m := range ms {
		if m.Date() != last {
			b.WriteString(dayStyle.Render(fmt.Sprintf("%s %s", m.Date().Weekday().String()[:3], m.Date())))
			b.WriteString("  " + subtitleStyle.Render(m.Day.WeekLabel()) + "\n")
			last = m.Date()
		}
		b.WriteString("  " + Slot(m.Slot) + "\n")
	}
	return b.String()
}

// Result reports a batch: how many dates took the operation and which were
// refused.
func Result(verb string, res command.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %d date(s)", verb, len(res.Applied))
	if len(res.Rejected) > 0 {
		fmt.Fprintf(&b, ", %d rejected", len(res.Rejected))
	}
	b.WriteString("\n")
	for _, r := range res.Rejected {
		b.WriteString("  " + errorStyle.Render("x") + " " + r.String() + "\n")
	}
	return b.String()
}
