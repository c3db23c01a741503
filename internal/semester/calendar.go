package semester

import (
	"fmt"
	"strings"
)

const (
	Sem1 = "Sem 1"
	Sem2 = "Sem 2"

	LabelOrientation = "Orientation Week"
	LabelRecess      = "Recess Week"
	LabelReading     = "Reading Week"
	LabelExam        = "Examination Week"
	LabelVacation    = "Vacation"
)

// Category is the kind of week a date belongs to for recurrence purposes.
type Category int

const (
	Normal Category = iota
	Recess
	Reading
	Exam
)

var categoryNames = [...]string{"normal", "recess", "reading", "exam"}

func (c Category) String() string {
	if c < Normal || c > Exam {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Normal, Recess, Reading, Exam}
}

// CategoryOf classifies a week label such as "Recess Week_Sem 1" by its
// first word. Orientation, numbered and vacation weeks are all Normal.
func CategoryOf(label string) Category {
	prefix, _, _ := strings.Cut(label, "_")
	first, _, _ := strings.Cut(strings.TrimSpace(prefix), " ")
	switch first {
	case "Recess":
		return Recess
	case "Reading":
		return Reading
	case "Examination":
		return Exam
	}
	return Normal
}

// Week is one labelled ISO week of an academic year.
type Week struct {
	ISO          ISOWeek
	Monday       Date
	Label        string
	Semester     string
	AcademicYear string
}

// FullLabel is the label stamped onto every Day of the week, e.g. "Week 3_Sem 1".
func (w Week) FullLabel() string {
	return w.Label + "_" + w.Semester
}

func (w Week) Category() Category {
	return CategoryOf(w.Label)
}

func (w Week) Sunday() Date {
	return w.Monday.AddDays(6)
}

// Calendar maps ISO weeks to their academic labels. Keys carry the ISO
// year, so a vacation block that runs past the last week of one calendar
// year continues at week 1 of the next without colliding with it.
type Calendar struct {
	weeks []Week
	index map[ISOWeek]int
}

func newCalendar(weeks []Week) Calendar {
	c := Calendar{
		weeks: make([]Week, 0, len(weeks)),
		index: make(map[ISOWeek]int, len(weeks)),
	}
	for _, w := range weeks {
		if _, dup := c.index[w.ISO]; dup {
			continue
		}
		c.index[w.ISO] = len(c.weeks)
		c.weeks = append(c.weeks, w)
	}
	return c
}

// Week returns the labelled week containing d.
func (c Calendar) Week(d Date) (Week, bool) {
	return c.WeekAt(d.ISOWeek())
}

func (c Calendar) WeekAt(iso ISOWeek) (Week, bool) {
	i, ok := c.index[iso]
	if !ok {
		return Week{}, false
	}
	return c.weeks[i], true
}

// Label returns the full label of the week containing d.
func (c Calendar) Label(d Date) (string, bool) {
	w, ok := c.Week(d)
	if !ok {
		return "", false
	}
	return w.FullLabel(), true
}

// Weeks returns the weeks in chronological order.
func (c Calendar) Weeks() []Week {
	out := make([]Week, len(c.weeks))
	copy(out, c.weeks)
	return out
}

func (c Calendar) Len() int {
	return len(c.weeks)
}

// termLabels lays out one teaching term: 6 weeks, recess, 7 weeks, reading
// and two examination weeks, optionally preceded by orientation.
func termLabels(orientation bool) []string {
	var labels []string
	if orientation {
		labels = append(labels, LabelOrientation)
	}
	for n := 1; n <= 6; n++ {
		labels = append(labels, fmt.Sprintf("Week %d", n))
	}
	labels = append(labels, LabelRecess)
	for n := 7; n <= 13; n++ {
		labels = append(labels, fmt.Sprintf("Week %d", n))
	}
	labels = append(labels, LabelReading, LabelExam, LabelExam)
	return labels
}

const winterVacationWeeks = 5

var (
	sem1TermWeeks = len(termLabels(true))
	sem2TermWeeks = len(termLabels(false))
)

// academicYear is the week layout from one first-Monday-of-August up to
// the day before the next.
type academicYear struct {
	label string
	start Date
	next  Date
	weeks []Week
}

func academicYearLabel(year int) string {
	return fmt.Sprintf("AY%d/%d", year, year+1)
}

// academicYearOf returns the calendar year whose first Monday of August
// opens the academic year containing d.
func academicYearOf(d Date) int {
	year := d.Year
	if d.Before(FirstMondayOfAugust(year)) {
		year--
	}
	return year
}

func layoutAcademicYear(year int) academicYear {
	ay := academicYear{
		label: academicYearLabel(year),
		start: FirstMondayOfAugust(year),
		next:  FirstMondayOfAugust(year + 1),
	}

	type slot struct{ label, sem string }
	var slots []slot
	for _, l := range termLabels(true) {
		slots = append(slots, slot{l, Sem1})
	}
	for i := 0; i < winterVacationWeeks; i++ {
		slots = append(slots, slot{LabelVacation, Sem1})
	}
	for _, l := range termLabels(false) {
		slots = append(slots, slot{l, Sem2})
	}
	total := ay.start.DaysUntil(ay.next) / 7
	for len(slots) < total {
		slots = append(slots, slot{LabelVacation, Sem2})
	}

	ay.weeks = make([]Week, len(slots))
	monday := ay.start
	for i, s := range slots {
		ay.weeks[i] = Week{
			ISO:          monday.ISOWeek(),
			Monday:       monday,
			Label:        s.label,
			Semester:     s.sem,
			AcademicYear: ay.label,
		}
		monday = monday.AddDays(7)
	}
	return ay
}

// weekIndex returns the position of d's week within the academic year.
func (ay academicYear) weekIndex(d Date) int {
	return ay.start.DaysUntil(d.Monday()) / 7
}

// AcademicCalendar lays out the full academic year containing d.
func AcademicCalendar(d Date) Calendar {
	return newCalendar(layoutAcademicYear(academicYearOf(d)).weeks)
}
