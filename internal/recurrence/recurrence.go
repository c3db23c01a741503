// Package recurrence expands a slot's anchor day across the matching weeks
// of a resolved semester.
package recurrence

import (
	"sort"
	"strings"
	"time"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/semester"
)

// Recurrence selects which week categories a slot repeats in. With no
// category set it describes a single occurrence on Date.
type Recurrence struct {
	Normal  bool
	Recess  bool
	Reading bool
	Exam    bool
	// Past includes matching dates before today.
	Past bool

	Weekday time.Weekday
	Date    semester.Date
}

// OnDate anchors a recurrence at d; the weekday is d's.
func OnDate(d semester.Date) Recurrence {
	return Recurrence{Weekday: d.Weekday(), Date: d}
}

// OnWeekday anchors a recurrence at the first date on or after today that
// falls on wd.
func OnWeekday(wd time.Weekday, today semester.Date) Recurrence {
	offset := (int(wd) - int(today.Weekday()) + 7) % 7
	return Recurrence{Weekday: wd, Date: today.AddDays(offset)}
}

// With returns r with the given categories switched on.
func (r Recurrence) With(cats ...semester.Category) Recurrence {
	for _, c := range cats {
		switch c {
		case semester.Normal:
			r.Normal = true
		case semester.Recess:
			r.Recess = true
		case semester.Reading:
			r.Reading = true
		case semester.Exam:
			r.Exam = true
		}
	}
	return r
}

// Single reports whether no category is selected.
func (r Recurrence) Single() bool {
	return !r.Normal && !r.Recess && !r.Reading && !r.Exam
}

// Categories lists the selected categories in declaration order.
func (r Recurrence) Categories() []semester.Category {
	var out []semester.Category
	if r.Normal {
		out = append(out, semester.Normal)
	}
	if r.Recess {
		out = append(out, semester.Recess)
	}
	if r.Reading {
		out = append(out, semester.Reading)
	}
	if r.Exam {
		out = append(out, semester.Exam)
	}
	return out
}

func (r Recurrence) String() string {
	if r.Single() {
		return "once on " + r.Date.String()
	}
	var names []string
	for _, c := range r.Categories() {
		names = append(names, c.String())
	}
	out := "every " + r.Weekday.String() + " in " + strings.Join(names, ", ") + " weeks"
	if r.Past {
		out += " including past dates"
	}
	return out
}

// Expand returns, in order and without duplicates, the dates r places a
// slot on. A single occurrence yields its anchor date unchanged. Otherwise
// every date of a selected category falling on r.Weekday is included,
// limited to today onwards unless r.Past is set.
func Expand(r Recurrence, sem semester.Semester, c clock.Clock) []semester.Date {
	if r.Single() {
		return []semester.Date{r.Date}
	}

	today := semester.Today(c)
	seen := make(map[semester.Date]bool)
	var out []semester.Date
	for _, cat := range r.Categories() {
		for _, d := range sem.DatesIn(cat) {
			if d.Weekday() != r.Weekday || seen[d] {
				continue
			}
			if !r.Past && d.Before(today) {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
