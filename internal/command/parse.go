package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/semplan/internal/recurrence"
	"github.com/christopherklint97/semplan/internal/semester"
)

var ErrInvalidInput = errors.New("invalid input")

var dateLayouts = []string{semester.Layout, "02-01-2006", "2/1/2006"}

// ParseDate accepts ISO and day-first dates as well as natural language
// such as "tomorrow" or "next friday", resolved against now.
func ParseDate(input string, now time.Time) (semester.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return semester.Date{}, fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return semester.DateOf(t), nil
		}
	}
	lower := strings.ToLower(input)
	if lower == "today" || lower == "now" {
		return semester.DateOf(now), nil
	}

	t, err := naturaldate.Parse(input, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return semester.Date{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, input, err)
	}
	if t.Equal(now) {
		return semester.Date{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, input)
	}
	return semester.DateOf(t), nil
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func ParseWeekday(input string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return 0, fmt.Errorf("%w: weekday %q", ErrInvalidInput, input)
	}
	return wd, nil
}

// ParseCategory accepts "normal", "recess", "reading" and "exam".
func ParseCategory(input string) (semester.Category, error) {
	name := strings.ToLower(strings.TrimSpace(input))
	for _, c := range semester.Categories() {
		if c.String() == name {
			return c, nil
		}
	}
	if name == "examination" {
		return semester.Exam, nil
	}
	return 0, fmt.Errorf("%w: category %q", ErrInvalidInput, input)
}

// ParseTags splits comma- or space-separated tags.
func ParseTags(inputs ...string) []string {
	var tags []string
	for _, in := range inputs {
		tags = append(tags, strings.FieldsFunc(in, func(r rune) bool {
			return r == ',' || r == ' '
		})...)
	}
	return tags
}

// When is the raw description of where a command applies.
type When struct {
	Date       string
	Weekday    string
	Categories []string
	Past       bool
}

// Recurrence turns w into a recurrence. A date wins over a weekday; giving
// both requires them to agree.
func (w When) Recurrence(now time.Time) (recurrence.Recurrence, error) {
	var r recurrence.Recurrence
	switch {
	case w.Date != "":
		d, err := ParseDate(w.Date, now)
		if err != nil {
			return r, err
		}
		r = recurrence.OnDate(d)
		if w.Weekday != "" {
			wd, err := ParseWeekday(w.Weekday)
			if err != nil {
				return r, err
			}
			if wd != d.Weekday() {
				return r, fmt.Errorf("%w: %s is a %s, not a %s", ErrInvalidInput, d, d.Weekday(), wd)
			}
		}
	case w.Weekday != "":
		wd, err := ParseWeekday(w.Weekday)
		if err != nil {
			return r, err
		}
		r = recurrence.OnWeekday(wd, semester.DateOf(now))
	default:
		return r, fmt.Errorf("%w: a date or a weekday is required", ErrInvalidInput)
	}

	for _, name := range w.Categories {
		c, err := ParseCategory(name)
		if err != nil {
			return r, err
		}
		r = r.With(c)
	}
	r.Past = w.Past
	return r, nil
}
