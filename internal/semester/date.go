package semester

import (
	"fmt"
	"time"

	"github.com/christopherklint97/semplan/internal/clock"
)

// Layout is the textual form of a Date.
const Layout = "2006-01-02"

// Date is a calendar date without a time of day or zone. It is comparable
// and safe to use as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes overflowing components the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today is the date of c's current instant.
func Today(c clock.Clock) Date {
	return DateOf(clock.Or(c).Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of d. Day arithmetic is done in UTC so it never
// crosses a daylight-saving transition.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) ISOWeek() ISOWeek {
	y, w := d.Time().ISOWeek()
	return ISOWeek{Year: y, Week: w}
}

// Monday returns the Monday starting d's ISO week.
func (d Date) Monday() Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// DaysUntil returns the number of days from d to o, negative if o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) IsZero() bool       { return d == Date{} }

func (d Date) String() string {
	return d.Time().Format(Layout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range lists every date from first to last inclusive.
func Range(first, last Date) []Date {
	if last.Before(first) {
		return nil
	}
	out := make([]Date, 0, first.DaysUntil(last)+1)
	for d := first; !d.After(last); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ISOWeek identifies a week by ISO 8601 year and week number. The year is
// the ISO year, which differs from the calendar year around January 1st.
type ISOWeek struct {
	Year int
	Week int
}

func (w ISOWeek) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in year.
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// FirstMondayOfAugust is the start of the academic year beginning in year.
func FirstMondayOfAugust(year int) Date {
	d := NewDate(year, time.August, 1)
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDays(offset)
}
