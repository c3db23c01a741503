// Package semester models the two-semester academic year and resolves any
// date to the semester a planner should be built around.
package semester

import "sort"

// Semester is the resolved, read-only structure of one planning period:
// its name, bounds, week labels and category date sets. Every date in
// [Start, End] carries exactly one label and one category.
type Semester struct {
	Name         string
	AcademicYear string
	Start        Date
	End          Date
	WeekCount    int
	Calendar     Calendar

	labels     map[Date]string
	categories map[Date]Category
	byCategory map[Category][]Date
}

// Resolve derives the semester to plan in from a reference date. It is
// total: every date falls inside some academic year layout.
//
// In-term dates resolve to their own semester. A date in the winter
// vacation resolves to the upcoming Sem 2 with the vacation weeks in front;
// a date in the summer vacation resolves to the next academic year's Sem 1,
// likewise prefixed by the remaining vacation.
func Resolve(ref Date) Semester {
	year := academicYearOf(ref)
	cur := layoutAcademicYear(year)
	calendarWeeks := cur.weeks

	var weeks []Week
	var name, ayLabel string

	current := cur.weeks[cur.weekIndex(ref)]
	sem2Start := sem1TermWeeks + winterVacationWeeks
	sem2End := sem2Start + sem2TermWeeks
	switch {
	case current.Label == LabelVacation && current.Semester == Sem1:
		name, ayLabel = Sem2, cur.label
		weeks = cur.weeks[sem1TermWeeks:sem2End]
	case current.Label == LabelVacation && current.Semester == Sem2:
		next := layoutAcademicYear(year + 1)
		name, ayLabel = Sem1, next.label
		weeks = append(append([]Week{}, cur.weeks[sem2End:]...), next.weeks[:sem1TermWeeks]...)
		calendarWeeks = append(append([]Week{}, cur.weeks...), next.weeks...)
	case current.Semester == Sem1:
		name, ayLabel = Sem1, cur.label
		weeks = cur.weeks[:sem1TermWeeks]
	default:
		name, ayLabel = Sem2, cur.label
		weeks = cur.weeks[sem2Start:sem2End]
	}

	s := Semester{
		Name:         name,
		AcademicYear: ayLabel,
		Start:        weeks[0].Monday,
		End:          weeks[len(weeks)-1].Sunday(),
		WeekCount:    len(weeks),
		Calendar:     newCalendar(calendarWeeks),
	}
	s.index()
	return s
}

func (s *Semester) index() {
	dates := Range(s.Start, s.End)
	s.labels = make(map[Date]string, len(dates))
	s.categories = make(map[Date]Category, len(dates))
	s.byCategory = make(map[Category][]Date, 4)
	for _, d := range dates {
		w, ok := s.Calendar.Week(d)
		if !ok {
			panic("semester: no calendar week for " + d.String())
		}
		label := w.FullLabel()
		c := CategoryOf(label)
		s.labels[d] = label
		s.categories[d] = c
		s.byCategory[c] = append(s.byCategory[c], d)
	}
}

// Contains reports whether d lies within the semester bounds.
func (s Semester) Contains(d Date) bool {
	if s.labels == nil {
		return false
	}
	return !d.Before(s.Start) && !d.After(s.End)
}

// Dates lists every date of the semester in order.
func (s Semester) Dates() []Date {
	if s.labels == nil {
		return nil
	}
	return Range(s.Start, s.End)
}

// Label returns the week label stamped on d, e.g. "Recess Week_Sem 1".
func (s Semester) Label(d Date) (string, bool) {
	l, ok := s.labels[d]
	return l, ok
}

func (s Semester) Category(d Date) (Category, bool) {
	c, ok := s.categories[d]
	return c, ok
}

// DatesIn returns a sorted copy of the dates in category c.
func (s Semester) DatesIn(c Category) []Date {
	src := s.byCategory[c]
	out := make([]Date, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s Semester) NormalDates() []Date  { return s.DatesIn(Normal) }
func (s Semester) RecessDates() []Date  { return s.DatesIn(Recess) }
func (s Semester) ReadingDates() []Date { return s.DatesIn(Reading) }
func (s Semester) ExamDates() []Date    { return s.DatesIn(Exam) }

// WeekOf returns the Monday..Sunday dates of the week containing d.
func (s Semester) WeekOf(d Date) []Date {
	m := d.Monday()
	return Range(m, m.AddDays(6))
}

// Weeks returns the calendar weeks that fall inside the semester bounds.
func (s Semester) Weeks() []Week {
	var out []Week
	for _, w := range s.Calendar.Weeks() {
		if s.Contains(w.Monday) {
			out = append(out, w)
		}
	}
	return out
}
