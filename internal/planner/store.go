// Package planner holds the date -> Day -> Slot aggregate of one semester
// and the undo/redo history built on top of it.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/christopherklint97/semplan/internal/semester"
)

// ErrInvalidSlot indicates a slot without a name or with a negative duration.
var ErrInvalidSlot = errors.New("invalid slot")

// Validate checks the fields a slot cannot do without.
func (s Slot) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSlot)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: duration %d is negative", ErrInvalidSlot, s.Duration)
	}
	return nil
}

// Day is a read-only view of one date of the semester.
type Day struct {
	date      semester.Date
	weekLabel string
	slots     []Slot
}

func (d Day) Date() semester.Date     { return d.date }
func (d Day) DayOfWeek() time.Weekday { return d.date.Weekday() }
func (d Day) WeekLabel() string       { return d.weekLabel }
func (d Day) Len() int                { return len(d.slots) }
func (d Day) Slots() []Slot           { return cloneSlots(d.slots) }

func (d *Day) view() Day {
	return Day{date: d.date, weekLabel: d.weekLabel, slots: cloneSlots(d.slots)}
}

// Placement is a slot at a date.
type Placement struct {
	Date semester.Date `json:"date"`
	Slot Slot          `json:"slot"`
}

// Edit lists the changes EditSlot applies. Nil pointers, empty strings and
// an empty tag list leave the corresponding field untouched, so a text
// field cannot be cleared through an edit.
type Edit struct {
	Date        *semester.Date
	Start       *TimeOfDay
	Duration    *int
	Name        string
	Location    string
	Description string
	Tags        []string
}

func (e Edit) apply(s Slot) Slot {
	if e.Start != nil {
		s.Start = *e.Start
	}
	if e.Duration != nil {
		s.Duration = *e.Duration
	}
	if e.Name != "" {
		s.Name = e.Name
	}
	if e.Location != "" {
		s.Location = e.Location
	}
	if e.Description != "" {
		s.Description = e.Description
	}
	if tags := NewTags(e.Tags...); len(tags) > 0 {
		s.Tags = tags
	}
	return s
}

// Store is the mutable aggregate of one semester's days. All mutation goes
// through its methods; everything it hands out is a copy.
type Store struct {
	sem  semester.Semester
	days map[semester.Date]*Day
}

// NewStore creates an empty Day for every date of sem.
func NewStore(sem semester.Semester) *Store {
	dates := sem.Dates()
	s := &Store{sem: sem, days: make(map[semester.Date]*Day, len(dates))}
	for _, d := range dates {
		label, _ := sem.Label(d)
		s.days[d] = &Day{date: d, weekLabel: label}
	}
	return s
}

func (s *Store) Semester() semester.Semester {
	return s.sem
}

func (s *Store) day(d semester.Date) (*Day, error) {
	if !s.sem.Contains(d) {
		return nil, &DateError{Date: d, Start: s.sem.Start, End: s.sem.End}
	}
	day, ok := s.days[d]
	if !ok {
		panic(fmt.Sprintf("planner: %s is inside %s..%s but has no day", d, s.sem.Start, s.sem.End))
	}
	return day, nil
}

// AddSlot appends slot to the day at d and returns the updated day.
func (s *Store) AddSlot(d semester.Date, slot Slot) (Day, error) {
	day, err := s.day(d)
	if err != nil {
		return Day{}, err
	}
	if err := slot.Validate(); err != nil {
		return Day{}, err
	}
	day.slots = append(day.slots, slot.clone())
	return day.view(), nil
}

// RemoveSlot removes the first slot at d equal to slot. A missing slot is
// not an error; removed reports whether anything changed.
func (s *Store) RemoveSlot(d semester.Date, slot Slot) (removed bool, err error) {
	day, err := s.day(d)
	if err != nil {
		return false, err
	}
	i := indexOf(day.slots, slot)
	if i < 0 {
		return false, nil
	}
	day.slots = append(day.slots[:i:i], day.slots[i+1:]...)
	return true, nil
}

// EditSlot applies e to the first slot at target equal to slot. When e
// names a different date the edited slot moves there. It returns the day
// holding the edited slot.
func (s *Store) EditSlot(target semester.Date, slot Slot, e Edit) (Day, error) {
	from, err := s.day(target)
	if err != nil {
		return Day{}, err
	}
	to := from
	if e.Date != nil && *e.Date != target {
		if to, err = s.day(*e.Date); err != nil {
			return Day{}, err
		}
	}
	i := indexOf(from.slots, slot)
	if i < 0 {
		return Day{}, fmt.Errorf("%w: %s on %s", ErrSlotNotFound, slot.Name, target)
	}

	edited := e.apply(from.slots[i].clone())
	if err := edited.Validate(); err != nil {
		return Day{}, err
	}
	if to == from {
		from.slots[i] = edited
		return from.view(), nil
	}
	from.slots = append(from.slots[:i:i], from.slots[i+1:]...)
	to.slots = append(to.slots, edited)
	return to.view(), nil
}

// ClearSlots empties every day, keeping the days themselves.
func (s *Store) ClearSlots() {
	for _, day := range s.days {
		day.slots = nil
	}
}

// Day returns a copy of the day at d.
func (s *Store) Day(d semester.Date) (Day, error) {
	day, err := s.day(d)
	if err != nil {
		return Day{}, err
	}
	return day.view(), nil
}

// Slots returns a copy of the slots at d.
func (s *Store) Slots(d semester.Date) ([]Slot, error) {
	day, err := s.day(d)
	if err != nil {
		return nil, err
	}
	return cloneSlots(day.slots), nil
}

// Contains reports whether a slot equal to slot exists at d.
func (s *Store) Contains(d semester.Date, slot Slot) bool {
	day, err := s.day(d)
	return err == nil && indexOf(day.slots, slot) >= 0
}

// Days returns every day in date order.
func (s *Store) Days() []Day {
	dates := s.sem.Dates()
	out := make([]Day, 0, len(dates))
	for _, d := range dates {
		out = append(out, s.days[d].view())
	}
	return out
}

// Placements lists every slot with its date, by date then insertion order.
func (s *Store) Placements() []Placement {
	var out []Placement
	for _, d := range s.sem.Dates() {
		for _, slot := range s.days[d].slots {
			out = append(out, Placement{Date: d, Slot: slot.clone()})
		}
	}
	return out
}

// Count returns the total number of slots.
func (s *Store) Count() int {
	n := 0
	for _, day := range s.days {
		n += len(day.slots)
	}
	return n
}

// Match is one slot found by a tag query.
type Match struct {
	Day  Day
	Slot Slot
}

func (m Match) Date() semester.Date { return m.Day.date }

// FindByTags returns every slot carrying all of tags, in date order. A day
// with several matches contributes one Match per slot.
func (s *Store) FindByTags(tags []string) []Match {
	query := NewTags(tags...)
	var out []Match
	for _, d := range s.sem.Dates() {
		day := s.days[d]
		for _, slot := range day.slots {
			if slot.HasTags(query) {
				out = append(out, Match{Day: day.view(), Slot: slot.clone()})
			}
		}
	}
	return out
}

// TaggedByDate groups the results of FindByTags by date.
func (s *Store) TaggedByDate(tags []string) map[semester.Date][]Slot {
	out := make(map[semester.Date][]Slot)
	for _, m := range s.FindByTags(tags) {
		out[m.Date()] = append(out[m.Date()], m.Slot)
	}
	return out
}

// Snapshot takes a deep copy of every day's slots.
func (s *Store) Snapshot() Snapshot {
	slots := make(map[semester.Date][]Slot)
	for d, day := range s.days {
		if len(day.slots) > 0 {
			slots[d] = cloneSlots(day.slots)
		}
	}
	return Snapshot{slots: slots}
}

// load replaces the contents of every day with snap.
func (s *Store) load(snap Snapshot) error {
	for d := range snap.slots {
		if _, err := s.day(d); err != nil {
			return err
		}
	}
	for d, day := range s.days {
		day.slots = cloneSlots(snap.slots[d])
	}
	return nil
}

func indexOf(slots []Slot, target Slot) int {
	for i, s := range slots {
		if s.Equal(target) {
			return i
		}
	}
	return -1
}
