// Package command runs planner operations over the dates a recurrence
// expands to. A date that cannot take the operation is reported and the
// rest of the batch carries on; the planner is committed once at the end
// if anything changed.
package command

import (
	"errors"
	"fmt"

	"github.com/christopherklint97/semplan/internal/clock"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/recurrence"
	"github.com/christopherklint97/semplan/internal/semester"
)

// Rejection is a date an operation was refused on.
type Rejection struct {
	Date semester.Date
	Err  error
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %v", r.Date, r.Err)
}

// Result summarizes a batch.
type Result struct {
	Applied   []semester.Date
	Rejected  []Rejection
	Committed bool
}

func (r *Result) reject(d semester.Date, err error) {
	r.Rejected = append(r.Rejected, Rejection{Date: d, Err: err})
}

func (r *Result) finish(p *planner.Planner) {
	if len(r.Applied) > 0 {
		p.Commit()
		r.Committed = true
	}
}

// recoverable reports whether err only concerns one date of a batch.
func recoverable(err error) bool {
	return errors.Is(err, planner.ErrDateNotFound) || errors.Is(err, planner.ErrSlotNotFound)
}

// Add places slot on every date r expands to.
func Add(p *planner.Planner, c clock.Clock, slot planner.Slot, r recurrence.Recurrence) (Result, error) {
	var res Result
	if err := slot.Validate(); err != nil {
		return res, err
	}
	for _, d := range recurrence.Expand(r, p.Semester(), c) {
		if _, err := p.AddSlot(d, slot); err != nil {
			if !recoverable(err) {
				return res, err
			}
			res.reject(d, err)
			continue
		}
		res.Applied = append(res.Applied, d)
	}
	res.finish(p)
	return res, nil
}

// Delete removes slot from every date r expands to. Dates where the slot
// does not exist are rejected with planner.ErrSlotNotFound.
func Delete(p *planner.Planner, c clock.Clock, slot planner.Slot, r recurrence.Recurrence) (Result, error) {
	var res Result
	for _, d := range recurrence.Expand(r, p.Semester(), c) {
		removed, err := p.RemoveSlot(d, slot)
		switch {
		case err != nil && !recoverable(err):
			return res, err
		case err != nil:
			res.reject(d, err)
		case !removed:
			res.reject(d, planner.ErrSlotNotFound)
		default:
			res.Applied = append(res.Applied, d)
		}
	}
	res.finish(p)
	return res, nil
}

// Edit applies e to slot on every date r expands to. A new date in e is
// taken relative to r's anchor, so each occurrence moves by the same
// number of days.
func Edit(p *planner.Planner, c clock.Clock, slot planner.Slot, r recurrence.Recurrence, e planner.Edit) (Result, error) {
	var res Result
	shift := 0
	if e.Date != nil {
		shift = r.Date.DaysUntil(*e.Date)
	}
	for _, d := range recurrence.Expand(r, p.Semester(), c) {
		edit := e
		if e.Date != nil {
			moved := d.AddDays(shift)
			edit.Date = &moved
		}
		if _, err := p.EditSlot(d, slot, edit); err != nil {
			if !recoverable(err) {
				return res, err
			}
			res.reject(d, err)
			continue
		}
		res.Applied = append(res.Applied, d)
	}
	res.finish(p)
	return res, nil
}

// Place adds each placement on its own date, as an import does. Invalid
// slots are rejected like out-of-bounds dates.
func Place(p *planner.Planner, placements []planner.Placement) Result {
	var res Result
	for _, pl := range placements {
		if _, err := p.AddSlot(pl.Date, pl.Slot); err != nil {
			res.reject(pl.Date, err)
			continue
		}
		res.Applied = append(res.Applied, pl.Date)
	}
	res.finish(p)
	return res
}

// Find lists every slot carrying all of tags.
func Find(p *planner.Planner, tags []string) []planner.Match {
	return p.FindByTags(planner.NewTags(tags...))
}

// Clear empties the planner and commits.
func Clear(p *planner.Planner) Result {
	var res Result
	if p.Count() == 0 {
		return res
	}
	p.ClearSlots()
	p.Commit()
	res.Committed = true
	return res
}
