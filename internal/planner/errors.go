package planner

import (
	"errors"
	"fmt"

	"github.com/christopherklint97/semplan/internal/semester"
)

var (
	// ErrDateNotFound indicates a date outside the planner's semester.
	ErrDateNotFound = errors.New("date not found in semester")

	// ErrSlotNotFound indicates no slot at the date equals the one given.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrNoUndoableState indicates the history pointer is at the first snapshot.
	ErrNoUndoableState = errors.New("nothing to undo")

	// ErrNoRedoableState indicates the history pointer is at the last snapshot.
	ErrNoRedoableState = errors.New("nothing to redo")
)

// DateError reports a rejected date. It unwraps to ErrDateNotFound.
type DateError struct {
	Date  semester.Date
	Start semester.Date
	End   semester.Date
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s is outside the semester (%s to %s)", e.Date, e.Start, e.End)
}

func (e *DateError) Unwrap() error {
	return ErrDateNotFound
}
