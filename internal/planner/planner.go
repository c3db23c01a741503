package planner

import (
	"fmt"

	"github.com/christopherklint97/semplan/internal/semester"
)

// Planner wraps a Store with a linear commit history. Mutations made through
// the embedded Store are not recorded until Commit is called.
type Planner struct {
	*Store
	history []Snapshot
	pointer int
}

// New creates an empty planner for sem with a single initial snapshot.
func New(sem semester.Semester) *Planner {
	return Wrap(NewStore(sem))
}

// Wrap starts a history whose first snapshot is the current content of s.
func Wrap(s *Store) *Planner {
	return &Planner{Store: s, history: []Snapshot{s.Snapshot()}}
}

// Restore rebuilds a planner for sem from a saved history, making
// history[pointer] the live state.
func Restore(sem semester.Semester, history []Snapshot, pointer int) (*Planner, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("restoring planner: empty history")
	}
	if pointer < 0 || pointer >= len(history) {
		return nil, fmt.Errorf("restoring planner: pointer %d outside history of %d", pointer, len(history))
	}
	p := &Planner{
		Store:   NewStore(sem),
		history: append([]Snapshot(nil), history...),
		pointer: pointer,
	}
	if err := p.Store.load(history[pointer]); err != nil {
		return nil, fmt.Errorf("restoring planner: %w", err)
	}
	return p, nil
}

// Commit discards any redo tail and records the live state.
func (p *Planner) Commit() {
	p.history = append(p.history[:p.pointer+1], p.Store.Snapshot())
	p.pointer = len(p.history) - 1
}

// Undo moves back one snapshot and makes it the live state.
func (p *Planner) Undo() error {
	if !p.CanUndo() {
		return ErrNoUndoableState
	}
	p.pointer--
	return p.Store.load(p.history[p.pointer])
}

// Redo moves forward one snapshot and makes it the live state.
func (p *Planner) Redo() error {
	if !p.CanRedo() {
		return ErrNoRedoableState
	}
	p.pointer++
	return p.Store.load(p.history[p.pointer])
}

func (p *Planner) CanUndo() bool {
	return p.pointer > 0
}

func (p *Planner) CanRedo() bool {
	return p.pointer < len(p.history)-1
}

// Dirty reports whether the live state differs from the last commit.
func (p *Planner) Dirty() bool {
	return !p.Store.Snapshot().Equal(p.history[p.pointer])
}

func (p *Planner) Pointer() int {
	return p.pointer
}

func (p *Planner) HistoryLen() int {
	return len(p.history)
}

// History returns the snapshots in commit order.
func (p *Planner) History() []Snapshot {
	return append([]Snapshot(nil), p.history...)
}
