package planner

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/christopherklint97/semplan/internal/semester"
)

func TestPlanner_InitialState(t *testing.T) {
	p := New(testSemester(t))

	if p.HistoryLen() != 1 || p.Pointer() != 0 {
		t.Errorf("history = %d, pointer = %d, want 1, 0", p.HistoryLen(), p.Pointer())
	}
	if p.CanUndo() || p.CanRedo() {
		t.Error("fresh planner should have nothing to undo or redo")
	}
	if err := p.Undo(); !errors.Is(err, ErrNoUndoableState) {
		t.Errorf("Undo() = %v, want ErrNoUndoableState", err)
	}
	if err := p.Redo(); !errors.Is(err, ErrNoRedoableState) {
		t.Errorf("Redo() = %v, want ErrNoRedoableState", err)
	}
}

func TestPlanner_CommitUndoRedo(t *testing.T) {
	p := New(testSemester(t))
	d := day(time.September, 2)

	_, _ = p.AddSlot(d, lecture())
	if !p.Dirty() {
		t.Error("uncommitted add should make the planner dirty")
	}
	p.Commit()
	if p.Dirty() || p.HistoryLen() != 2 || p.CanRedo() {
		t.Fatalf("after commit: dirty=%v len=%d canRedo=%v", p.Dirty(), p.HistoryLen(), p.CanRedo())
	}

	before := p.Placements()

	if err := p.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if p.Count() != 0 {
		t.Errorf("after undo Count() = %d, want 0", p.Count())
	}
	if !p.CanRedo() {
		t.Error("CanRedo() should be true after undo")
	}

	if err := p.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := p.Placements(); !reflect.DeepEqual(got, before) {
		t.Errorf("after redo placements = %v, want %v", got, before)
	}
}

func TestPlanner_UndoDiscardsUncommittedChanges(t *testing.T) {
	p := New(testSemester(t))
	_, _ = p.AddSlot(day(time.September, 2), lecture())
	p.Commit()

	_, _ = p.AddSlot(day(time.September, 3), lecture())
	if err := p.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if p.Count() != 0 {
		t.Errorf("Count() = %d, want 0", p.Count())
	}
}

func TestPlanner_CommitTruncatesRedoTail(t *testing.T) {
	p := New(testSemester(t))
	for i := 0; i < 3; i++ {
		_, _ = p.AddSlot(day(time.September, 2+i), lecture())
		p.Commit()
	}
	if p.HistoryLen() != 4 {
		t.Fatalf("HistoryLen() = %d, want 4", p.HistoryLen())
	}

	_ = p.Undo()
	_ = p.Undo()

	t.Run("commit straight after undo drops the redo tail", func(t *testing.T) {
		p.Commit()
		if p.HistoryLen() != 3 {
			t.Errorf("HistoryLen() = %d, want 3", p.HistoryLen())
		}
		if p.CanRedo() {
			t.Error("CanRedo() should be false after commit")
		}
		if p.Pointer() != p.HistoryLen()-1 {
			t.Errorf("pointer = %d, want %d", p.Pointer(), p.HistoryLen()-1)
		}
	})

	t.Run("commit after a mutation grows by one", func(t *testing.T) {
		_, _ = p.AddSlot(day(time.October, 1), lecture())
		p.Commit()
		if p.HistoryLen() != 4 {
			t.Errorf("HistoryLen() = %d, want 4", p.HistoryLen())
		}
	})
}

func TestRestore(t *testing.T) {
	p := New(testSemester(t))
	_, _ = p.AddSlot(day(time.September, 2), lecture())
	p.Commit()
	_, _ = p.AddSlot(day(time.September, 3), lecture())
	p.Commit()
	_ = p.Undo()

	data, err := json.Marshal(p.History())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var history []Snapshot
	if err := json.Unmarshal(data, &history); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	restored, err := Restore(testSemester(t), history, p.Pointer())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !reflect.DeepEqual(restored.Placements(), p.Placements()) {
		t.Errorf("restored placements = %v, want %v", restored.Placements(), p.Placements())
	}
	if err := restored.Redo(); err != nil {
		t.Fatalf("Redo on restored planner: %v", err)
	}
	if restored.Count() != 2 {
		t.Errorf("Count() after redo = %d, want 2", restored.Count())
	}

	t.Run("bad pointer", func(t *testing.T) {
		if _, err := Restore(testSemester(t), history, len(history)); err == nil {
			t.Error("expected error for pointer past the end")
		}
	})
	t.Run("snapshot outside the semester", func(t *testing.T) {
		bad := NewSnapshot(map[semester.Date][]Slot{day(time.December, 25): {lecture()}})
		if _, err := Restore(testSemester(t), []Snapshot{bad}, 0); !errors.Is(err, ErrDateNotFound) {
			t.Errorf("error = %v, want ErrDateNotFound", err)
		}
	})
}
