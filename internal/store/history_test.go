package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "semplan.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var (
	ref     = semester.NewDate(2019, time.September, 1)
	savedAt = time.Date(2019, time.September, 1, 12, 0, 0, 0, time.UTC)
	lecture = planner.Slot{
		Name:     "Algorithms",
		Location: "LT1",
		Start:    planner.TimeOfDay{Hour: 9},
		Duration: 90,
		Tags:     []string{"cs", "lecture"},
	}
)

func TestLoad_FreshPlanner(t *testing.T) {
	db := openTestDB(t)

	p, err := db.Load(ref)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.HistoryLen() != 1 || p.Pointer() != 0 || p.Count() != 0 {
		t.Errorf("fresh planner: len=%d pointer=%d count=%d", p.HistoryLen(), p.Pointer(), p.Count())
	}
	if _, ok, _ := db.ReferenceDate(); ok {
		t.Error("reference date should be unset before the first save")
	}
}

func TestSaveLoad_KeepsHistoryAndPointer(t *testing.T) {
	db := openTestDB(t)

	p, _ := db.Load(ref)
	monday := semester.NewDate(2019, time.September, 2)
	tuesday := monday.AddDays(1)
	if _, err := p.AddSlot(monday, lecture); err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	p.Commit()
	if _, err := p.AddSlot(tuesday, lecture); err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	p.Commit()
	if err := p.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	if err := db.Save(p, ref, savedAt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := db.Load(ref)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HistoryLen() != 3 || got.Pointer() != 1 {
		t.Fatalf("len=%d pointer=%d, want 3 and 1", got.HistoryLen(), got.Pointer())
	}
	if !got.Contains(monday, lecture) || got.Contains(tuesday, lecture) {
		t.Error("live state should hold only the Monday slot")
	}
	if err := got.Redo(); err != nil {
		t.Fatalf("Redo after reload: %v", err)
	}
	if !got.Contains(tuesday, lecture) {
		t.Error("redo after reload should restore the Tuesday slot")
	}

	stored, ok, err := db.ReferenceDate()
	if err != nil || !ok || stored != ref {
		t.Errorf("ReferenceDate() = %v, %v, %v", stored, ok, err)
	}
}

func TestSave_ReplacesPreviousRows(t *testing.T) {
	db := openTestDB(t)

	p, _ := db.Load(ref)
	d := semester.NewDate(2019, time.September, 3)
	p.AddSlot(d, lecture)
	p.Commit()
	if err := db.Save(p, ref, savedAt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p.ClearSlots()
	p.Commit()
	later := savedAt.Add(time.Hour)
	if err := db.Save(p, ref, later); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	recs, err := db.Semesters()
	if err != nil {
		t.Fatalf("Semesters: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d semesters, want 1", len(recs))
	}
	r := recs[0]
	if r.Revisions != 3 || r.Pointer != 2 || r.Name != semester.Sem1 || r.ReferenceDate != ref {
		t.Errorf("record = %+v", r)
	}
	if r.Start != semester.NewDate(2019, time.August, 5) {
		t.Errorf("Start = %v, want 2019-08-05", r.Start)
	}
	if !r.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want the save time %v", r.UpdatedAt, later)
	}
}

func TestLoad_SemestersAreIndependent(t *testing.T) {
	db := openTestDB(t)

	sem1, _ := db.Load(ref)
	sem1.AddSlot(semester.NewDate(2019, time.September, 2), lecture)
	sem1.Commit()
	if err := db.Save(sem1, ref, savedAt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	spring := semester.NewDate(2020, time.February, 3)
	sem2, err := db.Load(spring)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sem2.Semester().Name != semester.Sem2 || sem2.Count() != 0 {
		t.Errorf("Sem 2 planner should be fresh, got %s with %d slots", sem2.Semester().Name, sem2.Count())
	}

	again, _ := db.Load(ref)
	if again.Count() != 1 {
		t.Errorf("Sem 1 planner lost its slot: count=%d", again.Count())
	}
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	if v, err := db.GetState("missing"); err != nil || v != "" {
		t.Errorf("GetState(missing) = %q, %v", v, err)
	}
	if err := db.SetState("k", "a"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if err := db.SetState("k", "b"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if v, _ := db.GetState("k"); v != "b" {
		t.Errorf("GetState(k) = %q, want b", v)
	}
}
