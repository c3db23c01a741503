package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

// StateReferenceDate is the state key holding the reference date the last
// saved planner was resolved from.
const StateReferenceDate = "reference_date"

// SemesterRecord summarises one persisted planner.
type SemesterRecord struct {
	Start         semester.Date
	Name          string
	AcademicYear  string
	ReferenceDate semester.Date
	Pointer       int
	Revisions     int
	UpdatedAt     time.Time
}

// Save writes the planner's full history and pointer, replacing what was
// stored for its semester. ref is remembered as the reference date and now
// stamps the rows.
func (db *DB) Save(p *planner.Planner, ref semester.Date, now time.Time) error {
	sem := p.Semester()
	start := sem.Start.String()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM history WHERE semester_start = ?", start); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	stamp := now.UTC().Format(time.RFC3339)
	for i, snap := range p.History() {
		payload, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encoding snapshot %d: %w", i, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO history (id, semester_start, position, taken_at, payload) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), start, i, stamp, string(payload),
		); err != nil {
			return fmt.Errorf("inserting snapshot %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO semesters (start, name, academic_year, reference_date, pointer, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(start) DO UPDATE SET
			name = excluded.name,
			academic_year = excluded.academic_year,
			reference_date = excluded.reference_date,
			pointer = excluded.pointer,
			updated_at = excluded.updated_at`,
		start, sem.Name, sem.AcademicYear, ref.String(), p.Pointer(), stamp,
	); err != nil {
		return fmt.Errorf("saving semester: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		StateReferenceDate, ref.String(),
	); err != nil {
		return fmt.Errorf("saving reference date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	db.logger.Debug("planner saved",
		"semester", sem.Name,
		"start", start,
		"revisions", p.HistoryLen(),
		"pointer", p.Pointer(),
	)
	return nil
}

// Load resolves the semester containing ref and restores its saved history.
// A semester that was never saved yields a fresh planner.
func (db *DB) Load(ref semester.Date) (*planner.Planner, error) {
	sem := semester.Resolve(ref)
	start := sem.Start.String()

	var pointer int
	err := db.QueryRow("SELECT pointer FROM semesters WHERE start = ?", start).Scan(&pointer)
	if err == sql.ErrNoRows {
		db.logger.Debug("no saved planner", "semester", sem.Name, "start", start)
		return planner.New(sem), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading semester: %w", err)
	}

	rows, err := db.Query(
		"SELECT payload FROM history WHERE semester_start = ? ORDER BY position ASC", start,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var history []planner.Snapshot
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		var snap planner.Snapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot %d: %w", len(history), err)
		}
		history = append(history, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	p, err := planner.Restore(sem, history, pointer)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("planner loaded",
		"semester", sem.Name,
		"start", start,
		"revisions", len(history),
		"pointer", pointer,
	)
	return p, nil
}

// ReferenceDate returns the reference date of the last save, if any.
func (db *DB) ReferenceDate() (semester.Date, bool, error) {
	v, err := db.GetState(StateReferenceDate)
	if err != nil || v == "" {
		return semester.Date{}, false, err
	}
	d, err := semester.ParseDate(v)
	if err != nil {
		return semester.Date{}, false, fmt.Errorf("stored reference date: %w", err)
	}
	return d, true, nil
}

// Semesters lists every saved planner, newest semester first.
func (db *DB) Semesters() ([]SemesterRecord, error) {
	rows, err := db.Query(
		`SELECT s.start, s.name, s.academic_year, s.reference_date, s.pointer, s.updated_at,
			(SELECT COUNT(*) FROM history h WHERE h.semester_start = s.start)
		 FROM semesters s
		 ORDER BY s.start DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying semesters: %w", err)
	}
	defer rows.Close()

	var out []SemesterRecord
	for rows.Next() {
		var r SemesterRecord
		var startStr, refStr, updatedStr string
		if err := rows.Scan(&startStr, &r.Name, &r.AcademicYear, &refStr, &r.Pointer, &updatedStr, &r.Revisions); err != nil {
			return nil, fmt.Errorf("scanning semester: %w", err)
		}
		if d, err := semester.ParseDate(startStr); err == nil {
			r.Start = d
		}
		if d, err := semester.ParseDate(refStr); err == nil {
			r.ReferenceDate = d
		}
		if t, err := time.Parse(time.RFC3339, updatedStr); err == nil {
			r.UpdatedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
