package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

var sem1 = semester.Resolve(semester.NewDate(2019, time.September, 1))

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestExportImport_RoundTrip(t *testing.T) {
	placements := []planner.Placement{
		{
			Date: semester.NewDate(2019, time.September, 2),
			Slot: planner.Slot{
				Name:        "Algorithms",
				Location:    "LT1",
				Description: "bring laptop",
				Start:       planner.TimeOfDay{Hour: 9, Minute: 30},
				Duration:    90,
				Tags:        []string{"cs", "lecture"},
			},
		},
		{
			Date: semester.NewDate(2019, time.October, 15),
			Slot: planner.Slot{Name: "Consult", Start: planner.TimeOfDay{Hour: 16}, Duration: 30},
		},
	}

	var buf bytes.Buffer
	stamp := time.Date(2019, 8, 1, 0, 0, 0, 0, time.UTC)
	if err := Export(&buf, placements, time.UTC, stamp); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"BEGIN:VEVENT", "20190902T093000Z", "20190902T110000Z", "SUMMARY:Algorithms", "CATEGORIES:cs,lecture"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}

	got, err := Import(&buf, sem1, time.UTC)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got.Skipped) != 0 {
		t.Errorf("unexpected skipped events: %+v", got.Skipped)
	}
	if len(got.Placements) != len(placements) {
		t.Fatalf("got %d placements, want %d", len(got.Placements), len(placements))
	}
	for i, p := range got.Placements {
		if p.Date != placements[i].Date || !p.Slot.Equal(placements[i].Slot) {
			t.Errorf("placement %d = %v %v, want %v %v", i, p.Date, p.Slot, placements[i].Date, placements[i].Slot)
		}
	}
}

func TestEventUID_Stable(t *testing.T) {
	d := semester.NewDate(2019, time.September, 2)
	s := planner.Slot{Name: "Lab", Start: planner.TimeOfDay{Hour: 14}, Duration: 120}

	if EventUID(d, s, 0) != EventUID(d, s, 0) {
		t.Error("EventUID should be deterministic")
	}
	if EventUID(d, s, 0) == EventUID(d.AddDays(7), s, 0) {
		t.Error("different dates should give different UIDs")
	}

	tagged := s
	tagged.Tags = []string{"b", "a"}
	reordered := s
	reordered.Tags = []string{"a", "b"}
	if EventUID(d, tagged, 0) != EventUID(d, reordered, 0) {
		t.Error("tag order should not change the UID")
	}
	if EventUID(d, s, 0) == EventUID(d, tagged, 0) {
		t.Error("tags should change the UID")
	}
}

func TestExport_DistinctUIDs(t *testing.T) {
	d := semester.NewDate(2019, time.September, 2)
	lecture := planner.Slot{Name: "Lecture", Start: planner.TimeOfDay{Hour: 9}, Duration: 60}
	notes := lecture
	notes.Description = "week 4 notes"
	quiz := lecture
	quiz.Description = "quiz"

	placements := []planner.Placement{
		{Date: d, Slot: notes},
		{Date: d, Slot: quiz},
		{Date: d, Slot: lecture},
		{Date: d, Slot: lecture},
	}
	var buf bytes.Buffer
	if err := Export(&buf, placements, time.UTC, time.Date(2019, 8, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	uids := make(map[string]bool)
	for _, line := range strings.Split(buf.String(), "\r\n") {
		if uid, ok := strings.CutPrefix(line, "UID:"); ok {
			if uids[uid] {
				t.Errorf("UID %s exported twice", uid)
			}
			uids[uid] = true
		}
	}
	if len(uids) != len(placements) {
		t.Errorf("got %d distinct UIDs, want %d", len(uids), len(placements))
	}
}

func TestImport_ExpandsRecurrenceWithinSemester(t *testing.T) {
	ics := crlf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:weekly@test
DTSTAMP:20190801T000000Z
DTSTART:20190902T100000Z
DTEND:20190902T120000Z
RRULE:FREQ=WEEKLY;COUNT=30
SUMMARY:Lab
CATEGORIES:lab,cs
END:VEVENT
BEGIN:VEVENT
UID:once@test
DTSTAMP:20190801T000000Z
DTSTART:20200302T100000Z
DTEND:20200302T110000Z
SUMMARY:Later
END:VEVENT
BEGIN:VEVENT
UID:untitled@test
DTSTAMP:20190801T000000Z
DTSTART:20190903T100000Z
DTEND:20190903T110000Z
END:VEVENT
END:VCALENDAR
`)

	got, err := Import(strings.NewReader(ics), sem1, time.UTC)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	// 30 weekly Mondays from Sep 2, of which Sep 2..Dec 2 fall in Sem 1.
	var labs []planner.Placement
	var later []planner.Placement
	for _, p := range got.Placements {
		switch p.Slot.Name {
		case "Lab":
			labs = append(labs, p)
		case "Later":
			later = append(later, p)
		}
	}
	if len(labs) != 14 {
		t.Fatalf("got %d lab occurrences, want 14", len(labs))
	}
	if labs[0].Date != semester.NewDate(2019, time.September, 2) || labs[13].Date != semester.NewDate(2019, time.December, 2) {
		t.Errorf("lab range = %v..%v", labs[0].Date, labs[13].Date)
	}
	wantSlot := planner.Slot{Name: "Lab", Start: planner.TimeOfDay{Hour: 10}, Duration: 120, Tags: []string{"cs", "lab"}}
	if !labs[0].Slot.Equal(wantSlot) {
		t.Errorf("lab slot = %+v, want %+v", labs[0].Slot, wantSlot)
	}

	if len(later) != 1 || later[0].Date != semester.NewDate(2020, time.March, 2) {
		t.Errorf("one-off event should pass through unchanged, got %+v", later)
	}

	if len(got.Skipped) != 1 || got.Skipped[0].UID != "untitled@test" {
		t.Errorf("Skipped = %+v, want the untitled event", got.Skipped)
	}
}

func TestImport_Malformed(t *testing.T) {
	if _, err := Import(strings.NewReader("BEGIN:VCALENDAR\r\nnot a property\r\n"), sem1, time.UTC); err == nil {
		t.Error("expected a parse error")
	}
}
