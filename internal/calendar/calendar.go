// Package calendar converts planner placements to and from iCalendar.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

const ProductID = "-//semplan//semplan//EN"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/christopherklint97/semplan"))

// Open returns a reader for an .ics file path or an http(s) URL.
func Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening calendar file: %w", err)
	}
	return f, nil
}

// EventUID is stable for a slot at a date, so re-exporting updates events
// in place instead of duplicating them. n counts earlier equal slots on the
// same date and keeps duplicates apart.
func EventUID(d semester.Date, s planner.Slot, n int) string {
	return uuid.NewSHA1(uidNamespace, []byte(uidKey(d, s, n))).String() + "@semplan"
}

func uidKey(d semester.Date, s planner.Slot, n int) string {
	tags := slices.Clone(s.Tags)
	slices.Sort(tags)
	return fmt.Sprintf("%s|%s|%s|%d|%s|%s|%s|%d",
		d, s.Name, s.Start, s.Duration, s.Location, s.Description, strings.Join(tags, ","), n)
}

// Export writes one VEVENT per placement. Slot times are read as wall-clock
// times in loc and written in UTC.
func Export(w io.Writer, placements []planner.Placement, loc *time.Location, stamp time.Time) error {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	seen := make(map[string]int)
	for _, p := range placements {
		key := uidKey(p.Date, p.Slot, 0)
		n := seen[key]
		seen[key]++

		start := time.Date(p.Date.Year, p.Date.Month, p.Date.Day, p.Slot.Start.Hour, p.Slot.Start.Minute, 0, 0, loc)
		end := start.Add(time.Duration(p.Slot.Duration) * time.Minute)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(p.Date, p.Slot, n))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
		event.Props.SetText(ical.PropSummary, p.Slot.Name)
		if p.Slot.Location != "" {
			event.Props.SetText(ical.PropLocation, p.Slot.Location)
		}
		if p.Slot.Description != "" {
			event.Props.SetText(ical.PropDescription, p.Slot.Description)
		}
		if len(p.Slot.Tags) > 0 {
			prop := ical.NewProp(ical.PropCategories)
			prop.SetTextList(p.Slot.Tags)
			event.Props.Set(prop)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// Skipped is an event Import could not turn into placements.
type Skipped struct {
	UID    string
	Reason string
}

// Imported holds the result of decoding a calendar.
type Imported struct {
	Placements []planner.Placement
	Skipped    []Skipped
}

// Import decodes every VEVENT in r. Recurring events are expanded between
// the semester's first and last date; one-off events are passed through
// as they are, so dates outside the semester surface when placed.
func Import(r io.Reader, sem semester.Semester, loc *time.Location) (Imported, error) {
	if loc == nil {
		loc = time.Local
	}
	var out Imported

	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}
			uid, _ := event.Props.Text(ical.PropUID)

			placements, err := eventPlacements(event, sem, loc)
			if err != nil {
				out.Skipped = append(out.Skipped, Skipped{UID: uid, Reason: err.Error()})
				continue
			}
			out.Placements = append(out.Placements, placements...)
		}
	}

	return out, nil
}

func eventPlacements(event ical.Event, sem semester.Semester, loc *time.Location) ([]planner.Placement, error) {
	summary, _ := event.Props.Text(ical.PropSummary)
	if summary == "" {
		return nil, fmt.Errorf("event has no summary")
	}

	start, err := event.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("reading start: %w", err)
	}
	end, err := event.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("reading end: %w", err)
	}
	start = start.In(loc)
	if end.Before(start) {
		return nil, fmt.Errorf("event ends before it starts")
	}

	slot := planner.Slot{
		Name:     summary,
		Start:    planner.TimeOfDay{Hour: start.Hour(), Minute: start.Minute()},
		Duration: int(end.Sub(start) / time.Minute),
	}
	slot.Location, _ = event.Props.Text(ical.PropLocation)
	slot.Description, _ = event.Props.Text(ical.PropDescription)
	if prop := event.Props.Get(ical.PropCategories); prop != nil {
		if tags, err := prop.TextList(); err == nil {
			slot.Tags = planner.NewTags(tags...)
		}
	}

	set, err := event.RecurrenceSet(loc)
	if err != nil {
		return nil, fmt.Errorf("reading recurrence: %w", err)
	}
	if set == nil {
		return []planner.Placement{{Date: semester.DateOf(start), Slot: slot}}, nil
	}

	var out []planner.Placement
	for _, t := range occurrences(set, sem, loc) {
		out = append(out, planner.Placement{Date: semester.DateOf(t.In(loc)), Slot: slot})
	}
	return out, nil
}

// occurrences lists the recurrences that start on a date of sem.
func occurrences(set *rrule.Set, sem semester.Semester, loc *time.Location) []time.Time {
	from := sem.Start.In(loc)
	until := sem.End.AddDays(1).In(loc)
	return set.Between(from, until.Add(-time.Nanosecond), true)
}
