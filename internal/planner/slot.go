package planner

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var timeLayouts = []string{"15:04", "1504", "3:04pm", "3:04PM", "3pm", "3PM"}

// ParseTimeOfDay accepts 24-hour ("09:30", "0930") and 12-hour ("9:30am",
// "2pm") forms.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Add returns the time d minutes later, wrapping past midnight.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	m := ((t.Minutes()+minutes)%(24*60) + 24*60) % (24 * 60)
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Slot is a bookable block of time. Two slots with the same content are
// equal no matter how they were created.
type Slot struct {
	Name        string    `json:"name" yaml:"name"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Start       TimeOfDay `json:"start" yaml:"start"`
	Duration    int       `json:"duration" yaml:"duration" jsonschema:"minimum=0,description=length in minutes"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty" jsonschema:"uniqueItems=true"`
}

// NewTags trims, de-duplicates and sorts tags, dropping empty ones.
func NewTags(tags ...string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// End is the time of day the slot finishes.
func (s Slot) End() TimeOfDay {
	return s.Start.Add(s.Duration)
}

// Equal compares every field; tags compare as sets.
func (s Slot) Equal(o Slot) bool {
	return s.Name == o.Name &&
		s.Location == o.Location &&
		s.Description == o.Description &&
		s.Start == o.Start &&
		s.Duration == o.Duration &&
		slices.Equal(NewTags(s.Tags...), NewTags(o.Tags...))
}

// HasTags reports whether every query tag is among the slot's tags.
func (s Slot) HasTags(query []string) bool {
	for _, q := range query {
		if !slices.Contains(s.Tags, q) {
			return false
		}
	}
	return true
}

func (s Slot) clone() Slot {
	s.Tags = NewTags(s.Tags...)
	return s
}

func (s Slot) String() string {
	out := fmt.Sprintf("%s %s-%s", s.Name, s.Start, s.End())
	if s.Location != "" {
		out += " @ " + s.Location
	}
	return out
}

func cloneSlots(in []Slot) []Slot {
	if len(in) == 0 {
		return nil
	}
	out := make([]Slot, len(in))
	for i, s := range in {
		out[i] = s.clone()
	}
	return out
}
