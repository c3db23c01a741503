package command

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/christopherklint97/semplan/internal/semester"
)

var now = time.Date(2019, 9, 1, 10, 0, 0, 0, time.Local)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want semester.Date
	}{
		{"2019-09-02", date(time.September, 2)},
		{"02-09-2019", date(time.September, 2)},
		{"2/9/2019", date(time.September, 2)},
		{"02/09/2019", date(time.September, 2)},
		{"today", date(time.September, 1)},
		{"tomorrow", date(time.September, 2)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, now)
		if err != nil || got != tt.want {
			t.Errorf("ParseDate(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseDate("", now); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseDate(\"\") error = %v, want ErrInvalidInput", err)
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"mon": time.Monday, "Thursday": time.Thursday, " SUN ": time.Sunday} {
		if got, err := ParseWeekday(in); err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseWeekday("someday"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags("cs2113t,lecture", "week 3")
	want := []string{"cs2113t", "lecture", "week", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags = %v, want %v", got, want)
	}
}

func TestWhen_Recurrence(t *testing.T) {
	t.Run("weekday anchors on the next matching date", func(t *testing.T) {
		r, err := When{Weekday: "wed", Categories: []string{"normal", "exam"}}.Recurrence(now)
		if err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
		if r.Date != date(time.September, 4) || !r.Normal || !r.Exam || r.Recess {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("date and weekday must agree", func(t *testing.T) {
		if _, err := (When{Date: "2019-09-02", Weekday: "tue"}).Recurrence(now); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		if _, err := (When{Date: "2019-09-02", Categories: []string{"holiday"}}).Recurrence(now); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("needs an anchor", func(t *testing.T) {
		if _, err := (When{}).Recurrence(now); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}
