package clock

import (
	"testing"
	"time"
)

func TestReal_Now(t *testing.T) {
	before := time.Now()
	actual := Real{}.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("Real.Now() = %v, want between %v and %v", actual, before, after)
	}
}

func TestFixed(t *testing.T) {
	start := time.Date(2019, 9, 1, 10, 30, 0, 0, time.UTC)
	c := NewFixed(start)

	t.Run("returns fixed time", func(t *testing.T) {
		first := c.Now()
		time.Sleep(time.Millisecond)
		second := c.Now()
		if !first.Equal(start) || !second.Equal(start) {
			t.Errorf("Now() = %v then %v, want %v both times", first, second, start)
		}
	})

	t.Run("set overrides", func(t *testing.T) {
		past := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
		c.Set(past)
		if got := c.Now(); !got.Equal(past) {
			t.Errorf("after Set, Now() = %v, want %v", got, past)
		}
	})

	t.Run("advance", func(t *testing.T) {
		c.Set(start)
		c.Advance(48 * time.Hour)
		want := start.Add(48 * time.Hour)
		if got := c.Now(); !got.Equal(want) {
			t.Errorf("after Advance, Now() = %v, want %v", got, want)
		}
	})
}

func TestOr(t *testing.T) {
	if _, ok := Or(nil).(Real); !ok {
		t.Errorf("Or(nil) should fall back to Real")
	}
	f := NewFixed(time.Time{})
	if Or(f) != Clock(f) {
		t.Errorf("Or(f) should return f")
	}
}
