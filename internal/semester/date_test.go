package semester

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/christopherklint97/semplan/internal/clock"
)

func TestDate_Arithmetic(t *testing.T) {
	d := date(2019, time.December, 30)

	if got := d.AddDays(3); got != date(2020, time.January, 2) {
		t.Errorf("AddDays(3) = %v, want 2020-01-02", got)
	}
	if got := d.DaysUntil(date(2020, time.March, 1)); got != 62 {
		t.Errorf("DaysUntil = %d, want 62", got)
	}
	if got := date(2019, time.September, 1).Monday(); got != date(2019, time.August, 26) {
		t.Errorf("Monday() of a Sunday = %v, want 2019-08-26", got)
	}
	if got := date(2019, time.August, 26).Monday(); got != date(2019, time.August, 26) {
		t.Errorf("Monday() of a Monday = %v, want itself", got)
	}
	if !d.Before(d.AddDays(1)) || !d.After(d.AddDays(-1)) || d.Compare(d) != 0 {
		t.Errorf("comparison of %v is inconsistent", d)
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	in := map[Date]string{date(2019, time.August, 5): "orientation"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"2019-08-05":"orientation"}` {
		t.Errorf("Marshal = %s", data)
	}

	var out map[Date]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out[date(2019, time.August, 5)] != "orientation" {
		t.Errorf("Unmarshal lost the key: %v", out)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("2019-13-01"); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestToday(t *testing.T) {
	c := clock.NewFixed(time.Date(2019, 9, 1, 23, 59, 0, 0, time.UTC))
	if got := Today(c); got != date(2019, time.September, 1) {
		t.Errorf("Today() = %v, want 2019-09-01", got)
	}
}

func TestRange(t *testing.T) {
	r := Range(date(2019, time.February, 27), date(2019, time.March, 2))
	if len(r) != 4 || r[2] != date(2019, time.March, 1) {
		t.Errorf("Range = %v", r)
	}
	if Range(date(2019, time.March, 2), date(2019, time.March, 1)) != nil {
		t.Error("Range with last before first should be nil")
	}
}
