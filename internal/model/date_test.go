package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := d.String(); got != "2026-03-15" {
		t.Errorf("String() = %q, want %q", got, "2026-03-15")
	}

	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDateBounds(t *testing.T) {
	d := NewDate(2026, time.March, 15)
	start, end := d.Bounds()

	if !start.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want midnight UTC", start)
	}
	if !end.Equal(time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want next midnight UTC", end)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("bounds span %v, want 24h", end.Sub(start))
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2026, time.February, 27)

	// crosses a leap-year boundary
	if got := d.AddDays(2).String(); got != "2026-03-01" {
		t.Errorf("AddDays(2) = %q, want 2026-03-01", got)
	}
	if got := d.AddDays(-27).String(); got != "2026-01-31" {
		t.Errorf("AddDays(-27) = %q, want 2026-01-31", got)
	}
}

func TestDateOfTruncatesToUTCDay(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC, still the same UTC day.
	loc := time.FixedZone("plus2", 2*60*60)
	ts := time.Date(2026, time.March, 15, 23, 30, 0, 0, loc)

	if got := DateOf(ts).String(); got != "2026-03-15" {
		t.Errorf("DateOf = %q, want 2026-03-15", got)
	}

	// 01:30 in UTC+2 is 23:30 UTC the previous day.
	ts = time.Date(2026, time.March, 15, 1, 30, 0, 0, loc)
	if got := DateOf(ts).String(); got != "2026-03-14" {
		t.Errorf("DateOf = %q, want 2026-03-14", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.August, 29)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-08-29"` {
		t.Errorf("Marshal = %s, want %q", data, `"2026-08-29"`)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip: got %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"29-08-2026"`), &back); err == nil {
		t.Error("expected error for malformed date string")
	}
}

func TestDateSQLRoundTrip(t *testing.T) {
	d := NewDate(2026, time.August, 29)

	v, err := d.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	s, ok := v.(string)
	if !ok || s != "2026-08-29" {
		t.Fatalf("Value = %v, want string 2026-08-29", v)
	}

	var back Date
	if err := back.Scan(s); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip: got %v, want %v", back, d)
	}

	if err := back.Scan([]byte("2026-08-29")); err != nil {
		t.Errorf("Scan([]byte): %v", err)
	}
	if err := back.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}
