package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("String() = %q, want 2024-03-15", d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "15-03-2024", "2024/03/15", "not a date"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) accepted invalid input", s)
		}
	}
}

func TestDateOf_TruncatesToMidnightUTC(t *testing.T) {
	in := time.Date(2024, 3, 15, 23, 45, 12, 0, time.FixedZone("CET", 3600))
	d := DateOf(in)
	if d.String() != "2024-03-15" {
		t.Errorf("DateOf() = %q, want 2024-03-15", d.String())
	}
	if h, m, s := d.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("DateOf() kept time-of-day %02d:%02d:%02d", h, m, s)
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	d, _ := ParseDate("2024-03-15")
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(got) != `"2024-03-15"` {
		t.Errorf("Marshal() = %s", got)
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-15"`), &d); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("Unmarshal() = %q", d.String())
	}
}

// Data written by older clients stored full timestamps in the date field.
func TestDate_UnmarshalJSON_TruncatesTimestamps(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-15T10:30:00.000Z"`), &d); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("Unmarshal() = %q, want date part only", d.String())
	}
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"garbage"`), &d); err == nil {
		t.Error("Unmarshal() accepted invalid date")
	}
}
