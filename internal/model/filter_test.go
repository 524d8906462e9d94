package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestFilterPRsByPeriod(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	entries := []PREntry{
		{Exercise: "Squat", Date: mustDate(t, "2024-06-01"), Weight: 140},
		{Exercise: "Squat", Date: mustDate(t, "2024-02-01"), Weight: 135},
		{Exercise: "Squat", Date: mustDate(t, "2023-06-01"), Weight: 120},
	}

	got := FilterPRsByPeriod(entries, 3, now)
	assert.Len(t, got, 1)
	assert.Equal(t, "2024-06-01", got[0].Date.String())

	got = FilterPRsByPeriod(entries, 6, now)
	assert.Len(t, got, 2)
}

func TestFilterPRsByPeriod_ZeroMeansAll(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	entries := []PREntry{
		{Date: mustDate(t, "2020-01-01"), Weight: 100},
		{Date: mustDate(t, "2024-06-01"), Weight: 140},
	}

	assert.Len(t, FilterPRsByPeriod(entries, 0, now), 2)
	assert.Len(t, FilterPRsByPeriod(entries, -1, now), 2)
}

func TestFilterPRsByPeriod_CutoffInclusive(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	entries := []PREntry{
		// exactly on the cutoff date
		{Date: mustDate(t, "2024-03-15"), Weight: 130},
	}
	assert.Len(t, FilterPRsByPeriod(entries, 3, now), 1)
}

func TestFilterWeightsByPeriod(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	entries := []WeightEntry{
		{Date: mustDate(t, "2024-06-10"), Weight: 82},
		{Date: mustDate(t, "2024-01-10"), Weight: 85},
	}

	got := FilterWeightsByPeriod(entries, 1, now)
	assert.Len(t, got, 1)
	assert.Equal(t, 82.0, got[0].Weight)

	assert.Len(t, FilterWeightsByPeriod(entries, 0, now), 2)
}
