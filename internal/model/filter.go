package model

import "time"

// FilterPRsByPeriod keeps entries dated within the last months calendar
// months. months <= 0 means no cutoff.
func FilterPRsByPeriod(entries []PREntry, months int, now time.Time) []PREntry {
	if months <= 0 {
		return entries
	}
	cutoff := now.AddDate(0, -months, 0)
	out := make([]PREntry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// FilterWeightsByPeriod keeps entries dated within the last months calendar
// months. months <= 0 means no cutoff.
func FilterWeightsByPeriod(entries []WeightEntry, months int, now time.Time) []WeightEntry {
	if months <= 0 {
		return entries
	}
	cutoff := now.AddDate(0, -months, 0)
	out := make([]WeightEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}
