package engine

import (
	"github.com/tbruckner/prtrack/internal/model"
)

// ExportSnapshot captures all three in-memory collections plus a generation
// timestamp. Pure read; no store is touched.
func (e *Engine) ExportSnapshot() model.Snapshot {
	return model.Snapshot{
		Exercises:     e.Exercises(),
		PREntries:     e.PREntries(),
		WeightEntries: e.WeightEntries(),
		ExportDate:    e.now(),
	}
}

// ImportSnapshot replaces the in-memory collections with the snapshot's
// contents and persists them locally, preserving entry order
// (most-recent-first). The remote store is not touched: a later refresh from
// a configured remote remains authoritative.
func (e *Engine) ImportSnapshot(s model.Snapshot) {
	e.exercisesMu.Lock()
	e.exercises = append([]model.Exercise(nil), s.Exercises...)
	e.persistExercisesLocked()
	e.exercisesMu.Unlock()

	e.prMu.Lock()
	e.prEntries = append([]model.PREntry(nil), s.PREntries...)
	e.persistPREntriesLocked()
	e.prMu.Unlock()

	e.weightsMu.Lock()
	e.weights = append([]model.WeightEntry(nil), s.WeightEntries...)
	e.persistWeightsLocked()
	e.weightsMu.Unlock()

	e.notify.Notify(LevelSuccess, "snapshot imported")
}
