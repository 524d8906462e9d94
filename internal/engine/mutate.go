package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tbruckner/prtrack/internal/model"
)

// CreateExercise validates and records a new exercise. With a reachable
// remote the server-assigned id is attached before insertion; a remote
// failure degrades to a local-only insert with an empty id instead of
// failing the operation.
func (e *Engine) CreateExercise(ctx context.Context, name string) (model.Exercise, error) {
	e.exercisesMu.Lock()
	defer e.exercisesMu.Unlock()

	ex := model.Exercise{Name: strings.TrimSpace(name), CreatedAt: e.now()}
	if err := model.ValidateExercise(ex, e.exercises); err != nil {
		return model.Exercise{}, err
	}

	ex.ID = e.remoteAdd(ctx, model.CollectionExercises, ex)
	e.exercises = append(e.exercises, ex)
	e.persistExercisesLocked()
	e.notify.Notify(LevelSuccess, fmt.Sprintf("exercise %q added", ex.Name))
	return ex, nil
}

// CreatePR validates and records a new PR entry. Entries are prepended:
// the collection stays most-recent-first by insertion order.
func (e *Engine) CreatePR(ctx context.Context, entry model.PREntry) (model.PREntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = e.now()
	}
	if err := model.ValidatePREntry(entry); err != nil {
		return model.PREntry{}, err
	}

	e.prMu.Lock()
	defer e.prMu.Unlock()

	entry.ID = e.remoteAdd(ctx, model.CollectionPREntries, entry)
	e.prEntries = append([]model.PREntry{entry}, e.prEntries...)
	e.persistPREntriesLocked()
	e.notify.Notify(LevelSuccess, "PR saved")
	return entry, nil
}

// CreateWeight validates and records a new body-weight entry, prepended like
// PR entries.
func (e *Engine) CreateWeight(ctx context.Context, entry model.WeightEntry) (model.WeightEntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = e.now()
	}
	if err := model.ValidateWeightEntry(entry); err != nil {
		return model.WeightEntry{}, err
	}

	e.weightsMu.Lock()
	defer e.weightsMu.Unlock()

	entry.ID = e.remoteAdd(ctx, model.CollectionWeights, entry)
	e.weights = append([]model.WeightEntry{entry}, e.weights...)
	e.persistWeightsLocked()
	e.notify.Notify(LevelSuccess, "weight saved")
	return entry, nil
}

// Delete removes an entity by id from a collection. The caller is assumed to
// have confirmed destructive intent. The remote delete is best effort;
// failures are logged, not raised.
func (e *Engine) Delete(ctx context.Context, collection model.Collection, id string) error {
	if !collection.Valid() {
		return &model.ValidationError{Field: "collection", Message: fmt.Sprintf("unknown collection %q", collection)}
	}
	if id == "" {
		return &model.ValidationError{Field: "id", Message: "id is required"}
	}

	e.remoteDelete(ctx, collection, id)

	var removed bool
	switch collection {
	case model.CollectionExercises:
		e.exercisesMu.Lock()
		e.exercises, removed = removeByID(e.exercises, id, func(x model.Exercise) string { return x.ID })
		e.persistExercisesLocked()
		e.exercisesMu.Unlock()
	case model.CollectionPREntries:
		e.prMu.Lock()
		e.prEntries, removed = removeByID(e.prEntries, id, func(x model.PREntry) string { return x.ID })
		e.persistPREntriesLocked()
		e.prMu.Unlock()
	case model.CollectionWeights:
		e.weightsMu.Lock()
		e.weights, removed = removeByID(e.weights, id, func(x model.WeightEntry) string { return x.ID })
		e.persistWeightsLocked()
		e.weightsMu.Unlock()
	}

	if removed {
		e.notify.Notify(LevelSuccess, "entry deleted")
	} else {
		e.notify.Notify(LevelWarning, fmt.Sprintf("no entry with id %s in %s", id, collection))
	}
	return nil
}

// ClearAll deletes every known entity. The remote phase fans out one
// best-effort delete per entity; individual failures never halt the others.
// The local phase resets memory and removes the Local Store entries without
// waiting for the remote phase, and a late remote completion cannot
// resurrect local state.
func (e *Engine) ClearAll(ctx context.Context) {
	type target struct {
		collection model.Collection
		id         string
	}
	var targets []target

	e.exercisesMu.Lock()
	for _, x := range e.exercises {
		if x.ID != "" {
			targets = append(targets, target{model.CollectionExercises, x.ID})
		}
	}
	e.exercisesMu.Unlock()
	e.prMu.Lock()
	for _, x := range e.prEntries {
		if x.ID != "" {
			targets = append(targets, target{model.CollectionPREntries, x.ID})
		}
	}
	e.prMu.Unlock()
	e.weightsMu.Lock()
	for _, x := range e.weights {
		if x.ID != "" {
			targets = append(targets, target{model.CollectionWeights, x.ID})
		}
	}
	e.weightsMu.Unlock()

	var wg sync.WaitGroup
	if rs := e.remoteStore(); rs != nil {
		for _, t := range targets {
			wg.Add(1)
			go func(t target) {
				defer wg.Done()
				if err := rs.Delete(ctx, string(t.collection), t.id); err != nil {
					e.logger.Warn("remote delete during clear", "collection", t.collection, "id", t.id, "error", err)
				}
			}(t)
		}
	}

	e.exercisesMu.Lock()
	e.exercises = nil
	e.clearLocal(model.CollectionExercises)
	e.exercisesMu.Unlock()
	e.prMu.Lock()
	e.prEntries = nil
	e.clearLocal(model.CollectionPREntries)
	e.prMu.Unlock()
	e.weightsMu.Lock()
	e.weights = nil
	e.clearLocal(model.CollectionWeights)
	e.weightsMu.Unlock()

	e.notify.Notify(LevelSuccess, "all local data cleared")

	wg.Wait()
	if len(targets) > 0 && e.Configured() {
		e.notify.Notify(LevelSuccess, "remote data cleared")
	}
}

func (e *Engine) clearLocal(name model.Collection) {
	if err := e.local.Clear(string(name)); err != nil {
		e.logger.Error("clear collection", "collection", name, "error", err)
		e.notify.Notify(LevelError, "local clear failed")
	}
}

// remoteAdd writes a record to the remote store and returns the assigned id,
// or "" when no remote is configured or the write fails. A failed write is
// reported as a warning; the caller proceeds with a local-only insert.
func (e *Engine) remoteAdd(ctx context.Context, collection model.Collection, record any) string {
	rs := e.remoteStore()
	if rs == nil {
		return ""
	}
	id, err := rs.Add(ctx, string(collection), record)
	if err != nil {
		e.logger.Warn("remote add failed, keeping entry local", "collection", collection, "error", err)
		e.notify.Notify(LevelWarning, "remote unreachable; entry saved locally only")
		return ""
	}
	return id
}

// remoteDelete removes a record from the remote store, best effort.
func (e *Engine) remoteDelete(ctx context.Context, collection model.Collection, id string) {
	rs := e.remoteStore()
	if rs == nil {
		return
	}
	if err := rs.Delete(ctx, string(collection), id); err != nil {
		e.logger.Warn("remote delete failed", "collection", collection, "id", id, "error", err)
		e.notify.Notify(LevelWarning, "remote unreachable; entry deleted locally only")
	}
}

func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	out := items[:0]
	removed := false
	for _, item := range items {
		if idOf(item) == id {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}
