package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tbruckner/prtrack/internal/localstore"
	"github.com/tbruckner/prtrack/internal/model"
	"github.com/tbruckner/prtrack/internal/remote"
)

// Engine owns the in-memory collections and mediates every mutation between
// memory, the Local Store, and the remote store. It is an explicit state
// container; there is no package-level state.
type Engine struct {
	local   *localstore.Store
	logger  *slog.Logger
	notify  Notifier
	now     func() time.Time
	connect func(remote.Config) remote.Store

	// remoteMu guards the remote handle so reconfiguration can swap it
	// while a background refresh holds a reference.
	remoteMu sync.RWMutex
	remote   remote.Store

	// One mutex per collection. ClearAll acquires them in declaration
	// order; nothing else holds more than one at a time.
	exercisesMu sync.Mutex
	exercises   []model.Exercise

	prMu      sync.Mutex
	prEntries []model.PREntry

	weightsMu sync.Mutex
	weights   []model.WeightEntry
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier attaches the UI collaborator that receives notices.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notify = n
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source. Tests use a fixed clock for
// deterministic CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithConnector overrides how a validated config becomes a remote store.
// Tests substitute fakes; production uses remote.NewClient.
func WithConnector(connect func(remote.Config) remote.Store) Option {
	return func(e *Engine) {
		if connect != nil {
			e.connect = connect
		}
	}
}

// New creates an engine over the given Local Store.
func New(local *localstore.Store, opts ...Option) *Engine {
	e := &Engine{
		local:   local,
		logger:  slog.Default(),
		notify:  nopNotifier{},
		now:     time.Now,
		connect: func(cfg remote.Config) remote.Store { return remote.NewClient(cfg) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize hydrates from the Local Store, then refreshes from the remote
// in the background. Hydration is synchronous; the returned channel closes
// when the background refresh finishes (immediately when no remote is
// configured), so callers can render local data without waiting on the
// network.
func (e *Engine) Initialize(ctx context.Context) <-chan struct{} {
	e.Hydrate()

	done := make(chan struct{})
	if !e.Configured() {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := e.RefreshFromRemote(ctx); err != nil {
			e.logger.Warn("background refresh incomplete", "error", err)
		}
	}()
	return done
}

// Hydrate loads the three collections from the Local Store and restores a
// persisted remote config, without contacting the remote. Short-lived
// callers (one-shot commands) use this directly and refresh explicitly.
func (e *Engine) Hydrate() {
	e.exercisesMu.Lock()
	e.exercises = hydrateSlice[model.Exercise](e, model.CollectionExercises)
	e.exercisesMu.Unlock()

	e.prMu.Lock()
	e.prEntries = hydrateSlice[model.PREntry](e, model.CollectionPREntries)
	e.prMu.Unlock()

	e.weightsMu.Lock()
	e.weights = hydrateSlice[model.WeightEntry](e, model.CollectionWeights)
	e.weightsMu.Unlock()

	e.connectPersisted()
}

// connectPersisted restores the remote connection from a previously saved
// config blob. Absence or invalidity is not fatal; the engine stays in
// local-only mode.
func (e *Engine) connectPersisted() {
	blob, ok, err := e.local.Load(remote.ConfigKey)
	if err != nil {
		e.logger.Error("load remote config", "error", err)
		return
	}
	if !ok {
		return
	}
	cfg, err := remote.ParseConfig(blob)
	if err != nil {
		e.logger.Warn("stored remote config invalid, staying offline", "error", err)
		e.notify.Notify(LevelWarning, "stored remote configuration is invalid; running offline")
		return
	}
	e.setRemote(e.connect(cfg))
}

// Configure validates a connection blob, persists it, reconnects, and
// refreshes from the remote. A malformed blob is reported to the caller and
// leaves the engine in its previous mode.
func (e *Engine) Configure(ctx context.Context, blob []byte) error {
	cfg, err := remote.ParseConfig(blob)
	if err != nil {
		e.notify.Notify(LevelError, "remote configuration rejected: "+err.Error())
		return err
	}

	if err := e.local.Save(remote.ConfigKey, blob); err != nil {
		e.logger.Error("persist remote config", "error", err)
		e.notify.Notify(LevelError, "remote configuration could not be saved locally")
	}

	e.setRemote(e.connect(cfg))
	e.notify.Notify(LevelSuccess, "remote configuration saved")

	if err := e.RefreshFromRemote(ctx); err != nil {
		e.logger.Warn("refresh after reconnect incomplete", "error", err)
	}
	return nil
}

// Unconfigure tears down the remote connection and removes the persisted
// config. The engine continues fully offline.
func (e *Engine) Unconfigure() error {
	e.setRemote(nil)
	if err := e.local.Clear(remote.ConfigKey); err != nil {
		return fmt.Errorf("clear remote config: %w", err)
	}
	e.notify.Notify(LevelSuccess, "remote configuration removed")
	return nil
}

// Configured reports whether a remote store is attached.
func (e *Engine) Configured() bool {
	return e.remoteStore() != nil
}

// setRemote swaps the remote handle, tearing down any previous connection
// before the new one is used.
func (e *Engine) setRemote(rs remote.Store) {
	e.remoteMu.Lock()
	old := e.remote
	e.remote = rs
	e.remoteMu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			e.logger.Warn("close previous remote", "error", err)
		}
	}
}

func (e *Engine) remoteStore() remote.Store {
	e.remoteMu.RLock()
	defer e.remoteMu.RUnlock()
	return e.remote
}

// RefreshFromRemote reloads all three collections from the remote store.
// Each collection refreshes independently: a failure leaves that collection's
// memory and Local Store untouched and never rolls back a sibling's success.
// Entry collections are ordered by date descending, matching the UI lists.
func (e *Engine) RefreshFromRemote(ctx context.Context) error {
	rs := e.remoteStore()
	if rs == nil {
		return errors.New("remote not configured")
	}

	var errs []error

	if err := e.refreshExercises(ctx, rs); err != nil {
		e.logger.Warn("refresh exercises", "error", err)
		e.notify.Notify(LevelWarning, "could not load exercises from remote")
		errs = append(errs, err)
	}
	if err := e.refreshPREntries(ctx, rs); err != nil {
		e.logger.Warn("refresh pr entries", "error", err)
		e.notify.Notify(LevelWarning, "could not load PR entries from remote")
		errs = append(errs, err)
	}
	if err := e.refreshWeights(ctx, rs); err != nil {
		e.logger.Warn("refresh weight entries", "error", err)
		e.notify.Notify(LevelWarning, "could not load weight entries from remote")
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		e.notify.Notify(LevelSuccess, "data loaded from remote")
	}
	return errors.Join(errs...)
}

func (e *Engine) refreshExercises(ctx context.Context, rs remote.Store) error {
	docs, err := rs.QueryOrdered(ctx, string(model.CollectionExercises), "", remote.Ascending)
	if err != nil {
		return err
	}
	fresh, err := decodeDocs[model.Exercise](docs)
	if err != nil {
		return err
	}

	e.exercisesMu.Lock()
	defer e.exercisesMu.Unlock()
	e.exercises = fresh
	e.persistExercisesLocked()
	return nil
}

func (e *Engine) refreshPREntries(ctx context.Context, rs remote.Store) error {
	docs, err := rs.QueryOrdered(ctx, string(model.CollectionPREntries), "date", remote.Descending)
	if err != nil {
		return err
	}
	fresh, err := decodeDocs[model.PREntry](docs)
	if err != nil {
		return err
	}

	e.prMu.Lock()
	defer e.prMu.Unlock()
	e.prEntries = fresh
	e.persistPREntriesLocked()
	return nil
}

func (e *Engine) refreshWeights(ctx context.Context, rs remote.Store) error {
	docs, err := rs.QueryOrdered(ctx, string(model.CollectionWeights), "date", remote.Descending)
	if err != nil {
		return err
	}
	fresh, err := decodeDocs[model.WeightEntry](docs)
	if err != nil {
		return err
	}

	e.weightsMu.Lock()
	defer e.weightsMu.Unlock()
	e.weights = fresh
	e.persistWeightsLocked()
	return nil
}

// Exercises returns a copy of the in-memory exercise collection.
func (e *Engine) Exercises() []model.Exercise {
	e.exercisesMu.Lock()
	defer e.exercisesMu.Unlock()
	out := make([]model.Exercise, len(e.exercises))
	copy(out, e.exercises)
	return out
}

// PREntries returns a copy of the in-memory PR entry collection,
// most-recent-first by insertion order.
func (e *Engine) PREntries() []model.PREntry {
	e.prMu.Lock()
	defer e.prMu.Unlock()
	out := make([]model.PREntry, len(e.prEntries))
	copy(out, e.prEntries)
	return out
}

// WeightEntries returns a copy of the in-memory weight entry collection,
// most-recent-first by insertion order.
func (e *Engine) WeightEntries() []model.WeightEntry {
	e.weightsMu.Lock()
	defer e.weightsMu.Unlock()
	out := make([]model.WeightEntry, len(e.weights))
	copy(out, e.weights)
	return out
}

// persist*Locked serialize a collection to the Local Store. Persistence
// failures are absorbed: memory stays authoritative for this process and the
// collaborator is told the mirror is stale. Callers must hold the matching
// mutex.

func (e *Engine) persistExercisesLocked() {
	e.persistBlob(model.CollectionExercises, e.exercises)
}

func (e *Engine) persistPREntriesLocked() {
	e.persistBlob(model.CollectionPREntries, e.prEntries)
}

func (e *Engine) persistWeightsLocked() {
	e.persistBlob(model.CollectionWeights, e.weights)
}

func (e *Engine) persistBlob(name model.Collection, collection any) {
	blob, err := json.Marshal(collection)
	if err != nil {
		e.logger.Error("serialize collection", "collection", name, "error", err)
		e.notify.Notify(LevelError, "local save failed")
		return
	}
	if err := e.local.Save(string(name), blob); err != nil {
		e.logger.Error("persist collection", "collection", name, "error", err)
		e.notify.Notify(LevelError, "local save failed")
	}
}

// hydrateSlice loads one collection from the Local Store. A missing entry is
// an empty collection; an unreadable one is logged and treated as absent.
func hydrateSlice[T any](e *Engine, name model.Collection) []T {
	blob, ok, err := e.local.Load(string(name))
	if err != nil {
		e.logger.Error("load collection", "collection", name, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var out []T
	if err := json.Unmarshal(blob, &out); err != nil {
		e.logger.Warn("stored collection unreadable, treating as absent", "collection", name, "error", err)
		return nil
	}
	return out
}

// decodeDocs converts remote documents into entities, attaching the
// server-assigned id to each record.
func decodeDocs[T any](docs []remote.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var entity T
		if err := json.Unmarshal(doc.Data, &entity); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
		}
		setID(&entity, doc.ID)
		out = append(out, entity)
	}
	return out, nil
}

// setID writes the server-assigned id onto a known entity type.
func setID(entity any, id string) {
	switch v := entity.(type) {
	case *model.Exercise:
		v.ID = id
	case *model.PREntry:
		v.ID = id
	case *model.WeightEntry:
		v.ID = id
	}
}
