package entitysync

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// Options configures a Controller.
type Options struct {
	// Logger receives one record per completed operation. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// OnUnauthorized is called after any operation fails with an
	// unauthorized error, typically to refresh the session. It runs on the
	// caller's goroutine with the caller's context.
	OnUnauthorized func(ctx context.Context)

	// DiscardStaleReads drops a list or search response when a response to
	// a later-issued list or search has already been applied. Off by
	// default, in which case the last response to arrive wins.
	DiscardStaleReads bool
}

// Listener receives a snapshot after every change to a controller.
type Listener[T Entity] func(State[T])

// Controller synchronizes one entity kind with its Store. All methods are
// safe for concurrent use. The mutex guards in-memory state only and is
// never held across a store call, so concurrent operations all proceed and
// their responses are applied in arrival order.
type Controller[T Entity, D, P any] struct {
	kind           string
	store          Store[T, D, P]
	logger         *slog.Logger
	onUnauthorized func(ctx context.Context)
	discardStale   bool

	mu             sync.Mutex
	cache          *Cache[T]
	selection      Selection
	pending        int
	err            *apperror.AppError
	query          string
	issuedReads    uint64
	appliedRead    uint64
	listeners      map[int]Listener[T]
	nextListenerID int
	version        uint64

	// Delivery state, guarded by dmu. One goroutine at a time delivers;
	// others queue their snapshot and return.
	dmu          sync.Mutex
	delivering   bool
	queued       *State[T]
	queuedVer    uint64
	deliveredVer uint64
}

// New creates a controller for kind backed by store. Construct one per kind
// at process start and share it by pointer.
func New[T Entity, D, P any](kind string, store Store[T, D, P], opts Options) *Controller[T, D, P] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[T, D, P]{
		kind:           kind,
		store:          store,
		logger:         logger.With(slog.String("kind", kind)),
		onUnauthorized: opts.OnUnauthorized,
		discardStale:   opts.DiscardStaleReads,
		cache:          NewCache[T](),
		listeners:      make(map[int]Listener[T]),
	}
}

// Kind returns the entity kind name given to New.
func (c *Controller[T, D, P]) Kind() string { return c.kind }

// --- Remote operations ---

// Load replaces the cache with the store's full list. On failure the cache
// is left as it was and the error is recorded.
func (c *Controller[T, D, P]) Load(ctx context.Context) error {
	seq := c.beginRead()
	items, err := c.store.List(ctx)
	return c.finishRead(ctx, "load", seq, "", items, err)
}

// Search replaces the cache with the store's matches for query and records
// query as the applied search. A blank query behaves exactly as Load.
func (c *Controller[T, D, P]) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	seq := c.beginRead()

	var items []T
	var err error
	if query == "" {
		items, err = c.store.List(ctx)
	} else {
		items, err = c.store.Search(ctx, query)
	}
	return c.finishRead(ctx, "search", seq, query, items, err)
}

// Create asks the store to create draft and inserts the canonical record it
// returns. On failure nothing is inserted and the call is not retried.
func (c *Controller[T, D, P]) Create(ctx context.Context, draft D) (T, error) {
	c.begin()
	rec, err := c.store.Create(ctx, draft)

	var zero T
	appErr := c.finish(ctx, "create", err, func() {
		c.cache.Upsert(rec)
	})
	if appErr != nil {
		return zero, appErr
	}
	return rec, nil
}

// Update asks the store to apply patch to id and replaces the cached entity
// with the canonical record it returns.
func (c *Controller[T, D, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	c.begin()
	rec, err := c.store.Update(ctx, id, patch)

	var zero T
	appErr := c.finish(ctx, "update", err, func() {
		c.cache.Upsert(rec)
	})
	if appErr != nil {
		return zero, appErr
	}
	return rec, nil
}

// Delete asks the store to delete id and, once it confirms, removes the
// entity from the cache and the selection together.
func (c *Controller[T, D, P]) Delete(ctx context.Context, id string) error {
	c.begin()
	err := c.store.Delete(ctx, id)

	appErr := c.finish(ctx, "delete", err, func() {
		c.cache.Remove(id)
		c.selection.ClearOnRemoval(id)
	})
	if appErr != nil {
		return appErr
	}
	return nil
}

// --- Selection ---

// Select replaces the selection with the given ids that are currently cached.
func (c *Controller[T, D, P]) Select(ids []string) {
	c.mu.Lock()
	present := make([]string, 0, len(ids))
	for _, id := range ids {
		if c.cache.Has(id) {
			present = append(present, id)
		}
	}
	c.selection.Select(present)
	snap, ver := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap, ver)
}

// Toggle flips id in or out of the selection. Ids that are not cached are
// ignored. Returns whether id is selected afterwards.
func (c *Controller[T, D, P]) Toggle(id string) bool {
	c.mu.Lock()
	if !c.cache.Has(id) {
		c.mu.Unlock()
		return false
	}
	selected := c.selection.Toggle(id)
	snap, ver := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap, ver)
	return selected
}

// ClearSelection empties the selection.
func (c *Controller[T, D, P]) ClearSelection() {
	c.mu.Lock()
	c.selection.Clear()
	snap, ver := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap, ver)
}

// --- Read state ---

// State returns a snapshot of the controller.
func (c *Controller[T, D, P]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Get returns the cached entity with id.
func (c *Controller[T, D, P]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get(id)
}

// Loading reports whether any operation is outstanding.
func (c *Controller[T, D, P]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Err returns the recorded error, or nil while loading or after a success.
func (c *Controller[T, D, P]) Err() *apperror.AppError {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending > 0 {
		return nil
	}
	return c.err
}

// Subscribe registers fn to receive a snapshot after changes to the
// controller and returns a function that unregisters it. Snapshots arrive
// in order, one at a time; under concurrent changes intermediate snapshots
// may be skipped, but the last one delivered matches State(). Listeners run
// outside the controller's lock and may call back into it.
func (c *Controller[T, D, P]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// --- internals ---

// begin marks an operation outstanding and clears the previous error.
func (c *Controller[T, D, P]) begin() {
	c.mu.Lock()
	c.pending++
	c.err = nil
	snap, ver := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap, ver)
}

// beginRead is begin for list/search and returns the read's issue sequence.
func (c *Controller[T, D, P]) beginRead() uint64 {
	c.mu.Lock()
	c.pending++
	c.err = nil
	c.issuedReads++
	seq := c.issuedReads
	snap, ver := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap, ver)
	return seq
}

// finishRead applies a list/search response.
func (c *Controller[T, D, P]) finishRead(ctx context.Context, op string, seq uint64, query string, items []T, err error) error {
	appErr := c.finish(ctx, op, err, func() {
		if c.discardStale && seq <= c.appliedRead {
			c.logger.Debug("discarding stale response",
				slog.String("op", op),
				slog.Uint64("seq", seq),
				slog.Uint64("applied", c.appliedRead),
			)
			return
		}
		c.appliedRead = seq
		c.cache.ReplaceAll(items)
		c.query = query
		c.selection.Retain(c.cache.Has)
	})
	if appErr != nil {
		return appErr
	}
	return nil
}

// finish ends an operation: on success it runs apply under the lock, on
// failure it records the classified error. Listeners are then notified and
// the unauthorized hook runs if needed.
func (c *Controller[T, D, P]) finish(ctx context.Context, op string, err error, apply func()) *apperror.AppError {
	appErr := apperror.Classify(err)

	c.mu.Lock()
	c.pending--
	if appErr != nil {
		c.err = appErr
	} else {
		c.err = nil
		apply()
	}
	count := c.cache.Len()
	snap, ver := c.changedLocked()
	c.mu.Unlock()

	if appErr != nil {
		c.logger.Warn("sync operation failed",
			slog.String("op", op),
			slog.String("type", appErr.Type),
			slog.String("message", appErr.Message),
			slog.Any("error", appErr.Internal),
		)
	} else {
		c.logger.Debug("sync operation applied",
			slog.String("op", op),
			slog.Int("count", count),
		)
	}

	c.notify(snap, ver)

	if appErr != nil && appErr.Type == apperror.TypeUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return appErr
}

func (c *Controller[T, D, P]) snapshotLocked() State[T] {
	s := State[T]{
		Entities:    c.cache.All(),
		Loading:     c.pending > 0,
		SearchQuery: c.query,
		SelectedIDs: c.selection.IDs(),
	}
	if !s.Loading {
		s.Error = c.err
	}
	return s
}

// changedLocked records a state change and returns its snapshot and version.
func (c *Controller[T, D, P]) changedLocked() (State[T], uint64) {
	c.version++
	return c.snapshotLocked(), c.version
}

// notify delivers snap to the listeners. Snapshots reach listeners in
// version order; one superseded before its turn is skipped, so the last
// snapshot delivered is always the latest change.
func (c *Controller[T, D, P]) notify(snap State[T], ver uint64) {
	c.dmu.Lock()
	if ver <= c.deliveredVer || (c.queued != nil && ver <= c.queuedVer) {
		c.dmu.Unlock()
		return
	}
	c.queued, c.queuedVer = &snap, ver
	if c.delivering {
		c.dmu.Unlock()
		return
	}
	c.delivering = true

	for c.queued != nil {
		next := *c.queued
		c.deliveredVer = c.queuedVer
		c.queued = nil
		c.dmu.Unlock()

		for _, fn := range c.currentListeners() {
			fn(next)
		}
		c.dmu.Lock()
	}
	c.delivering = false
	c.dmu.Unlock()
}

func (c *Controller[T, D, P]) currentListeners() []Listener[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	fns := make([]Listener[T], 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return fns
}
