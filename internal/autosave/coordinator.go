// Package autosave persists wizard state to the record store in the
// background: debounced, deduplicated, and never more than one write in
// flight.
package autosave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3forms/internal/logging"
	"github.com/Mohsinsiddi/w3forms/internal/store"
	"github.com/Mohsinsiddi/w3forms/internal/wizard"
)

const (
	// DefaultDebounce is the quiet period after the last change before a
	// save fires.
	DefaultDebounce = 750 * time.Millisecond

	minDebounce = 500 * time.Millisecond
	maxDebounce = 1500 * time.Millisecond

	saveTimeout = 5 * time.Second
)

// Phase is the coordinator's position in its save cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScheduled
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScheduled:
		return "scheduled"
	case PhaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// timerFunc schedules fn after d and returns a cancel. Injectable so tests
// fire the timer deterministically.
type timerFunc func(d time.Duration, fn func()) (cancel func() bool)

func realTimer(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Options configures a Coordinator. The zero value is usable.
type Options struct {
	// Debounce is clamped to 500ms–1.5s; zero means DefaultDebounce.
	Debounce time.Duration
	// Notify receives persistence failures. Saves are retried on the next
	// qualifying change either way; nil means log-only.
	Notify func(error)
}

// Coordinator subscribes to a wizard container and persists every settled
// change: the first meaningful edit of a new draft creates a record, later
// edits update it. Cycle per change: Idle → Scheduled (debounce, newest
// change wins) → Running (guarded write) → Idle.
type Coordinator struct {
	container *wizard.Container
	records   store.Store

	debounce time.Duration
	timer    timerFunc
	notify   func(error)

	// writeLock is the single-slot write semaphore. A fire that finds it
	// held aborts silently; the change that scheduled it is picked up by
	// the next one.
	writeLock sync.Mutex

	mu          sync.Mutex
	phase       Phase
	cancelTimer func() bool
	paused      int
	lastSaved   []byte
	lastAttempt []byte
	unsubscribe func()
	closed      bool
}

// NewCoordinator wires a coordinator to the container and store. It does
// not observe changes until Start.
func NewCoordinator(container *wizard.Container, records store.Store, opts Options) *Coordinator {
	return &Coordinator{
		container: container,
		records:   records,
		debounce:  clampDebounce(opts.Debounce),
		timer:     realTimer,
		notify:    opts.Notify,
	}
}

func clampDebounce(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultDebounce
	case d < minDebounce:
		return minDebounce
	case d > maxDebounce:
		return maxDebounce
	default:
		return d
	}
}

// Start subscribes to the container. Calling Start twice is a no-op.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.container.Subscribe(c.onChange)
}

// Close stops observing and cancels any scheduled save. A save already
// running finishes.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.cancelTimer != nil {
		c.cancelTimer()
		c.cancelTimer = nil
	}
	c.phase = PhaseIdle
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return nil
}

// Pause suppresses scheduling until Resume. Pairs nest; controllers wrap
// explicit record loads in one.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused++
	if c.cancelTimer != nil {
		c.cancelTimer()
		c.cancelTimer = nil
	}
	c.phase = PhaseIdle
}

// Resume lifts one Pause.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused > 0 {
		c.paused--
	}
}

// Flush runs a pending scheduled save immediately, used on exit so the last
// edits are not lost to the debounce window. No-op when nothing is pending.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	pending := c.cancelTimer != nil && !c.closed
	if pending {
		c.cancelTimer()
		c.cancelTimer = nil
	}
	c.mu.Unlock()

	if pending {
		c.fire()
	}
}

// Phase reports the current cycle position.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// onChange is the container subscription callback. A change whose
// persistable payload matches the last saved or currently saving content is
// ignored: that covers the coordinator's own indicator and record-binding
// updates without suppressing a real edit committed while a save runs.
func (c *Coordinator) onChange(s wizard.State) {
	payload, err := encodeForCompare(RecordFromState(s))
	if err != nil {
		// Unencodable content cannot be compared; schedule and let the
		// save path report it.
		payload = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.paused > 0 {
		return
	}
	if payload != nil && (bytes.Equal(payload, c.lastSaved) || bytes.Equal(payload, c.lastAttempt)) {
		return
	}
	// Debounce: the newest change restarts the window.
	if c.cancelTimer != nil {
		c.cancelTimer()
	}
	c.phase = PhaseScheduled
	c.cancelTimer = c.timer(c.debounce, c.fire)
}

// fire runs when the debounce window closes.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelTimer = nil
	c.mu.Unlock()

	if !c.writeLock.TryLock() {
		// Another save is in flight. Abort; the next change reschedules.
		c.mu.Lock()
		if c.cancelTimer == nil && c.phase == PhaseScheduled {
			c.phase = PhaseIdle
		}
		c.mu.Unlock()
		return
	}
	defer c.writeLock.Unlock()

	c.mu.Lock()
	c.phase = PhaseRunning
	c.mu.Unlock()

	c.save()

	c.mu.Lock()
	if c.phase == PhaseRunning {
		c.phase = PhaseIdle
	}
	c.mu.Unlock()
}

// save takes a fresh snapshot, walks the guard chain and performs at most
// one write. All failures are non-fatal: logged, surfaced via notify, and
// retried on the next qualifying change.
func (c *Coordinator) save() {
	snap := c.container.Snapshot()

	c.mu.Lock()
	paused := c.paused > 0
	c.mu.Unlock()

	if paused || snap.IsLoadingConfiguration {
		return
	}

	var op func(context.Context, wizard.State) error
	switch {
	case snap.LoadedConfigurationID != "":
		op = c.update
	case snap.IsInNewUIMode && snap.HasMeaningfulContent():
		op = c.create
	default:
		return
	}

	// Notifications raised by this save's own container updates carry the
	// snapshot's payload (or, after a create, the freshly cached lastSaved);
	// onChange recognizes both and stays quiet. Cleared when the save is
	// done so a failed payload is retried on the next change.
	if payload, err := encodeForCompare(RecordFromState(snap)); err == nil {
		c.mu.Lock()
		c.lastAttempt = payload
		c.mu.Unlock()
	}
	defer func() {
		c.mu.Lock()
		c.lastAttempt = nil
		c.mu.Unlock()
	}()

	c.setAutoSaving(true)
	defer c.setAutoSaving(false)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := op(ctx, snap); err != nil {
		logging.Warn("auto-save failed", zap.Error(err))
		if c.notify != nil {
			c.notify(err)
		}
	}
}

func (c *Coordinator) create(ctx context.Context, snap wizard.State) error {
	rec := RecordFromState(snap)

	id, err := c.records.Save(ctx, rec)
	if err != nil {
		return fmt.Errorf("creating record: %w", err)
	}

	// Save assigned the id, so the cached payload now matches what the
	// update path will encode for the same content.
	payload, err := encodeForCompare(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	c.mu.Lock()
	c.lastSaved = payload
	c.mu.Unlock()

	// Bind the draft to its record so later saves update it.
	c.container.Update(func(s *wizard.State) {
		s.LoadedConfigurationID = id
		s.IsInNewUIMode = false
	})

	logging.Debug("auto-save created record",
		zap.String("id", id),
		zap.String("title", rec.Title))
	return nil
}

func (c *Coordinator) update(ctx context.Context, snap wizard.State) error {
	rec := RecordFromState(snap)
	payload, err := encodeForCompare(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	c.mu.Lock()
	unchanged := bytes.Equal(payload, c.lastSaved)
	c.mu.Unlock()
	if unchanged {
		return nil
	}

	current, err := c.records.Get(ctx, snap.LoadedConfigurationID)
	if err != nil {
		return fmt.Errorf("reading record %s: %w", snap.LoadedConfigurationID, err)
	}

	// A custom title with no form in the session lives only on the record.
	if rec.TitleIsCustom && rec.Title == "" {
		rec.Title = current.Title
	}
	rec.Generation = current.Generation

	if err := c.records.Update(ctx, rec); err != nil {
		return fmt.Errorf("updating record %s: %w", rec.ID, err)
	}

	c.mu.Lock()
	c.lastSaved = payload
	c.mu.Unlock()

	logging.Debug("auto-save updated record",
		zap.String("id", rec.ID),
		zap.Int64("generation", rec.Generation))
	return nil
}

// setAutoSaving flips the indicator flag. The resulting notification does
// not reschedule: the flag is not part of the persistable payload, so
// onChange sees unchanged content.
func (c *Coordinator) setAutoSaving(v bool) {
	c.container.Update(func(s *wizard.State) { s.IsAutoSaving = v })
}

// encodeForCompare marshals a record with the store-managed fields cleared,
// so saves of identical content encode to identical bytes.
func encodeForCompare(rec *store.Record) ([]byte, error) {
	cp := rec.Clone()
	cp.CreatedAt = time.Time{}
	cp.UpdatedAt = time.Time{}
	cp.Generation = 0
	return json.Marshal(cp)
}
