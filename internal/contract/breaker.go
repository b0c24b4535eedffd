package contract

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrTooManyAttempts is returned while the breaker for an input is open.
var ErrTooManyAttempts = errors.New("too many failed attempts")

const (
	// Failures within the window needed to open the breaker.
	breakerThreshold = 3
	// Window in which failures are counted.
	breakerWindow = 30 * time.Second
	// How long the breaker stays open once tripped.
	breakerCooldown = 60 * time.Second
)

// TooManyAttemptsError reports an open breaker with the remaining cool-down.
type TooManyAttemptsError struct {
	RetryIn time.Duration
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many failed attempts for this contract; try again in %s", e.RetryIn.Round(time.Second))
}

func (e *TooManyAttemptsError) Unwrap() error { return ErrTooManyAttempts }

// Breaker suppresses repeated failing loads of the same input. Three failures
// inside a 30s window open the breaker for that input for 60s; attempts while
// open fail fast with a distinct message so persistent misconfiguration reads
// differently from transient flakiness.
type Breaker struct {
	mu      sync.Mutex
	entries map[string]*breakerEntry

	// Now returns the current time. If nil, time.Now is used. Inject a fixed
	// clock for deterministic tests.
	Now func() time.Time
}

type breakerEntry struct {
	failures  []time.Time
	openUntil time.Time
}

// NewBreaker creates an empty breaker.
func NewBreaker() *Breaker {
	return &Breaker{entries: make(map[string]*breakerEntry)}
}

func (b *Breaker) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Allow reports whether a load attempt for key may proceed.
func (b *Breaker) Allow(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		return nil
	}

	now := b.now()
	if now.Before(e.openUntil) {
		return &TooManyAttemptsError{RetryIn: e.openUntil.Sub(now)}
	}
	return nil
}

// Record registers a failed attempt for key, opening the breaker when the
// threshold is reached inside the window.
func (b *Breaker) Record(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		e = &breakerEntry{}
		b.entries[key] = e
	}

	now := b.now()

	// Drop failures that have aged out of the window.
	cutoff := now.Add(-breakerWindow)
	kept := e.failures[:0]
	for _, t := range e.failures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.failures = append(kept, now)

	if len(e.failures) >= breakerThreshold {
		e.openUntil = now.Add(breakerCooldown)
		e.failures = nil
	}
}

// Reset clears all breaker state for key. Called after a successful load.
func (b *Breaker) Reset(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
}
