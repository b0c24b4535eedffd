package wizard

import (
	"sort"
	"sync"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/store"
)

// Container serializes all access to the session state behind a mutex and
// fans out change notifications. It is the only way state is read or
// mutated; there is no package-level session.
type Container struct {
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewContainer creates a container holding a fresh draft.
func NewContainer() *Container {
	return &Container{
		state: NewState(),
		subs:  make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Update applies fn to the latest state under the lock and notifies
// subscribers exactly once. fn must be synchronous and must not call back
// into the container.
func (c *Container) Update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.Clone()
	subs := c.subscribers()
	c.mu.Unlock()

	// Callbacks run outside the lock so they can Snapshot or Update.
	for _, sub := range subs {
		sub(snapshot)
	}
}

// Subscribe registers a change listener, invoked once per committed update.
// The returned function removes it.
func (c *Container) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// ResetDownstream clears state downstream of the given step and notifies.
func (c *Container) ResetDownstream(from Step, preserveFormConfig bool) {
	c.Update(func(s *State) {
		s.ResetDownstream(from, preserveFormConfig)
	})
}

// Reset restores a fresh draft, preserving only the transient loading
// flags of the session being replaced.
func (c *Container) Reset() {
	c.Update(func(s *State) {
		fresh := NewState()
		fresh.IsLoadingConfiguration = s.IsLoadingConfiguration
		fresh.IsAutoSaving = s.IsAutoSaving
		*s = fresh
	})
}

// LoadRecord hydrates the session from a persisted record. The replace is
// total: nothing of the previous draft survives except transient flags.
// The resume step is the first one whose prerequisite is unmet; a record
// holding only a trimmed definition with a chosen function resumes at the
// form step with reimport required.
func (c *Container) LoadRecord(id string, rec *store.Record) {
	c.Update(func(s *State) {
		fresh := NewState()
		fresh.IsLoadingConfiguration = s.IsLoadingConfiguration
		fresh.IsAutoSaving = s.IsAutoSaving

		fresh.SelectedNetworkID = rec.NetworkID
		fresh.SelectedEcosystem = rec.Ecosystem
		fresh.Contract.Address = rec.ContractAddress
		fresh.Contract.DefinitionJSON = rec.DefinitionJSON
		fresh.Contract.DefinitionOriginal = rec.DefinitionOriginal
		fresh.Contract.Source = contract.Source(rec.DefinitionSource)
		fresh.Contract.Metadata = copyMap(rec.Metadata)
		fresh.SelectedFunction = rec.FunctionID
		fresh.FormConfig = rec.FormConfig.Clone()
		fresh.TitleIsCustom = rec.TitleIsCustom

		fresh.LoadedConfigurationID = id
		fresh.IsInNewUIMode = false
		// The schema itself is never persisted; raw definition text is
		// enough to resolve it again.
		fresh.NeedsDefinitionLoad = rec.DefinitionJSON != ""

		fresh.CurrentStep = resumeStep(&fresh)
		if rec.DefinitionTrimmed && rec.FunctionID != "" {
			fresh.CurrentStep = StepForm
			fresh.RequiresReimport = true
		}

		*s = fresh
	})
}

// resumeStep finds the first step whose prerequisite is unmet.
func resumeStep(s *State) Step {
	switch {
	case s.SelectedNetworkID == "":
		return StepNetwork
	case s.Contract.Address == "" && s.Contract.DefinitionJSON == "":
		return StepContract
	case s.SelectedFunction == "":
		return StepFunction
	default:
		return StepForm
	}
}

// subscribers returns the callbacks in registration order. Callers must
// hold the lock.
func (c *Container) subscribers() []func(State) {
	if len(c.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	// Subscription ids are monotonic, so sorting them preserves
	// registration order.
	sort.Ints(ids)
	out := make([]func(State), len(ids))
	for i, id := range ids {
		out[i] = c.subs[id]
	}
	return out
}
