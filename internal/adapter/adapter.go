// Package adapter defines the per-ecosystem contract adapter and the
// registry that resolves one for a selected network.
package adapter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
)

// ErrNoAdapter is returned when no adapter is registered for an ecosystem.
var ErrNoAdapter = errors.New("no adapter for ecosystem")

// Adapter normalizes ecosystem-specific contract concepts. ParseDefinition
// satisfies contract.Parser, so an adapter plugs straight into the loader.
type Adapter interface {
	Ecosystem() string
	ValidateAddress(address string) error
	ChecksumAddress(address string) (string, error)
	ParseDefinition(abiJSON string) (*contract.Schema, map[string]string, error)
}

// Registry maps ecosystem ids to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Ecosystem()] = a
	}
	return r
}

// Register adds or replaces the adapter for its ecosystem.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Ecosystem()] = a
}

// ForEcosystem returns the adapter registered for the ecosystem.
func (r *Registry) ForEcosystem(ecosystem string) (Adapter, error) {
	a, ok := r.adapters[ecosystem]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, ecosystem)
	}
	return a, nil
}

// Ecosystems lists the registered ecosystem ids, sorted.
func (r *Registry) Ecosystems() []string {
	out := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
