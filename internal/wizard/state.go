// Package wizard holds the five-step builder session: its state container
// and the per-step controllers that mutate it.
package wizard

import (
	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/form"
)

// Step indexes the wizard's steps in dependency order. Each step's state
// builds on the previous one's, which is what makes downstream resets
// meaningful.
type Step int

const (
	StepNetwork Step = iota
	StepContract
	StepFunction
	StepForm
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepNetwork:
		return "network"
	case StepContract:
		return "contract"
	case StepFunction:
		return "function"
	case StepForm:
		return "form"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ContractState is the contract slice of the session.
type ContractState struct {
	// Schema is the normalized callable interface, nil until a definition
	// loads successfully. Treated as immutable; snapshots share it.
	Schema *contract.Schema
	// Address is the checksummed contract address, empty for manual-only
	// definitions.
	Address string
	// FormValues holds raw inputs of the definition entry form (pasted
	// text before a load, mode toggles) so they survive step navigation.
	FormValues map[string]string
	// DefinitionJSON is the definition text the schema resolved from;
	// DefinitionOriginal keeps the untouched user input when they differ.
	DefinitionJSON     string
	DefinitionOriginal string
	Source             contract.Source
	Metadata           map[string]string
	// Err is the last load failure, empty after a successful load.
	// Invariant: Schema is non-nil only when Err is empty.
	Err string
}

// State is one wizard session. It is mutated only through the container.
type State struct {
	SelectedNetworkID string
	SelectedEcosystem string
	CurrentStep       Step

	Contract         ContractState
	SelectedFunction string // canonical id, e.g. "transfer(address,uint256)"
	FormConfig       *form.Config
	// TitleIsCustom pins the title once the user edits it; auto-save stops
	// deriving one.
	TitleIsCustom bool

	// LoadedConfigurationID binds the session to a persisted record; empty
	// until the first auto-save creates one or a record is loaded.
	LoadedConfigurationID string
	// IsInNewUIMode is true while drafting a configuration that has never
	// been persisted. It decides create vs update in auto-save.
	IsInNewUIMode bool
	// RequiresReimport marks sessions resumed from a record that carries
	// only a trimmed definition; function re-selection is blocked until a
	// full definition is loaded again.
	RequiresReimport bool

	// Transient flags, never persisted.
	NeedsDefinitionLoad    bool
	IsLoadingConfiguration bool
	IsAutoSaving           bool

	// UIState carries per-step presentation preferences (cursor positions,
	// filters) keyed "step.pref". Transient.
	UIState map[string]string
}

// NewState returns the defaults for a fresh draft.
func NewState() State {
	return State{
		CurrentStep:   StepNetwork,
		IsInNewUIMode: true,
	}
}

// Clone returns a deep copy. The contract schema is shared, not copied; it
// is immutable once parsed.
func (s State) Clone() State {
	out := s
	out.Contract.FormValues = copyMap(s.Contract.FormValues)
	out.Contract.Metadata = copyMap(s.Contract.Metadata)
	out.FormConfig = s.FormConfig.Clone()
	out.UIState = copyMap(s.UIState)
	return out
}

// HasMeaningfulContent reports whether the draft is worth persisting: a
// network choice, a function choice, or form customization.
func (s State) HasMeaningfulContent() bool {
	return s.SelectedNetworkID != "" || s.SelectedFunction != "" || s.FormConfig != nil
}

// ResetDownstream clears all state semantically downstream of the given
// step, in the dependency order network → contract → function → form. The
// step's own value is untouched; callers reset after changing a selection.
// preserveFormConfig keeps the form customization on a function-level reset
// (the same-function reselect case).
func (s *State) ResetDownstream(from Step, preserveFormConfig bool) {
	switch from {
	case StepNetwork:
		s.Contract = ContractState{}
		s.SelectedFunction = ""
		s.FormConfig = nil
		s.TitleIsCustom = false
		s.RequiresReimport = false
		s.NeedsDefinitionLoad = false
	case StepContract:
		s.SelectedFunction = ""
		s.FormConfig = nil
		s.TitleIsCustom = false
	case StepFunction:
		if !preserveFormConfig {
			s.FormConfig = nil
			s.TitleIsCustom = false
		}
	}
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
