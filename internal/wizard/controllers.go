package wizard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3forms/internal/adapter"
	"github.com/Mohsinsiddi/w3forms/internal/chain"
	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/form"
	"github.com/Mohsinsiddi/w3forms/internal/logging"
	"github.com/Mohsinsiddi/w3forms/internal/store"
)

// ErrReimportRequired is returned when function selection is attempted on a
// record whose definition was trimmed to a single function on export.
var ErrReimportRequired = errors.New("definition was trimmed on export; load the full definition to change the function")

// Saver pauses background persistence around explicit record loads so the
// half-applied state never hits the store.
type Saver interface {
	Pause()
	Resume()
}

// Session owns one wizard run: the shared state container plus one
// controller per step. Controllers mutate state only through the container,
// so every change flows to subscribers.
type Session struct {
	Container *Container
	Network   *NetworkController
	Contract  *ContractController
	Function  *FunctionController
	Form      *FormController

	records store.Store
	saver   Saver
}

// NewSession wires a container and its controllers. The auto-save
// coordinator is attached afterwards via AttachSaver because it subscribes
// to the container the session creates.
func NewSession(networks *chain.Registry, adapters *adapter.Registry, loader *contract.Loader, records store.Store) *Session {
	c := NewContainer()
	return &Session{
		Container: c,
		Network:   &NetworkController{container: c, networks: networks},
		Contract:  &ContractController{container: c, adapters: adapters, loader: loader},
		Function:  &FunctionController{container: c},
		Form:      &FormController{container: c},
		records:   records,
	}
}

// AttachSaver registers the background saver the session pauses during
// explicit loads. Passing nil detaches it.
func (s *Session) AttachSaver(saver Saver) { s.saver = saver }

// Back moves one step towards the start. Backing out of the first step
// discards the draft, but only when it is genuinely empty: anything the user
// already chose, and any opened record, survives.
func (s *Session) Back() {
	s.Container.Update(func(st *State) {
		if st.CurrentStep > StepNetwork {
			st.CurrentStep--
			return
		}
		if st.IsInNewUIMode && st.LoadedConfigurationID == "" && !st.HasMeaningfulContent() {
			fresh := NewState()
			fresh.IsLoadingConfiguration = st.IsLoadingConfiguration
			fresh.IsAutoSaving = st.IsAutoSaving
			*st = fresh
		}
	})
}

// LoadConfiguration replaces the session state with a stored record. The
// saver is paused for the duration so the load itself cannot trigger a save
// of the half-applied state.
func (s *Session) LoadConfiguration(ctx context.Context, id string) error {
	if s.saver != nil {
		s.saver.Pause()
		defer s.saver.Resume()
	}

	s.Container.Update(func(st *State) { st.IsLoadingConfiguration = true })
	defer s.Container.Update(func(st *State) { st.IsLoadingConfiguration = false })

	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading configuration %s: %w", id, err)
	}

	s.Container.LoadRecord(id, rec)
	snap := s.Container.Snapshot()
	logging.Debug("configuration loaded",
		zap.String("id", id),
		zap.String("step", snap.CurrentStep.String()),
		zap.Bool("needs_definition_load", snap.NeedsDefinitionLoad))
	return nil
}

// StartNew abandons whatever the session holds and begins a fresh draft.
// Failure tracking for the abandoned inputs is cleared so the next draft
// starts with a clean slate.
func (s *Session) StartNew() {
	snap := s.Container.Snapshot()
	if s.Contract.loader != nil {
		if snap.Contract.Address != "" {
			s.Contract.loader.ResetInput(contract.LoadInput{Address: snap.Contract.Address})
		}
		if snap.Contract.DefinitionJSON != "" {
			s.Contract.loader.ResetInput(contract.LoadInput{DefinitionText: snap.Contract.DefinitionJSON})
		}
	}
	s.Container.Reset()
}

// NetworkController handles the network selection step.
type NetworkController struct {
	container *Container
	networks  *chain.Registry
}

// Networks lists the selectable networks, mainnets first.
func (nc *NetworkController) Networks() []chain.Network { return nc.networks.List() }

// Select validates the network id, records the choice and advances past the
// network step. Reselecting the network already held is a no-op: nothing
// downstream is touched and the current step stays put.
func (nc *NetworkController) Select(id string) error {
	net, err := nc.networks.ByID(id)
	if err != nil {
		return err
	}

	if nc.container.Snapshot().SelectedNetworkID == net.ID {
		return nil
	}

	nc.container.Update(func(s *State) {
		s.SelectedNetworkID = net.ID
		s.SelectedEcosystem = net.Ecosystem
		s.ResetDownstream(StepNetwork, false)
		if s.CurrentStep == StepNetwork {
			s.CurrentStep = StepContract
		}
	})
	return nil
}

// ContractController handles definition entry: address lookup, pasted text,
// or both.
type ContractController struct {
	container *Container
	adapters  *adapter.Registry
	loader    *contract.Loader
}

// SetFormValue stores a raw entry-step input (pasted text, entry mode) so it
// survives navigating away and back.
func (cc *ContractController) SetFormValue(key, value string) {
	cc.container.Update(func(s *State) {
		if s.Contract.FormValues == nil {
			s.Contract.FormValues = map[string]string{}
		}
		s.Contract.FormValues[key] = value
	})
}

// ValidateAddress checks an address against the selected ecosystem's rules
// without touching session state, for as-you-type feedback.
func (cc *ContractController) ValidateAddress(address string) error {
	snap := cc.container.Snapshot()
	a, err := cc.adapters.ForEcosystem(snap.SelectedEcosystem)
	if err != nil {
		return err
	}
	return a.ValidateAddress(address)
}

// Load resolves a contract definition from the given input and stores the
// outcome. On failure the error lands in the contract state next to the
// attempted input, the schema is cleared, and nothing advances. On success
// the function selection survives only if the new schema still contains it.
func (cc *ContractController) Load(ctx context.Context, in contract.LoadInput) error {
	snap := cc.container.Snapshot()
	if snap.SelectedNetworkID == "" {
		return &contract.ValidationError{Reason: "select a network before loading a contract"}
	}

	a, err := cc.adapters.ForEcosystem(snap.SelectedEcosystem)
	if err != nil {
		return err
	}

	if in.Address != "" {
		checksummed, err := a.ChecksumAddress(in.Address)
		if err != nil {
			return err
		}
		in.Address = checksummed
	}

	// Reloading the text a record already carries is the resume path, not a
	// fresh import: it must not clear the reimport marker or the recorded
	// source.
	reload := in.DefinitionText != "" && in.DefinitionText == snap.Contract.DefinitionJSON

	def, err := cc.loader.Load(ctx, snap.SelectedNetworkID, in)
	if err != nil {
		cc.container.Update(func(s *State) {
			s.Contract.Address = in.Address
			s.Contract.Schema = nil
			s.Contract.Err = err.Error()
		})
		return err
	}

	cc.container.Update(func(s *State) {
		if _, keep := def.Schema.Function(s.SelectedFunction); !keep || s.SelectedFunction == "" {
			s.ResetDownstream(StepContract, false)
		}
		s.Contract.Schema = def.Schema
		s.Contract.Address = in.Address
		s.Contract.DefinitionJSON = def.OriginalText
		if !reload || s.Contract.DefinitionOriginal == "" {
			s.Contract.DefinitionOriginal = def.OriginalText
		}
		if !reload || s.Contract.Source == "" {
			s.Contract.Source = def.Source
		}
		s.Contract.Metadata = def.Metadata
		s.Contract.Err = ""
		s.NeedsDefinitionLoad = false
		if !reload {
			s.RequiresReimport = false
		}
		if s.CurrentStep == StepContract {
			s.CurrentStep = StepFunction
		}
	})
	return nil
}

// Reload re-resolves the schema from the definition already in the session,
// the resume path after opening a record that stores text but no parsed
// schema.
func (cc *ContractController) Reload(ctx context.Context) error {
	snap := cc.container.Snapshot()
	if snap.Contract.DefinitionJSON == "" && snap.Contract.Address == "" {
		return &contract.ValidationError{Reason: "nothing to reload"}
	}
	return cc.Load(ctx, contract.LoadInput{
		Address:        snap.Contract.Address,
		DefinitionText: snap.Contract.DefinitionJSON,
	})
}

// LoadBuiltin loads one of the bundled standard definitions by id.
func (cc *ContractController) LoadBuiltin(ctx context.Context, id string) error {
	b, ok := contract.GetBuiltin(id)
	if !ok {
		return &contract.ValidationError{Reason: fmt.Sprintf("unknown built-in definition %q", id)}
	}
	return cc.Load(ctx, contract.LoadInput{DefinitionText: b.ABIJSON})
}

// FunctionController handles picking the callable the form is built around.
type FunctionController struct {
	container *Container
}

// Functions lists the callables of the loaded schema, nil when no schema is
// loaded.
func (fc *FunctionController) Functions() []contract.Function {
	snap := fc.container.Snapshot()
	if snap.Contract.Schema == nil {
		return nil
	}
	return snap.Contract.Schema.Functions
}

// Select records the chosen function and builds the default form for it.
// Reselecting the current function keeps the customized form untouched.
// Records restored from a trimmed definition refuse reselection until a full
// definition is loaded again.
func (fc *FunctionController) Select(functionID string) error {
	snap := fc.container.Snapshot()
	if snap.RequiresReimport {
		return ErrReimportRequired
	}
	if snap.Contract.Schema == nil {
		return &contract.ValidationError{Reason: "load a contract definition before choosing a function"}
	}
	fn, ok := snap.Contract.Schema.Function(functionID)
	if !ok {
		return &contract.ValidationError{Reason: fmt.Sprintf("function %q is not in the loaded definition", functionID)}
	}

	if snap.SelectedFunction == functionID {
		return nil
	}

	fc.container.Update(func(s *State) {
		s.SelectedFunction = functionID
		s.ResetDownstream(StepFunction, false)
		s.FormConfig = form.DefaultConfig(fn)
		if s.CurrentStep == StepFunction {
			s.CurrentStep = StepForm
		}
	})
	return nil
}

// FormController handles form customization, the last editable step.
type FormController struct {
	container *Container
}

func errNoForm() error {
	return &contract.ValidationError{Reason: "no form to customize; choose a function first"}
}

// SetTitle stores a user-chosen title. Titles set here stick: auto-save
// stops deriving them.
func (fc *FormController) SetTitle(title string) error {
	var err error
	fc.container.Update(func(s *State) {
		if s.FormConfig == nil {
			err = errNoForm()
			return
		}
		s.FormConfig.Title = title
		s.TitleIsCustom = true
	})
	return err
}

// SetDescription stores the form description.
func (fc *FormController) SetDescription(desc string) error {
	var err error
	fc.container.Update(func(s *State) {
		if s.FormConfig == nil {
			err = errNoForm()
			return
		}
		s.FormConfig.Description = desc
	})
	return err
}

// UpdateField applies a mutation to one field, addressed by its id
// ("order.amount" style paths for nested components).
func (fc *FormController) UpdateField(fieldID string, mutate func(*form.Field)) error {
	var err error
	fc.container.Update(func(s *State) {
		if s.FormConfig == nil {
			err = errNoForm()
			return
		}
		f, ok := s.FormConfig.Field(fieldID)
		if !ok {
			err = &contract.ValidationError{Reason: fmt.Sprintf("unknown field %q", fieldID)}
			return
		}
		mutate(f)
	})
	return err
}

// SetExecution replaces the execution settings.
func (fc *FormController) SetExecution(cfg form.ExecutionConfig) error {
	var err error
	fc.container.Update(func(s *State) {
		if s.FormConfig == nil {
			err = errNoForm()
			return
		}
		s.FormConfig.Execution = cfg
	})
	return err
}

// Complete marks customization finished and moves to the final step.
func (fc *FormController) Complete() error {
	var err error
	fc.container.Update(func(s *State) {
		if s.FormConfig == nil {
			err = errNoForm()
			return
		}
		if s.CurrentStep == StepForm {
			s.CurrentStep = StepComplete
		}
	})
	return err
}
