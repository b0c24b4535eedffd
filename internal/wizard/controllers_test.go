package wizard_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3forms/internal/adapter"
	"github.com/Mohsinsiddi/w3forms/internal/adapter/evm"
	"github.com/Mohsinsiddi/w3forms/internal/chain"
	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/form"
	"github.com/Mohsinsiddi/w3forms/internal/store"
	"github.com/Mohsinsiddi/w3forms/internal/wizard"
)

const checksummedAddr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

const tokenABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const tokenABIWithApprove = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const viewOnlyABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const trimmedTransferABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

type stubFetcher struct {
	abi   string
	err   error
	calls int
}

func (f *stubFetcher) FetchABI(ctx context.Context, address string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.abi, nil
}

type fakeSaver struct {
	events []string
}

func (f *fakeSaver) Pause()  { f.events = append(f.events, "pause") }
func (f *fakeSaver) Resume() { f.events = append(f.events, "resume") }

type sessionFixture struct {
	session *wizard.Session
	store   *store.MemoryStore
	fetcher *stubFetcher
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	adapters := adapter.NewRegistry(evm.New())
	evmAdapter, err := adapters.ForEcosystem(chain.EcosystemEVM)
	require.NoError(t, err)

	fetcher := &stubFetcher{abi: tokenABI}
	loader := contract.NewLoader(evmAdapter, func(string) contract.Fetcher { return fetcher })

	records := store.NewMemoryStore()
	return &sessionFixture{
		session: wizard.NewSession(chain.NewRegistry(), adapters, loader, records),
		store:   records,
		fetcher: fetcher,
	}
}

func (fx *sessionFixture) snapshot() wizard.State {
	return fx.session.Container.Snapshot()
}

// advanceToForm drives the happy path up to the customization step.
func advanceToForm(t *testing.T, fx *sessionFixture) {
	t.Helper()
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))
	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABI}))
	require.NoError(t, fx.session.Function.Select("transfer(address,uint256)"))
	require.Equal(t, wizard.StepForm, fx.snapshot().CurrentStep)
}

// ---------------------------------------------------------------------------
// Network step
// ---------------------------------------------------------------------------

func TestNetworkSelectAdvances(t *testing.T) {
	fx := newSessionFixture(t)

	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	snap := fx.snapshot()
	assert.Equal(t, "ethereum-mainnet", snap.SelectedNetworkID)
	assert.Equal(t, chain.EcosystemEVM, snap.SelectedEcosystem)
	assert.Equal(t, wizard.StepContract, snap.CurrentStep)
}

func TestNetworkSelectUnknown(t *testing.T) {
	fx := newSessionFixture(t)

	err := fx.session.Network.Select("mystery-chain")

	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrNetworkNotFound)
	snap := fx.snapshot()
	assert.Empty(t, snap.SelectedNetworkID)
	assert.Equal(t, wizard.StepNetwork, snap.CurrentStep)
}

func TestNetworkReselectKeepsEverything(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)
	require.NoError(t, fx.session.Form.SetTitle("Send USDC"))

	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	snap := fx.snapshot()
	assert.Equal(t, wizard.StepForm, snap.CurrentStep)
	assert.Equal(t, "transfer(address,uint256)", snap.SelectedFunction)
	require.NotNil(t, snap.FormConfig)
	assert.Equal(t, "Send USDC", snap.FormConfig.Title)
	assert.NotNil(t, snap.Contract.Schema)
}

func TestNetworkChangeResetsDownstream(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)
	fx.session.Back()
	fx.session.Back()
	fx.session.Back()
	require.Equal(t, wizard.StepNetwork, fx.snapshot().CurrentStep)

	require.NoError(t, fx.session.Network.Select("base-mainnet"))

	snap := fx.snapshot()
	assert.Equal(t, "base-mainnet", snap.SelectedNetworkID)
	assert.Equal(t, wizard.StepContract, snap.CurrentStep)
	assert.Nil(t, snap.Contract.Schema)
	assert.Empty(t, snap.Contract.Address)
	assert.Empty(t, snap.SelectedFunction)
	assert.Nil(t, snap.FormConfig)
}

func TestNetworkListHasBuiltins(t *testing.T) {
	fx := newSessionFixture(t)

	nets := fx.session.Network.Networks()

	require.NotEmpty(t, nets)
	assert.False(t, nets[0].Testnet, "mainnets sort first")
	ids := make([]string, len(nets))
	for i, n := range nets {
		ids[i] = n.ID
	}
	assert.Contains(t, ids, "ethereum-mainnet")
}

// ---------------------------------------------------------------------------
// Contract step
// ---------------------------------------------------------------------------

func TestContractLoadManual(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABI}))

	snap := fx.snapshot()
	require.NotNil(t, snap.Contract.Schema)
	assert.Len(t, snap.Contract.Schema.Functions, 2)
	assert.Equal(t, contract.SourceManual, snap.Contract.Source)
	assert.Equal(t, tokenABI, snap.Contract.DefinitionJSON)
	assert.Empty(t, snap.Contract.Err)
	assert.Equal(t, wizard.StepFunction, snap.CurrentStep)
	assert.Equal(t, 0, fx.fetcher.calls, "manual loads never hit the explorer")
}

func TestContractLoadFetched(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	lower := strings.ToLower(checksummedAddr)
	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{Address: lower}))

	snap := fx.snapshot()
	assert.Equal(t, checksummedAddr, snap.Contract.Address, "stored checksummed")
	assert.Equal(t, contract.SourceFetched, snap.Contract.Source)
	assert.Equal(t, "abi", snap.Contract.Metadata["format"])
	require.NotNil(t, snap.Contract.Schema)
	assert.Equal(t, wizard.StepFunction, snap.CurrentStep)
	assert.Equal(t, 1, fx.fetcher.calls)
}

func TestContractLoadRequiresNetwork(t *testing.T) {
	fx := newSessionFixture(t)

	err := fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABI})

	require.Error(t, err)
	assert.True(t, contract.IsValidation(err))
	assert.Equal(t, wizard.StepNetwork, fx.snapshot().CurrentStep)
}

func TestContractLoadRejectsBadAddress(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	err := fx.session.Contract.Load(context.Background(), contract.LoadInput{Address: "not-an-address"})

	require.Error(t, err)
	assert.True(t, contract.IsValidation(err))
	snap := fx.snapshot()
	assert.Empty(t, snap.Contract.Address, "rejected input is not recorded")
	assert.Empty(t, snap.Contract.Err)
	assert.Equal(t, 0, fx.fetcher.calls)
}

func TestContractLoadFailureRecordsError(t *testing.T) {
	fx := newSessionFixture(t)
	fx.fetcher.err = errors.New("explorer down")
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	err := fx.session.Contract.Load(context.Background(), contract.LoadInput{Address: strings.ToLower(checksummedAddr)})

	require.Error(t, err)
	snap := fx.snapshot()
	assert.Equal(t, checksummedAddr, snap.Contract.Address, "the attempted address stays for retry")
	assert.Nil(t, snap.Contract.Schema)
	assert.Contains(t, snap.Contract.Err, "explorer down")
	assert.Equal(t, wizard.StepContract, snap.CurrentStep, "failures never advance")
}

func TestContractLoadErrorClearedOnSuccess(t *testing.T) {
	fx := newSessionFixture(t)
	fx.fetcher.err = errors.New("explorer down")
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	in := contract.LoadInput{Address: checksummedAddr}
	require.Error(t, fx.session.Contract.Load(context.Background(), in))

	fx.fetcher.err = nil
	require.NoError(t, fx.session.Contract.Load(context.Background(), in))

	snap := fx.snapshot()
	assert.Empty(t, snap.Contract.Err)
	require.NotNil(t, snap.Contract.Schema)
	assert.Equal(t, wizard.StepFunction, snap.CurrentStep)
}

func TestContractRedefineKeepsFunctionWhenStillPresent(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)
	require.NoError(t, fx.session.Form.SetTitle("Send"))

	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABIWithApprove}))

	snap := fx.snapshot()
	assert.Equal(t, "transfer(address,uint256)", snap.SelectedFunction)
	require.NotNil(t, snap.FormConfig)
	assert.Equal(t, "Send", snap.FormConfig.Title)
	assert.Len(t, snap.Contract.Schema.Functions, 3)
	assert.Equal(t, wizard.StepForm, snap.CurrentStep, "advance applies only from the contract step")
}

func TestContractRedefineDropsMissingFunction(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)

	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: viewOnlyABI}))

	snap := fx.snapshot()
	assert.Empty(t, snap.SelectedFunction)
	assert.Nil(t, snap.FormConfig)
	require.NotNil(t, snap.Contract.Schema)
	assert.Len(t, snap.Contract.Schema.Functions, 1)
}

func TestContractRepeatedFailuresTripBreaker(t *testing.T) {
	fx := newSessionFixture(t)
	fx.fetcher.err = errors.New("explorer down")
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	ctx := context.Background()
	in := contract.LoadInput{Address: strings.ToLower(checksummedAddr)}
	for i := 0; i < 3; i++ {
		require.Error(t, fx.session.Contract.Load(ctx, in))
	}
	require.Equal(t, 3, fx.fetcher.calls)

	err := fx.session.Contract.Load(ctx, in)

	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrTooManyAttempts)
	assert.Equal(t, 3, fx.fetcher.calls, "the breaker stops the fetch before it starts")
}

func TestContractSetFormValue(t *testing.T) {
	fx := newSessionFixture(t)

	fx.session.Contract.SetFormValue("mode", "paste")
	fx.session.Contract.SetFormValue("paste", `[{"type":`)

	snap := fx.snapshot()
	assert.Equal(t, "paste", snap.Contract.FormValues["mode"])
	assert.Equal(t, `[{"type":`, snap.Contract.FormValues["paste"])
}

func TestContractValidateAddress(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	assert.NoError(t, fx.session.Contract.ValidateAddress(checksummedAddr))
	assert.Error(t, fx.session.Contract.ValidateAddress("0x123"))
}

func TestContractLoadBuiltin(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	require.NoError(t, fx.session.Contract.LoadBuiltin(context.Background(), "erc20"))

	snap := fx.snapshot()
	require.NotNil(t, snap.Contract.Schema)
	assert.Equal(t, contract.SourceManual, snap.Contract.Source)
	fn, ok := snap.Contract.Schema.Function("transfer(address,uint256)")
	require.True(t, ok)
	assert.Equal(t, "transfer", fn.Name)
}

func TestContractLoadBuiltinUnknown(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	err := fx.session.Contract.LoadBuiltin(context.Background(), "erc9999")

	require.Error(t, err)
	assert.True(t, contract.IsValidation(err))
}

// ---------------------------------------------------------------------------
// Function step
// ---------------------------------------------------------------------------

func TestFunctionSelectBuildsDefaultForm(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))
	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABI}))

	require.NoError(t, fx.session.Function.Select("transfer(address,uint256)"))

	snap := fx.snapshot()
	assert.Equal(t, "transfer(address,uint256)", snap.SelectedFunction)
	require.NotNil(t, snap.FormConfig)
	assert.Equal(t, "transfer(address,uint256)", snap.FormConfig.FunctionID)
	assert.Equal(t, "Transfer", snap.FormConfig.Title)
	require.Len(t, snap.FormConfig.Fields, 2)
	assert.Equal(t, "to", snap.FormConfig.Fields[0].ID)
	assert.Equal(t, form.FieldAddress, snap.FormConfig.Fields[0].Type)
	assert.Equal(t, "amount", snap.FormConfig.Fields[1].ID)
	assert.Equal(t, form.FieldNumber, snap.FormConfig.Fields[1].Type)
	assert.Equal(t, form.ExecutionEOA, snap.FormConfig.Execution.Method)
	assert.False(t, snap.TitleIsCustom)
	assert.Equal(t, wizard.StepForm, snap.CurrentStep)
}

func TestFunctionReselectKeepsCustomization(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)
	require.NoError(t, fx.session.Form.SetTitle("My Transfer"))
	require.NoError(t, fx.session.Form.UpdateField("amount", func(f *form.Field) { f.Label = "Wei" }))

	require.NoError(t, fx.session.Function.Select("transfer(address,uint256)"))

	snap := fx.snapshot()
	assert.Equal(t, "My Transfer", snap.FormConfig.Title)
	f, ok := snap.FormConfig.Field("amount")
	require.True(t, ok)
	assert.Equal(t, "Wei", f.Label)
	assert.Equal(t, wizard.StepForm, snap.CurrentStep)
}

func TestFunctionSwitchRebuildsForm(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)
	require.NoError(t, fx.session.Form.SetTitle("My Transfer"))

	require.NoError(t, fx.session.Function.Select("balanceOf(address)"))

	snap := fx.snapshot()
	assert.Equal(t, "balanceOf(address)", snap.SelectedFunction)
	require.NotNil(t, snap.FormConfig)
	assert.Equal(t, "balanceOf(address)", snap.FormConfig.FunctionID)
	assert.Equal(t, "Balance Of", snap.FormConfig.Title)
	assert.False(t, snap.TitleIsCustom, "a derived title replaces the stale custom one")
}

func TestFunctionSelectWithoutSchema(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	err := fx.session.Function.Select("transfer(address,uint256)")

	require.Error(t, err)
	assert.True(t, contract.IsValidation(err))
}

func TestFunctionSelectUnknownID(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))
	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABI}))

	err := fx.session.Function.Select("mint(uint256)")

	require.Error(t, err)
	assert.True(t, contract.IsValidation(err))
	assert.Empty(t, fx.snapshot().SelectedFunction)
}

func TestFunctionsListsSchema(t *testing.T) {
	fx := newSessionFixture(t)
	assert.Nil(t, fx.session.Function.Functions())

	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))
	require.NoError(t, fx.session.Contract.Load(context.Background(), contract.LoadInput{DefinitionText: tokenABI}))

	fns := fx.session.Function.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, "balanceOf(address)", fns[0].ID)
	assert.Equal(t, "transfer(address,uint256)", fns[1].ID)
}

// ---------------------------------------------------------------------------
// Form step
// ---------------------------------------------------------------------------

func TestFormCustomization(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)

	require.NoError(t, fx.session.Form.SetTitle("Send Tokens"))
	require.NoError(t, fx.session.Form.SetDescription("Transfers tokens to a recipient."))
	require.NoError(t, fx.session.Form.UpdateField("amount", func(f *form.Field) {
		f.Label = "Amount (wei)"
		f.HelpText = "Raw token units."
	}))
	require.NoError(t, fx.session.Form.SetExecution(form.ExecutionConfig{
		Method:         form.ExecutionMultisig,
		AllowedCallers: []string{checksummedAddr},
	}))

	snap := fx.snapshot()
	assert.Equal(t, "Send Tokens", snap.FormConfig.Title)
	assert.True(t, snap.TitleIsCustom)
	assert.Equal(t, "Transfers tokens to a recipient.", snap.FormConfig.Description)
	f, ok := snap.FormConfig.Field("amount")
	require.True(t, ok)
	assert.Equal(t, "Amount (wei)", f.Label)
	assert.Equal(t, "Raw token units.", f.HelpText)
	assert.Equal(t, form.ExecutionMultisig, snap.FormConfig.Execution.Method)
	assert.Equal(t, []string{checksummedAddr}, snap.FormConfig.Execution.AllowedCallers)
}

func TestFormUpdateUnknownField(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)

	err := fx.session.Form.UpdateField("nope", func(f *form.Field) { f.Hidden = true })

	require.Error(t, err)
	assert.True(t, contract.IsValidation(err))
}

func TestFormControllerRequiresForm(t *testing.T) {
	fx := newSessionFixture(t)

	assert.Error(t, fx.session.Form.SetTitle("x"))
	assert.Error(t, fx.session.Form.SetDescription("x"))
	assert.Error(t, fx.session.Form.UpdateField("to", func(f *form.Field) {}))
	assert.Error(t, fx.session.Form.SetExecution(form.ExecutionConfig{Method: form.ExecutionEOA}))
	assert.Error(t, fx.session.Form.Complete())
}

func TestFormComplete(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)

	require.NoError(t, fx.session.Form.Complete())

	assert.Equal(t, wizard.StepComplete, fx.snapshot().CurrentStep)
}

// ---------------------------------------------------------------------------
// Session navigation and lifecycle
// ---------------------------------------------------------------------------

func TestBackNavigatesSteps(t *testing.T) {
	fx := newSessionFixture(t)
	advanceToForm(t, fx)

	fx.session.Back()
	assert.Equal(t, wizard.StepFunction, fx.snapshot().CurrentStep)
	fx.session.Back()
	assert.Equal(t, wizard.StepContract, fx.snapshot().CurrentStep)

	snap := fx.snapshot()
	assert.Equal(t, "transfer(address,uint256)", snap.SelectedFunction, "backing up never clears choices")
	assert.NotNil(t, snap.FormConfig)
}

func TestBackAtFirstStepDiscardsEmptyDraft(t *testing.T) {
	fx := newSessionFixture(t)
	fx.session.Contract.SetFormValue("paste", `[{"typ`)
	require.Equal(t, wizard.StepNetwork, fx.snapshot().CurrentStep)

	fx.session.Back()

	snap := fx.snapshot()
	assert.Nil(t, snap.Contract.FormValues, "an empty draft is discarded")
	assert.True(t, snap.IsInNewUIMode)
}

func TestBackAtFirstStepKeepsMeaningfulDraft(t *testing.T) {
	fx := newSessionFixture(t)
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))
	fx.session.Back()
	require.Equal(t, wizard.StepNetwork, fx.snapshot().CurrentStep)

	fx.session.Back()

	assert.Equal(t, "ethereum-mainnet", fx.snapshot().SelectedNetworkID)
}

func TestBackAtFirstStepKeepsLoadedRecord(t *testing.T) {
	fx := newSessionFixture(t)
	rec := storedRecord()
	rec.ContractAddress = ""
	rec.DefinitionJSON = ""
	rec.FunctionID = ""
	rec.FormConfig = nil
	_, err := fx.store.Save(context.Background(), rec)
	require.NoError(t, err)

	require.NoError(t, fx.session.LoadConfiguration(context.Background(), rec.ID))
	require.Equal(t, wizard.StepContract, fx.snapshot().CurrentStep)

	fx.session.Back()
	fx.session.Back()

	snap := fx.snapshot()
	assert.Equal(t, rec.ID, snap.LoadedConfigurationID, "loaded records are never discarded by navigation")
	assert.Equal(t, "ethereum-mainnet", snap.SelectedNetworkID)
}

func TestLoadConfigurationPausesSaver(t *testing.T) {
	fx := newSessionFixture(t)
	saver := &fakeSaver{}
	fx.session.AttachSaver(saver)

	rec := storedRecord()
	_, err := fx.store.Save(context.Background(), rec)
	require.NoError(t, err)

	var loadingSeen []bool
	fx.session.Container.Subscribe(func(s wizard.State) {
		loadingSeen = append(loadingSeen, s.IsLoadingConfiguration)
	})

	require.NoError(t, fx.session.LoadConfiguration(context.Background(), rec.ID))

	assert.Equal(t, []string{"pause", "resume"}, saver.events)
	assert.Equal(t, []bool{true, true, false}, loadingSeen, "the flag wraps the whole load")
	snap := fx.snapshot()
	assert.Equal(t, rec.ID, snap.LoadedConfigurationID)
	assert.False(t, snap.IsLoadingConfiguration)
}

func TestLoadConfigurationMissingRecord(t *testing.T) {
	fx := newSessionFixture(t)

	err := fx.session.LoadConfiguration(context.Background(), "no-such-id")

	require.Error(t, err)
	var notFound *store.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	snap := fx.snapshot()
	assert.False(t, snap.IsLoadingConfiguration)
	assert.Empty(t, snap.LoadedConfigurationID)
}

func TestReloadResolvesStoredDefinition(t *testing.T) {
	fx := newSessionFixture(t)
	rec := storedRecord()
	rec.DefinitionJSON = tokenABI
	rec.DefinitionSource = string(contract.SourceFetched)
	_, err := fx.store.Save(context.Background(), rec)
	require.NoError(t, err)
	require.NoError(t, fx.session.LoadConfiguration(context.Background(), rec.ID))

	snap := fx.snapshot()
	require.True(t, snap.NeedsDefinitionLoad)
	require.Nil(t, snap.Contract.Schema)

	require.NoError(t, fx.session.Contract.Reload(context.Background()))

	snap = fx.snapshot()
	require.NotNil(t, snap.Contract.Schema)
	assert.False(t, snap.NeedsDefinitionLoad)
	assert.Equal(t, contract.SourceFetched, snap.Contract.Source, "the stored source is not rewritten")
	assert.Equal(t, "transfer(address,uint256)", snap.SelectedFunction)
	assert.Equal(t, "Transfer", snap.FormConfig.Title)
	assert.Equal(t, wizard.StepForm, snap.CurrentStep)
	assert.Equal(t, 0, fx.fetcher.calls, "stored text resolves without the explorer")
}

func TestTrimmedRecordBlocksFunctionChange(t *testing.T) {
	fx := newSessionFixture(t)
	rec := storedRecord()
	rec.DefinitionJSON = trimmedTransferABI
	rec.DefinitionTrimmed = true
	_, err := fx.store.Save(context.Background(), rec)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fx.session.LoadConfiguration(ctx, rec.ID))

	snap := fx.snapshot()
	require.True(t, snap.RequiresReimport)
	require.Equal(t, wizard.StepForm, snap.CurrentStep)

	// Resolving the trimmed fragment keeps the form usable but the block in
	// place.
	require.NoError(t, fx.session.Contract.Reload(ctx))
	snap = fx.snapshot()
	require.NotNil(t, snap.Contract.Schema)
	assert.True(t, snap.RequiresReimport)

	err = fx.session.Function.Select("transfer(address,uint256)")
	assert.ErrorIs(t, err, wizard.ErrReimportRequired)

	// A full definition lifts it.
	require.NoError(t, fx.session.Contract.Load(ctx, contract.LoadInput{DefinitionText: tokenABI}))
	snap = fx.snapshot()
	assert.False(t, snap.RequiresReimport)
	assert.Equal(t, "transfer(address,uint256)", snap.SelectedFunction, "the selection survives the reimport")

	require.NoError(t, fx.session.Function.Select("balanceOf(address)"))
	assert.Equal(t, "balanceOf(address)", fx.snapshot().SelectedFunction)
}

func TestStartNewResetsDraftAndFailureTracking(t *testing.T) {
	fx := newSessionFixture(t)
	fx.fetcher.err = errors.New("explorer down")
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))

	ctx := context.Background()
	in := contract.LoadInput{Address: checksummedAddr}
	for i := 0; i < 3; i++ {
		require.Error(t, fx.session.Contract.Load(ctx, in))
	}
	require.ErrorIs(t, fx.session.Contract.Load(ctx, in), contract.ErrTooManyAttempts)

	fx.session.StartNew()

	snap := fx.snapshot()
	assert.Equal(t, wizard.StepNetwork, snap.CurrentStep)
	assert.True(t, snap.IsInNewUIMode)
	assert.Empty(t, snap.SelectedNetworkID)

	fx.fetcher.err = nil
	require.NoError(t, fx.session.Network.Select("ethereum-mainnet"))
	require.NoError(t, fx.session.Contract.Load(ctx, in))
	assert.Equal(t, 4, fx.fetcher.calls, "abandoning the draft resets the breaker")
}
