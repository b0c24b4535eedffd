package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/form"
	"github.com/Mohsinsiddi/w3forms/internal/wizard"
)

func populatedState() wizard.State {
	s := wizard.NewState()
	s.SelectedNetworkID = "ethereum-mainnet"
	s.SelectedEcosystem = "evm"
	s.CurrentStep = wizard.StepForm
	s.Contract = wizard.ContractState{
		Schema:         &contract.Schema{Functions: []contract.Function{{ID: "transfer(address,uint256)", Name: "transfer"}}},
		Address:        "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		FormValues:     map[string]string{"mode": "paste"},
		DefinitionJSON: `[]`,
		Source:         contract.SourceManual,
		Metadata:       map[string]string{"format": "abi"},
	}
	s.SelectedFunction = "transfer(address,uint256)"
	s.FormConfig = &form.Config{
		FunctionID: "transfer(address,uint256)",
		Title:      "Transfer",
		Fields:     []form.Field{{ID: "to", Name: "to", Label: "To"}},
	}
	s.TitleIsCustom = true
	return s
}

func TestNewStateDefaults(t *testing.T) {
	s := wizard.NewState()

	assert.Equal(t, wizard.StepNetwork, s.CurrentStep)
	assert.True(t, s.IsInNewUIMode)
	assert.Empty(t, s.LoadedConfigurationID)
	assert.Nil(t, s.FormConfig)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "network", wizard.StepNetwork.String())
	assert.Equal(t, "contract", wizard.StepContract.String())
	assert.Equal(t, "function", wizard.StepFunction.String())
	assert.Equal(t, "form", wizard.StepForm.String())
	assert.Equal(t, "complete", wizard.StepComplete.String())
}

func TestCloneIsolation(t *testing.T) {
	s := populatedState()
	s.UIState = map[string]string{"network.filter": "main"}

	c := s.Clone()
	c.Contract.FormValues["mode"] = "fetch"
	c.Contract.Metadata["format"] = "hardhat"
	c.UIState["network.filter"] = "test"
	c.FormConfig.Title = "Changed"
	c.FormConfig.Fields[0].Label = "Recipient"

	assert.Equal(t, "paste", s.Contract.FormValues["mode"])
	assert.Equal(t, "abi", s.Contract.Metadata["format"])
	assert.Equal(t, "main", s.UIState["network.filter"])
	assert.Equal(t, "Transfer", s.FormConfig.Title)
	assert.Equal(t, "To", s.FormConfig.Fields[0].Label)
}

func TestCloneSharesSchema(t *testing.T) {
	s := populatedState()
	c := s.Clone()

	// The parsed schema is immutable, so clones share the pointer.
	assert.Same(t, s.Contract.Schema, c.Contract.Schema)
}

func TestHasMeaningfulContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*wizard.State)
		want   bool
	}{
		{"fresh draft", func(s *wizard.State) {}, false},
		{"ui state only", func(s *wizard.State) {
			s.UIState = map[string]string{"network.cursor": "3"}
		}, false},
		{"raw form values only", func(s *wizard.State) {
			s.Contract.FormValues = map[string]string{"paste": "[..."}
		}, false},
		{"network chosen", func(s *wizard.State) {
			s.SelectedNetworkID = "ethereum-mainnet"
		}, true},
		{"function chosen", func(s *wizard.State) {
			s.SelectedFunction = "transfer(address,uint256)"
		}, true},
		{"form customized", func(s *wizard.State) {
			s.FormConfig = &form.Config{Title: "Transfer"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := wizard.NewState()
			tt.mutate(&s)
			assert.Equal(t, tt.want, s.HasMeaningfulContent())
		})
	}
}

func TestResetDownstreamFromNetwork(t *testing.T) {
	s := populatedState()
	s.RequiresReimport = true
	s.NeedsDefinitionLoad = true

	s.ResetDownstream(wizard.StepNetwork, false)

	assert.Equal(t, "ethereum-mainnet", s.SelectedNetworkID, "the step's own value stays")
	assert.Equal(t, wizard.ContractState{}, s.Contract)
	assert.Empty(t, s.SelectedFunction)
	assert.Nil(t, s.FormConfig)
	assert.False(t, s.TitleIsCustom)
	assert.False(t, s.RequiresReimport)
	assert.False(t, s.NeedsDefinitionLoad)
}

func TestResetDownstreamFromContract(t *testing.T) {
	s := populatedState()

	s.ResetDownstream(wizard.StepContract, false)

	require.NotNil(t, s.Contract.Schema, "contract state survives a contract-level reset")
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", s.Contract.Address)
	assert.Empty(t, s.SelectedFunction)
	assert.Nil(t, s.FormConfig)
	assert.False(t, s.TitleIsCustom)
}

func TestResetDownstreamFromFunction(t *testing.T) {
	t.Run("clears form config", func(t *testing.T) {
		s := populatedState()
		s.ResetDownstream(wizard.StepFunction, false)

		assert.Equal(t, "transfer(address,uint256)", s.SelectedFunction)
		assert.Nil(t, s.FormConfig)
		assert.False(t, s.TitleIsCustom)
	})

	t.Run("preserves form config on reselect", func(t *testing.T) {
		s := populatedState()
		s.ResetDownstream(wizard.StepFunction, true)

		require.NotNil(t, s.FormConfig)
		assert.Equal(t, "Transfer", s.FormConfig.Title)
		assert.True(t, s.TitleIsCustom)
	})
}
