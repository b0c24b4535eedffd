package evm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3forms/internal/adapter/evm"
	"github.com/Mohsinsiddi/w3forms/internal/contract"
)

const erc20ABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}],"anonymous":false}
]`

func TestValidateAddress(t *testing.T) {
	a := evm.New()

	assert.NoError(t, a.ValidateAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.NoError(t, a.ValidateAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))

	for _, bad := range []string{"", "0x123", "not-an-address", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaeZ"} {
		err := a.ValidateAddress(bad)
		require.Error(t, err, "address %q", bad)
		assert.True(t, contract.IsValidation(err))
	}
}

func TestChecksumAddress(t *testing.T) {
	a := evm.New()

	got, err := a.ChecksumAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got)

	_, err = a.ChecksumAddress("nope")
	assert.Error(t, err)
}

func TestParseDefinitionERC20(t *testing.T) {
	a := evm.New()

	schema, meta, err := a.ParseDefinition(erc20ABI)
	require.NoError(t, err)
	require.NotNil(t, schema)

	assert.Equal(t, "evm", schema.Ecosystem)
	require.Len(t, schema.Functions, 2)

	balanceOf, ok := schema.Function("balanceOf(address)")
	require.True(t, ok)
	assert.Equal(t, "balanceOf", balanceOf.Name)
	assert.Equal(t, "0x70a08231", balanceOf.Selector)
	assert.True(t, balanceOf.IsReadOnly())

	transfer, ok := schema.Function("transfer(address,uint256)")
	require.True(t, ok)
	assert.Equal(t, "0xa9059cbb", transfer.Selector)
	assert.False(t, transfer.IsReadOnly())
	require.Len(t, transfer.Inputs, 2)
	assert.Equal(t, contract.KindSimple, transfer.Inputs[0].Kind)
	assert.Equal(t, "address", transfer.Inputs[0].BaseType)

	assert.Equal(t, "1", meta["events"])
}

func TestParseDefinitionTuple(t *testing.T) {
	a := evm.New()

	abiJSON := `[{"type":"function","name":"fillOrder","stateMutability":"nonpayable","inputs":[
		{"name":"order","type":"tuple","components":[
			{"name":"maker","type":"address"},
			{"name":"amount","type":"uint256"}
		]}],"outputs":[]}]`

	schema, _, err := a.ParseDefinition(abiJSON)
	require.NoError(t, err)

	fn, ok := schema.Function("fillOrder((address,uint256))")
	require.True(t, ok)
	require.Len(t, fn.Inputs, 1)

	order := fn.Inputs[0]
	assert.Equal(t, contract.KindTuple, order.Kind)
	require.Len(t, order.Components, 2)
	assert.Equal(t, "maker", order.Components[0].Name)
	assert.Equal(t, "address", order.Components[0].BaseType)
	assert.Equal(t, "amount", order.Components[1].Name)
}

func TestParseDefinitionArrays(t *testing.T) {
	a := evm.New()

	abiJSON := `[{"type":"function","name":"airdrop","stateMutability":"nonpayable","inputs":[
		{"name":"recipients","type":"address[]"},
		{"name":"amounts","type":"uint256[]"}],"outputs":[]}]`

	schema, _, err := a.ParseDefinition(abiJSON)
	require.NoError(t, err)

	fn, ok := schema.Function("airdrop(address[],uint256[])")
	require.True(t, ok)
	assert.Equal(t, contract.KindArray, fn.Inputs[0].Kind)
	assert.Equal(t, "address", fn.Inputs[0].BaseType)
	assert.Equal(t, "address[]", fn.Inputs[0].Type)
}

func TestParseDefinitionTupleArray(t *testing.T) {
	a := evm.New()

	abiJSON := `[{"type":"function","name":"fillOrders","stateMutability":"nonpayable","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"maker","type":"address"},
			{"name":"amount","type":"uint256"}
		]}],"outputs":[]}]`

	schema, _, err := a.ParseDefinition(abiJSON)
	require.NoError(t, err)
	require.Len(t, schema.Functions, 1)

	orders := schema.Functions[0].Inputs[0]
	assert.Equal(t, contract.KindArray, orders.Kind)
	require.Len(t, orders.Components, 2, "array of tuples keeps the element's members")
	assert.Equal(t, "maker", orders.Components[0].Name)
}

func TestParseDefinitionOverloads(t *testing.T) {
	a := evm.New()

	abiJSON := `[
		{"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
		{"type":"function","name":"deposit","stateMutability":"payable","inputs":[{"name":"beneficiary","type":"address"}],"outputs":[]}
	]`

	schema, _, err := a.ParseDefinition(abiJSON)
	require.NoError(t, err)
	require.Len(t, schema.Functions, 2)

	ids := []string{schema.Functions[0].ID, schema.Functions[1].ID}
	assert.Contains(t, ids, "deposit()")
	assert.Contains(t, ids, "deposit(address)")
	assert.Equal(t, "deposit", schema.Functions[0].Name)
	assert.Equal(t, "deposit", schema.Functions[1].Name)
}

func TestParseDefinitionRejectsGarbage(t *testing.T) {
	a := evm.New()

	_, _, err := a.ParseDefinition("not json")
	assert.Error(t, err)

	_, _, err = a.ParseDefinition("[]")
	assert.Error(t, err, "empty ABI has nothing to call")

	_, _, err = a.ParseDefinition(`[{"type":"event","name":"Ping","inputs":[],"anonymous":false}]`)
	assert.Error(t, err, "events-only ABI has nothing to call")
}

func TestParseDefinitionConstructorMetadata(t *testing.T) {
	a := evm.New()

	abiJSON := `[
		{"type":"constructor","stateMutability":"payable","inputs":[{"name":"owner","type":"address"}]},
		{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
	]`

	_, meta, err := a.ParseDefinition(abiJSON)
	require.NoError(t, err)
	assert.Equal(t, "payable", meta["constructor"])
}
