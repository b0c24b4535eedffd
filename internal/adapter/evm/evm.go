// Package evm implements the adapter for EVM ecosystems on top of
// go-ethereum's ABI machinery.
package evm

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
)

const ecosystemID = "evm"

// Adapter validates EVM addresses and normalizes ABI JSON into schemas.
type Adapter struct{}

// New returns the EVM adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Ecosystem() string { return ecosystemID }

// ValidateAddress checks the 0x-prefixed 20-byte hex form.
func (a *Adapter) ValidateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return &contract.ValidationError{
			Reason: fmt.Sprintf("%q is not a valid EVM address", address),
		}
	}
	return nil
}

// ChecksumAddress returns the EIP-55 checksummed form.
func (a *Adapter) ChecksumAddress(address string) (string, error) {
	if err := a.ValidateAddress(address); err != nil {
		return "", err
	}
	return common.HexToAddress(address).Hex(), nil
}

// ParseDefinition parses ABI JSON into a normalized schema. Functions are
// keyed by canonical signature, so overloads stay distinct.
func (a *Adapter) ParseDefinition(abiJSON string) (*contract.Schema, map[string]string, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ABI: %w", err)
	}

	functions := make([]contract.Function, 0, len(parsed.Methods))
	for _, method := range parsed.Methods {
		functions = append(functions, functionFromMethod(method))
	}
	if len(functions) == 0 {
		return nil, nil, fmt.Errorf("definition contains no callable functions")
	}
	sort.Slice(functions, func(i, j int) bool { return functions[i].ID < functions[j].ID })

	meta := map[string]string{
		"events": strconv.Itoa(len(parsed.Events)),
	}
	if parsed.Constructor.StateMutability != "" {
		meta["constructor"] = parsed.Constructor.StateMutability
	}

	return &contract.Schema{
		Ecosystem: ecosystemID,
		Functions: functions,
	}, meta, nil
}

func functionFromMethod(method abi.Method) contract.Function {
	fn := contract.Function{
		ID:              method.Sig,
		Name:            method.RawName,
		Selector:        selector(method.Sig),
		StateMutability: method.StateMutability,
		Inputs:          make([]contract.Param, 0, len(method.Inputs)),
		Outputs:         make([]contract.Param, 0, len(method.Outputs)),
	}
	for _, arg := range method.Inputs {
		fn.Inputs = append(fn.Inputs, paramFromType(arg.Name, arg.Type))
	}
	for _, arg := range method.Outputs {
		fn.Outputs = append(fn.Outputs, paramFromType(arg.Name, arg.Type))
	}
	return fn
}

// paramFromType normalizes one ABI type into a tagged param. Arrays keep
// their element type in BaseType; tuples carry their members in Components.
func paramFromType(name string, t abi.Type) contract.Param {
	switch t.T {
	case abi.SliceTy, abi.ArrayTy:
		elem := paramFromType("", *t.Elem)
		return contract.Param{
			Name:       name,
			Type:       t.String(),
			BaseType:   t.Elem.String(),
			Kind:       contract.KindArray,
			Components: elem.Components,
		}
	case abi.TupleTy:
		components := make([]contract.Param, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			components[i] = paramFromType(t.TupleRawNames[i], *elem)
		}
		return contract.Param{
			Name:       name,
			Type:       t.String(),
			Kind:       contract.KindTuple,
			Components: components,
		}
	default:
		return contract.Param{
			Name:     name,
			Type:     t.String(),
			BaseType: t.String(),
			Kind:     contract.KindSimple,
		}
	}
}

// selector computes the 4-byte function selector from the canonical
// signature.
func selector(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}
