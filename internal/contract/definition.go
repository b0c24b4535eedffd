package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Source records how a definition entered the system.
type Source string

const (
	// SourceFetched definitions came from a block-explorer lookup.
	SourceFetched Source = "fetched"
	// SourceManual definitions were pasted or loaded from a file.
	SourceManual Source = "manual"
	// SourceHybrid definitions were supplied manually for an address whose
	// fetch failed or was overridden.
	SourceHybrid Source = "hybrid"
)

// ParamKind tags the concrete shape of a parameter. Every consumer switches
// exhaustively on it instead of probing the type string.
type ParamKind string

const (
	KindSimple ParamKind = "simple"
	KindArray  ParamKind = "array"
	KindTuple  ParamKind = "tuple"
)

// Param is one input or output of a callable function.
type Param struct {
	Name string `json:"name"`
	// Type is the canonical type string, e.g. "uint256", "address[]", "tuple".
	Type string `json:"type"`
	// BaseType is the element type for arrays and the type itself otherwise.
	BaseType   string    `json:"base_type"`
	Kind       ParamKind `json:"kind"`
	Components []Param   `json:"components,omitempty"` // tuple members
}

// Function is one callable entry of a schema.
type Function struct {
	// ID is the canonical signature, e.g. "transfer(address,uint256)".
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Selector        string  `json:"selector"` // 0x-prefixed 4-byte selector
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"state_mutability"`
}

// IsReadOnly reports whether calling the function cannot change state.
func (f *Function) IsReadOnly() bool {
	return f.StateMutability == "view" || f.StateMutability == "pure"
}

// Schema is the normalized callable interface of a contract.
type Schema struct {
	Ecosystem string     `json:"ecosystem"`
	Functions []Function `json:"functions"`
}

// Function returns the entry with the given canonical id.
func (s *Schema) Function(id string) (*Function, bool) {
	for i := range s.Functions {
		if s.Functions[i].ID == id {
			return &s.Functions[i], true
		}
	}
	return nil, false
}

// WritableFunctions returns the state-changing subset in declaration order.
func (s *Schema) WritableFunctions() []Function {
	var out []Function
	for _, f := range s.Functions {
		if !f.IsReadOnly() {
			out = append(out, f)
		}
	}
	return out
}

// Definition is the result of a successful load.
type Definition struct {
	Schema       *Schema
	Source       Source
	Metadata     map[string]string
	OriginalText string // raw definition text as supplied or fetched
}

// ValidationError marks a malformed manual definition or input. It is
// surfaced at the form field and never stored on contract state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid contract definition: " + e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ExtractABI returns the raw ABI JSON contained in text, which may be:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat artifact: {"abi":[...],"bytecode":"0x...",...}
//   - a Foundry artifact: {"abi":[...],"bytecode":{"object":"0x..."},...}
//
// The returned metadata records the detected format and, when present, the
// artifact's contract name.
func ExtractABI(text string) (string, map[string]string, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 {
		return "", nil, &ValidationError{Reason: "definition text is empty"}
	}

	meta := map[string]string{}

	if data[0] == '[' {
		meta["format"] = "abi"
		return string(data), meta, nil
	}

	if data[0] != '{' {
		return "", nil, &ValidationError{Reason: "expected an ABI array or a build artifact object"}
	}

	// Object input: probe for an artifact with an "abi" key.
	var artifact struct {
		ABI          json.RawMessage `json:"abi"`
		Bytecode     json.RawMessage `json:"bytecode"`
		ContractName string          `json:"contractName"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return "", nil, &ValidationError{Reason: fmt.Sprintf("definition is not valid JSON: %v", err)}
	}
	if len(artifact.ABI) < 2 || artifact.ABI[0] != '[' {
		return "", nil, &ValidationError{Reason: `object has no "abi" array; raw ABIs must be a JSON array`}
	}

	meta["format"] = detectArtifactFormat(artifact.Bytecode)
	if artifact.ContractName != "" {
		meta["contract_name"] = artifact.ContractName
	}
	return string(artifact.ABI), meta, nil
}

// detectArtifactFormat distinguishes the two common artifact layouts:
// Hardhat stores bytecode as a hex string, Foundry as {"object":"0x..."}.
func detectArtifactFormat(bytecode json.RawMessage) string {
	if len(bytecode) == 0 {
		return "artifact"
	}
	var str string
	if json.Unmarshal(bytecode, &str) == nil {
		return "hardhat"
	}
	var obj struct {
		Object string `json:"object"`
	}
	if json.Unmarshal(bytecode, &obj) == nil && obj.Object != "" {
		return "foundry"
	}
	return "artifact"
}

// TrimToFunction reduces a definition's raw ABI JSON to the entries needed to
// render the given function: the matching function fragment only. Used by
// export --trim; a record holding a trimmed definition cannot re-derive the
// contract's other functions.
func TrimToFunction(abiJSON, functionName string) (string, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(abiJSON), &entries); err != nil {
		return "", &ValidationError{Reason: fmt.Sprintf("definition is not an ABI array: %v", err)}
	}

	var kept []map[string]json.RawMessage
	for _, e := range entries {
		var typ, name string
		if raw, ok := e["type"]; ok {
			_ = json.Unmarshal(raw, &typ)
		}
		if raw, ok := e["name"]; ok {
			_ = json.Unmarshal(raw, &name)
		}
		if typ == "function" && name == functionName {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("function %q not found in definition", functionName)
	}

	out, err := json.Marshal(kept)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FunctionNameFromID extracts the bare name from a canonical signature id.
func FunctionNameFromID(id string) string {
	if i := strings.IndexByte(id, '('); i > 0 {
		return id[:i]
	}
	return id
}
