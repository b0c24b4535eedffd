// Package form models the customized presentation and execution settings of
// one generated contract-call form.
package form

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
)

// FieldType tags the widget that renders a parameter. Consumers switch
// exhaustively on it.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldAddress  FieldType = "address"
	FieldNumber   FieldType = "number"
	FieldCheckbox FieldType = "checkbox"
	FieldBytes    FieldType = "bytes"
	FieldArray    FieldType = "array"
	FieldTuple    FieldType = "tuple"
)

// FieldTypeFor maps a normalized parameter to its widget.
func FieldTypeFor(p contract.Param) FieldType {
	switch p.Kind {
	case contract.KindArray:
		return FieldArray
	case contract.KindTuple:
		return FieldTuple
	default:
		return simpleFieldType(p.BaseType)
	}
}

func simpleFieldType(baseType string) FieldType {
	switch {
	case baseType == "address":
		return FieldAddress
	case baseType == "bool":
		return FieldCheckbox
	case baseType == "string":
		return FieldText
	case strings.HasPrefix(baseType, "uint"), strings.HasPrefix(baseType, "int"):
		return FieldNumber
	case strings.HasPrefix(baseType, "bytes"):
		return FieldBytes
	default:
		return FieldText
	}
}

// Field is one input of the form.
type Field struct {
	ID             string    `json:"id"`   // parameter path, e.g. "to" or "order.amount"
	Name           string    `json:"name"` // parameter name from the definition
	Label          string    `json:"label"`
	Type           FieldType `json:"type"`
	BaseType       string    `json:"base_type"`
	Placeholder    string    `json:"placeholder,omitempty"`
	HelpText       string    `json:"help_text,omitempty"`
	Required       bool      `json:"required"`
	Hidden         bool      `json:"hidden,omitempty"`
	Hardcoded      bool      `json:"hardcoded,omitempty"`
	HardcodedValue string    `json:"hardcoded_value,omitempty"`
	Components     []Field   `json:"components,omitempty"` // tuple members, array element prototype
}

// ExecutionMethod selects how a submitted form call would be executed.
type ExecutionMethod string

const (
	ExecutionEOA      ExecutionMethod = "eoa"      // the end user's own account
	ExecutionRelayer  ExecutionMethod = "relayer"  // a sponsored relayer
	ExecutionMultisig ExecutionMethod = "multisig" // proposal to a multisig
)

// ExecutionConfig is stored configuration only; nothing in this repo executes
// calls.
type ExecutionConfig struct {
	Method ExecutionMethod `json:"method"`
	// AllowedCallers restricts submission to these addresses. Empty = anyone.
	AllowedCallers []string `json:"allowed_callers,omitempty"`
}

// Config holds the user-customized form for one selected function.
type Config struct {
	FunctionID  string          `json:"function_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Fields      []Field         `json:"fields"`
	Execution   ExecutionConfig `json:"execution"`
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Fields = cloneFields(c.Fields)
	if c.Execution.AllowedCallers != nil {
		out.Execution.AllowedCallers = append([]string(nil), c.Execution.AllowedCallers...)
	}
	return &out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		out[i].Components = cloneFields(f.Components)
	}
	return out
}

// Field returns the field with the given id.
func (c *Config) Field(id string) (*Field, bool) {
	for i := range c.Fields {
		if c.Fields[i].ID == id {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// DefaultConfig generates the initial form for a function: one field per
// input with a humanized label and a type-appropriate placeholder.
func DefaultConfig(fn *contract.Function) *Config {
	cfg := &Config{
		FunctionID: fn.ID,
		Title:      Humanize(fn.Name),
		Fields:     make([]Field, 0, len(fn.Inputs)),
		Execution:  ExecutionConfig{Method: ExecutionEOA},
	}
	for i, p := range fn.Inputs {
		cfg.Fields = append(cfg.Fields, fieldFromParam(p, i, ""))
	}
	return cfg
}

func fieldFromParam(p contract.Param, index int, prefix string) Field {
	name := p.Name
	if name == "" {
		name = "arg" + strconv.Itoa(index)
	}
	id := name
	if prefix != "" {
		id = prefix + "." + name
	}

	f := Field{
		ID:          id,
		Name:        name,
		Label:       Humanize(name),
		Type:        FieldTypeFor(p),
		BaseType:    p.BaseType,
		Placeholder: placeholderFor(p),
		Required:    true,
	}
	for i, comp := range p.Components {
		f.Components = append(f.Components, fieldFromParam(comp, i, id))
	}
	return f
}

func placeholderFor(p contract.Param) string {
	switch FieldTypeFor(p) {
	case FieldAddress:
		return "0x..."
	case FieldNumber:
		return "0"
	case FieldBytes:
		return "0x"
	case FieldArray:
		return "comma-separated values"
	default:
		return ""
	}
}

// Humanize turns a parameter or function name into a label:
// "ownerAddress" -> "Owner Address", "token_id" -> "Token Id".
func Humanize(name string) string {
	if name == "" {
		return ""
	}

	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			// Break on lower->Upper transitions, keep acronym runs together.
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				flush()
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
