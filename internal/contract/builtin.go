package contract

import "sort"

// Builtin is a contract definition embedded in the binary. New built-ins
// register themselves via init() from their own file, so adding one means
// creating internal/contract/<name>_builtin.go and calling RegisterBuiltin.
type Builtin struct {
	ID          string // machine key, e.g. "erc20"
	Name        string // human label
	Description string // one-line summary shown in `w3forms definitions`
	ABIJSON     string // raw ABI array, loaded through the manual path
}

var builtinRegistry = map[string]Builtin{}

// RegisterBuiltin adds a built-in definition to the global registry.
// Call this from init() in the file that defines the ABI.
func RegisterBuiltin(b Builtin) {
	builtinRegistry[b.ID] = b
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (Builtin, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []Builtin {
	out := make([]Builtin, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
