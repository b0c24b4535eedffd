package store

import (
	"time"

	"github.com/Mohsinsiddi/w3forms/internal/form"
)

// Record is one persisted form configuration. The auto-save coordinator
// creates and updates records; the CLI lists, renames, duplicates, exports
// and deletes them.
type Record struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TitleIsCustom bool   `json:"title_is_custom"`

	Ecosystem       string `json:"ecosystem"`
	NetworkID       string `json:"network_id"`
	ContractAddress string `json:"contract_address,omitempty"`

	FunctionID string       `json:"function_id,omitempty"`
	FormConfig *form.Config `json:"form_config,omitempty"`

	// DefinitionJSON is the raw definition text the schema was resolved
	// from; DefinitionOriginal keeps the user's untouched paste when the
	// two differ (artifact input, trimming).
	DefinitionJSON     string `json:"definition_json,omitempty"`
	DefinitionOriginal string `json:"definition_original,omitempty"`
	DefinitionSource   string `json:"definition_source,omitempty"`
	// DefinitionTrimmed marks records exported with a single-function
	// definition fragment. Function re-selection requires a full reimport.
	DefinitionTrimmed bool `json:"definition_trimmed,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Generation increments on every successful update. Updates carrying a
	// stale generation fail with a ConflictError.
	Generation int64 `json:"generation"`
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.FormConfig = r.FormConfig.Clone()
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
