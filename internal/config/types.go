package config

import "github.com/Mohsinsiddi/w3forms/internal/chain"

// Config holds all w3forms configuration.
type Config struct {
	DefaultEcosystem string `json:"default_ecosystem"`     // ecosystem preselected for new forms
	AutosaveDebounce int    `json:"autosave_debounce_ms"`  // milliseconds
	StorePath        string `json:"store_path,omitempty"`  // override for the records database
	CatalogURL       string `json:"catalog_url,omitempty"` // network catalog manifest URL

	// internal: config dir path used for Save()
	configDir string
}

// NetworksFile is the structure of networks.json. Entries are merged into
// the built-in registry on startup; an entry whose id matches a built-in
// replaces it.
type NetworksFile struct {
	Networks []chain.Network `json:"networks"`
}

// SyncState is the structure of sync.json. Sync bookkeeping is kept apart
// from config.json so catalog syncs never rewrite user settings.
type SyncState struct {
	LastSynced string `json:"last_synced,omitempty"` // RFC3339
}

// SessionState is the structure of session.json.
type SessionState struct {
	LastRecordID string `json:"last_record_id,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"` // RFC3339
}
