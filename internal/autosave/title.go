package autosave

import (
	"strings"

	"github.com/Mohsinsiddi/w3forms/internal/store"
	"github.com/Mohsinsiddi/w3forms/internal/wizard"
)

// DeriveTitle builds a display title from whatever the draft has so far:
// function and address when both exist, then address, then network. Only
// used while the user has not set a title of their own.
func DeriveTitle(s wizard.State) string {
	name := s.SelectedFunction
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	addr := shortAddress(s.Contract.Address)

	switch {
	case name != "" && addr != "":
		return name + " · " + addr
	case name != "":
		return name
	case addr != "":
		return "Contract " + addr
	case s.SelectedNetworkID != "":
		return "Draft on " + s.SelectedNetworkID
	default:
		return "Untitled draft"
	}
}

// shortAddress shortens "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" to
// "0x5aAe…eAed". Returns the input unchanged when it is too short to trim.
func shortAddress(addr string) string {
	if len(addr) < 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// RecordFromState assembles the persistable record for a state snapshot.
// ID, timestamps and generation are left for the store to manage, which
// keeps the encoding comparable across saves of the same content.
func RecordFromState(s wizard.State) *store.Record {
	rec := &store.Record{
		ID:                 s.LoadedConfigurationID,
		TitleIsCustom:      s.TitleIsCustom,
		Ecosystem:          s.SelectedEcosystem,
		NetworkID:          s.SelectedNetworkID,
		ContractAddress:    s.Contract.Address,
		FunctionID:         s.SelectedFunction,
		DefinitionJSON:     s.Contract.DefinitionJSON,
		DefinitionOriginal: s.Contract.DefinitionOriginal,
		DefinitionSource:   string(s.Contract.Source),
		DefinitionTrimmed:  s.RequiresReimport,
		Metadata:           s.Contract.Metadata,
	}
	if s.FormConfig != nil {
		rec.FormConfig = s.FormConfig.Clone()
	}

	switch {
	case s.TitleIsCustom && s.FormConfig != nil:
		rec.Title = s.FormConfig.Title
	case s.TitleIsCustom:
		// The custom title lives only on the stored record; the update path
		// carries it over.
	default:
		rec.Title = DeriveTitle(s)
	}
	return rec
}
