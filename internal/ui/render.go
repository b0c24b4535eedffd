package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/w3forms/internal/chain"
	"github.com/Mohsinsiddi/w3forms/internal/store"
)

// RecordsTable renders saved form records for `w3forms list`. IDs are
// shortened for display; commands accept unique id prefixes.
func RecordsTable(records []*store.Record) string {
	tbl := NewTable([]Column{
		{Title: "ID", Width: 10},
		{Title: "TITLE", Width: 30},
		{Title: "NETWORK", Width: 18},
		{Title: "FUNCTION", Width: 22},
		{Title: "UPDATED", Width: 16},
	})
	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = "Untitled draft"
		}
		tbl.AddRow(Row{
			ShortID(rec.ID),
			title,
			rec.NetworkID,
			functionName(rec.FunctionID),
			rec.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return tbl.Render()
}

// RecordDetail renders one record for `w3forms show`.
func RecordDetail(rec *store.Record) string {
	source := rec.DefinitionSource
	if rec.DefinitionTrimmed {
		source += " (trimmed)"
	}

	pairs := [][2]string{
		{"ID", rec.ID},
		{"Network", rec.NetworkID},
		{"Ecosystem", rec.Ecosystem},
	}
	if rec.ContractAddress != "" {
		pairs = append(pairs, [2]string{"Address", rec.ContractAddress})
	}
	if rec.FunctionID != "" {
		pairs = append(pairs, [2]string{"Function", rec.FunctionID})
	}
	if source != "" {
		pairs = append(pairs, [2]string{"Definition", source})
	}
	if rec.FormConfig != nil {
		pairs = append(pairs,
			[2]string{"Fields", strconv.Itoa(len(rec.FormConfig.Fields))},
			[2]string{"Execution", executionSummary(rec)},
		)
		if rec.FormConfig.Description != "" {
			pairs = append(pairs, [2]string{"Description", rec.FormConfig.Description})
		}
	}
	pairs = append(pairs,
		[2]string{"Created", rec.CreatedAt.Format("2006-01-02 15:04:05")},
		[2]string{"Updated", rec.UpdatedAt.Format("2006-01-02 15:04:05")},
		[2]string{"Generation", strconv.FormatInt(rec.Generation, 10)},
	)

	title := rec.Title
	if title == "" {
		title = "Untitled draft"
	}
	return KeyValueBlock(title, pairs)
}

// NetworksTable renders the registry for `w3forms networks list`.
func NetworksTable(networks []chain.Network) string {
	tbl := NewTable([]Column{
		{Title: "ID", Width: 20},
		{Title: "NAME", Width: 20},
		{Title: "CHAIN ID", Width: 10},
		{Title: "TESTNET", Width: 8},
		{Title: "SYMBOL", Width: 8},
	})
	for _, n := range networks {
		chainID := ""
		if n.ChainID != 0 {
			chainID = strconv.FormatInt(n.ChainID, 10)
		}
		tbl.AddRow(Row{n.ID, n.Name, chainID, yesNo(n.Testnet), n.NativeSymbol})
	}
	return tbl.Render()
}

// NetworkDetail renders one network for `w3forms networks show`.
func NetworkDetail(n *chain.Network) string {
	pairs := [][2]string{
		{"ID", n.ID},
		{"Name", n.Name},
		{"Ecosystem", n.Ecosystem},
	}
	if n.ChainID != 0 {
		pairs = append(pairs, [2]string{"Chain ID", strconv.FormatInt(n.ChainID, 10)})
	}
	pairs = append(pairs, [2]string{"Testnet", yesNo(n.Testnet)})
	if n.ExplorerURL != "" {
		pairs = append(pairs, [2]string{"Explorer", n.ExplorerURL})
	}
	for i, api := range n.ExplorerAPIURLs {
		pairs = append(pairs, [2]string{fmt.Sprintf("API #%d", i+1), api})
	}
	if n.NativeSymbol != "" {
		pairs = append(pairs, [2]string{"Symbol", n.NativeSymbol})
	}
	return KeyValueBlock(n.Name, pairs)
}

// RecordPickerItems converts records into picker entries for commands that
// accept an interactive selection instead of an id argument.
func RecordPickerItems(records []*store.Record) []PickerItem {
	items := make([]PickerItem, 0, len(records))
	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = "Untitled draft"
		}
		sub := rec.NetworkID
		if fn := functionName(rec.FunctionID); fn != "" {
			sub += " · " + fn
		}
		meta := ShortID(rec.ID)
		if !rec.UpdatedAt.IsZero() {
			meta = relativeTime(rec.UpdatedAt) + " · " + meta
		}
		items = append(items, PickerItem{
			Label:    title,
			SubLabel: sub,
			Meta:     meta,
			Value:    rec.ID,
		})
	}
	return items
}

// relativeTime renders how long ago t was, for picker metadata.
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// ShortID shortens a record id for table display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func functionName(functionID string) string {
	if idx := strings.Index(functionID, "("); idx > 0 {
		return functionID[:idx]
	}
	return functionID
}

func executionSummary(rec *store.Record) string {
	exec := rec.FormConfig.Execution
	s := string(exec.Method)
	if n := len(exec.AllowedCallers); n > 0 {
		s += fmt.Sprintf(" (%d allowed callers)", n)
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
