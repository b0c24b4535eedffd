package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

var definitionsCmd = &cobra.Command{
	Use:   "definitions",
	Short: "List bundled contract definitions",
	Long: `List the contract definitions bundled with w3forms. In the builder's
contract step these load without an explorer lookup, useful for standard
interfaces like ERC-20 where only the address differs per deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 12},
			{Title: "NAME", Width: 20},
			{Title: "DESCRIPTION", Width: 48},
		})
		for _, b := range contract.AllBuiltins() {
			tbl.AddRow(ui.Row{b.ID, b.Name, b.Description})
		}
		fmt.Println(tbl.Render())
		return nil
	},
}
