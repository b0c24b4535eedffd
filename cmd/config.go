package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a setting",
	Long: `Update one setting and persist it.

Keys:
  default-ecosystem     ecosystem preselected for new forms
  autosave-debounce-ms  quiet period before an auto-save fires (500–1500)
  store-path            override for the records database file
  catalog-url           network catalog manifest URL`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case "default-ecosystem":
			cfg.DefaultEcosystem = value
		case "autosave-debounce-ms":
			ms, err := strconv.Atoi(value)
			if err != nil || ms <= 0 {
				return fmt.Errorf("autosave-debounce-ms must be a positive integer, got %q", value)
			}
			cfg.AutosaveDebounce = ms
		case "store-path":
			cfg.StorePath = value
		case "catalog-url":
			cfg.CatalogURL = value
		default:
			return fmt.Errorf("unknown setting %q; run `w3forms config set --help` for the list", key)
		}

		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %q", key, value)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
