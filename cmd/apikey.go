package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/secrets"
	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage explorer API keys",
	Long: `Store block-explorer API keys in the OS keychain.

Keys are looked up by provider name ("etherscan") when fetching contract
ABIs. Environment variables of the form W3FORMS_<PROVIDER>_API_KEY take
precedence over the keychain.`,
}

var apikeySetCmd = &cobra.Command{
	Use:   "set <provider> <key>",
	Short: "Store an API key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[0])
		if err := secrets.DefaultKeystore().Set(provider, args[1]); err != nil {
			return fmt.Errorf("storing key: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("API key for %q stored in the keychain", provider)))
		return nil
	},
}

var apikeyGetCmd = &cobra.Command{
	Use:   "get <provider>",
	Short: "Print a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.DefaultKeystore().Get(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var apikeyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[0])
		if err := secrets.DefaultKeystore().Delete(provider); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("API key for %q removed", provider)))
		return nil
	},
}

var apikeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers with stored keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		providers, err := secrets.DefaultKeystore().List()
		if err != nil {
			return err
		}
		if len(providers) == 0 {
			fmt.Println(ui.Meta("No API keys stored."))
			fmt.Println(ui.Hint("Add one with: w3forms apikey set etherscan <key>"))
			return nil
		}
		for _, p := range providers {
			fmt.Println("  " + ui.Val(p))
		}
		return nil
	},
}

func init() {
	apikeyCmd.AddCommand(apikeySetCmd, apikeyGetCmd, apikeyDeleteCmd, apikeyListCmd)
}
