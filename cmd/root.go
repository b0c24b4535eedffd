package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/config"
	"github.com/Mohsinsiddi/w3forms/internal/logging"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3forms/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3forms",
	Short: "No-code forms for smart contract calls",
	Long: `w3forms builds shareable call forms for smart contracts, no frontend code.

  Pick a network, point at a contract, choose a function, and shape the
  form: labels, required flags, hidden fields, execution method. Every
  change auto-saves as a draft you can resume, rename, duplicate, and
  export.

The config directory defaults to ~/.w3forms. Override it with --config-dir
or the W3FORMS_CONFIG_DIR environment variable.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		// Initialize("") defers to W3FORMS_LOG_LEVEL; --verbose overrides.
		level := ""
		if verbose {
			level = "debug"
		}
		if err := logging.Initialize(level); err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// W3FORMS_CONFIG_DIR env var seeds the flag default; the flag wins.
	if envDir := os.Getenv(config.EnvConfigDir); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", cfgDir, "config directory (default: ~/.w3forms)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	// Register all sub-commands.
	rootCmd.AddCommand(
		buildCmd,
		openCmd,
		listCmd,
		showCmd,
		renameCmd,
		duplicateCmd,
		deleteCmd,
		exportCmd,
		importCmd,
		definitionsCmd,
		networksCmd,
		apikeyCmd,
		configCmd,
	)
}
