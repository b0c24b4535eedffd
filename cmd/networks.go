package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	csync "github.com/Mohsinsiddi/w3forms/internal/sync"
	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Inspect and sync the network registry",
}

var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List selectable networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newChainRegistry()
		if err != nil {
			return err
		}

		nets := reg.List()
		fmt.Println(ui.NetworksTable(nets))
		fmt.Println(ui.Meta(fmt.Sprintf("%d networks total", len(nets))))

		if ss, err := cfg.LoadSync(); err == nil && ss.LastSynced != "" {
			fmt.Println(ui.Meta("Last catalog sync: " + ss.LastSynced))
		}
		return nil
	},
}

var networksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one network in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newChainRegistry()
		if err != nil {
			return err
		}
		net, err := reg.ByID(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.NetworkDetail(net))
		return nil
	},
}

var (
	syncWatch    bool
	syncInterval time.Duration
)

var networksSyncCmd = &cobra.Command{
	Use:   "sync [url]",
	Short: "Sync networks from a catalog manifest",
	Long: `Fetch a network-catalog manifest and merge its entries into the
local registry. Passing a URL also persists it as the catalog source for
later syncs. --watch keeps polling until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer := csync.New(cfg)
		if len(args) > 0 {
			if err := syncer.SetSource(args[0]); err != nil {
				return err
			}
			fmt.Println(ui.Success("Catalog source set to: " + args[0]))
		}
		if cfg.CatalogURL == "" {
			return fmt.Errorf("no catalog URL configured; pass one: w3forms networks sync <url>")
		}

		if syncWatch {
			fmt.Println(ui.Meta(fmt.Sprintf("Watching the catalog every %s. Press Ctrl+C to stop.", syncInterval)))
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return syncer.Watch(ctx, syncInterval)
		}

		spin := ui.NewSpinner("Syncing network catalog...")
		spin.Start()
		err := syncer.Run(cmd.Context())
		spin.Stop()
		if err != nil {
			return err
		}
		fmt.Println(ui.Success("Network catalog synced."))
		return nil
	},
}

func init() {
	networksSyncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep polling the catalog")
	networksSyncCmd.Flags().DurationVar(&syncInterval, "interval", 30*time.Second, "poll interval with --watch")
	networksCmd.AddCommand(networksListCmd, networksShowCmd, networksSyncCmd)
}
