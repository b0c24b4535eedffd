package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/autosave"
	"github.com/Mohsinsiddi/w3forms/internal/ui"
	"github.com/Mohsinsiddi/w3forms/internal/wizard"
)

var buildCmd = &cobra.Command{
	Use:   "build [id]",
	Short: "Start the form builder",
	Long: `Launch the interactive form builder.

With no argument a fresh draft begins; pass a record id to resume an
existing form. Drafts auto-save as soon as they have content, so quitting
mid-way never loses work.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return runBuilderSession(cmd.Context(), id)
	},
}

var openCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Resume a saved form",
	Long: `Reopen a saved form in the builder.

With no argument the last form opened in this config directory is resumed;
if there is none, a picker lists the stored forms.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		} else if sess, err := cfg.LoadSession(); err == nil {
			id = sess.LastRecordID
		}

		if id == "" {
			records, err := openRecords()
			if err != nil {
				return err
			}
			id, err = resolveRecordID(cmd.Context(), records, nil)
			records.Close()
			if err != nil {
				return err
			}
			if id == "" {
				return nil // picker cancelled
			}
		}
		return runBuilderSession(cmd.Context(), id)
	},
}

// runBuilderSession wires a full builder session (registries, loader,
// store, container, coordinator), runs the TUI and flushes the last edits
// on the way out.
func runBuilderSession(ctx context.Context, recordID string) error {
	networks, err := newChainRegistry()
	if err != nil {
		return err
	}
	records, err := openRecords()
	if err != nil {
		return err
	}
	defer records.Close()

	if recordID != "" {
		recordID, err = resolveRecordID(ctx, records, []string{recordID})
		if err != nil {
			return err
		}
	}

	session := wizard.NewSession(networks, newAdapterRegistry(), newLoader(networks), records)

	saveErrs := make(chan error, 8)
	coord := autosave.NewCoordinator(session.Container, records, autosave.Options{
		Debounce: cfg.DebounceDuration(),
		Notify: func(err error) {
			select {
			case saveErrs <- err:
			default:
			}
		},
	})
	session.AttachSaver(coord)
	coord.Start()
	defer coord.Close()

	if recordID != "" {
		if err := session.LoadConfiguration(ctx, recordID); err != nil {
			return err
		}
		// Records that store definition text but no parsed schema resolve
		// it now, before the TUI needs the function list.
		if snap := session.Container.Snapshot(); snap.NeedsDefinitionLoad {
			spin := ui.NewSpinner("Resolving contract definition...")
			spin.Start()
			err := session.Contract.Reload(ctx)
			spin.Stop()
			if err != nil {
				fmt.Println(ui.Warn("could not resolve the stored definition: " + err.Error()))
			}
		}
	}

	fmt.Println(ui.Banner(Version))
	if err := ui.RunBuilder(session, saveErrs); err != nil {
		return err
	}

	// The debounce window may still hold the last edits.
	coord.Flush()

	snap := session.Container.Snapshot()
	if snap.LoadedConfigurationID != "" {
		if err := cfg.RememberRecord(snap.LoadedConfigurationID); err != nil {
			fmt.Println(ui.Warn("could not remember session: " + err.Error()))
		}
		fmt.Println(ui.Success(fmt.Sprintf("Saved as %s", ui.ShortID(snap.LoadedConfigurationID))))
	}
	return nil
}
