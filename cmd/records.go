package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved forms",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := openRecords()
		if err != nil {
			return err
		}
		defer records.Close()

		all, err := records.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println(ui.Meta("No saved forms yet."))
			fmt.Println(ui.Hint("Run `w3forms build` to create one."))
			return nil
		}

		fmt.Println(ui.RecordsTable(all))
		fmt.Println(ui.Meta(fmt.Sprintf("%d forms total", len(all))))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one form in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := openRecords()
		if err != nil {
			return err
		}
		defer records.Close()

		id, err := resolveRecordID(cmd.Context(), records, args)
		if err != nil || id == "" {
			return err
		}

		rec, err := records.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(ui.RecordDetail(rec))
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a form",
	Long: `Set a form's title. Titles set this way stick: auto-save stops
deriving one from the contract address and function.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := openRecords()
		if err != nil {
			return err
		}
		defer records.Close()

		id, err := resolveRecordID(cmd.Context(), records, args[:1])
		if err != nil {
			return err
		}

		rec, err := records.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		rec.Title = args[1]
		rec.TitleIsCustom = true
		if rec.FormConfig != nil {
			rec.FormConfig.Title = args[1]
		}
		if err := records.Update(cmd.Context(), rec); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Renamed %s to %q", ui.ShortID(id), args[1])))
		return nil
	},
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <id> [title]",
	Short: "Copy a form under a new id",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := openRecords()
		if err != nil {
			return err
		}
		defer records.Close()

		id, err := resolveRecordID(cmd.Context(), records, args[:1])
		if err != nil {
			return err
		}

		rec, err := records.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		dup := rec.Clone()
		dup.ID = "" // the store assigns a fresh one
		if len(args) > 1 {
			dup.Title = args[1]
			dup.TitleIsCustom = true
			if dup.FormConfig != nil {
				dup.FormConfig.Title = args[1]
			}
		} else if dup.Title != "" {
			dup.Title += " (copy)"
		}

		newID, err := records.Save(cmd.Context(), dup)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Duplicated %s as %s", ui.ShortID(id), ui.ShortID(newID))))
		return nil
	},
}

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a form",
	Long: `Delete a saved form. Deletion asks for the form's title to be
typed back before going ahead; --force skips the confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := openRecords()
		if err != nil {
			return err
		}
		defer records.Close()

		id, err := resolveRecordID(cmd.Context(), records, args)
		if err != nil {
			return err
		}

		rec, err := records.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		if !deleteForce {
			expected := rec.Title
			if expected == "" {
				expected = ui.ShortID(rec.ID)
			}
			ok, err := ui.ConfirmTyped("Delete this form? It cannot be recovered", expected)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(ui.Meta("Aborted."))
				return nil
			}
		}

		if err := records.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Deleted %s", ui.ShortID(id))))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}
