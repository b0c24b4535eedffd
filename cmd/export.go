package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/store"
	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

// exportEnvelope is the file format of `export`/`import`. The version field
// guards against silently loading files from a future, incompatible layout.
type exportEnvelope struct {
	Version int           `json:"version"`
	Record  *store.Record `json:"record"`
}

const exportVersion = 1

var (
	exportOutput string
	exportTrim   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a form as JSON",
	Long: `Write a form record to a JSON file (or stdout with -o -).

--trim strips the stored contract definition down to the selected function.
Trimmed exports are smaller and leak nothing about the contract's other
functions, but a form imported from one cannot switch function until a full
definition is loaded again.`,
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

		if exportTrim {
			if rec.FunctionID == "" {
				return fmt.Errorf("--trim needs a selected function; %s has none", ui.ShortID(id))
			}
			if rec.DefinitionJSON != "" {
				trimmed, err := contract.TrimToFunction(rec.DefinitionJSON, contract.FunctionNameFromID(rec.FunctionID))
				if err != nil {
					return fmt.Errorf("trimming definition: %w", err)
				}
				rec.DefinitionJSON = trimmed
				rec.DefinitionOriginal = ""
				rec.DefinitionTrimmed = true
			}
		}

		data, err := json.MarshalIndent(exportEnvelope{Version: exportVersion, Record: rec}, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if exportOutput == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}

		out := exportOutput
		if out == "" {
			out = ui.ShortID(id) + ".w3form.json"
		}
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Exported %s to %s", ui.ShortID(id), out)))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a form from JSON",
	Long: `Load an exported form file and save it as a new record.

The contract definition, when present, is re-parsed through the ecosystem
adapter so a hand-edited or corrupted file fails here instead of inside the
builder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var env exportEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if env.Version != exportVersion {
			return fmt.Errorf("%s: unsupported export version %d (this build reads version %d)", args[0], env.Version, exportVersion)
		}
		rec := env.Record
		if rec == nil {
			return fmt.Errorf("%s: no record in file", args[0])
		}
		if rec.NetworkID == "" {
			return fmt.Errorf("%s: record has no network", args[0])
		}

		networks, err := newChainRegistry()
		if err != nil {
			return err
		}
		if _, err := networks.ByID(rec.NetworkID); err != nil {
			fmt.Println(ui.Warn(fmt.Sprintf("network %q is not in the local registry; the form will need one before it can load its contract", rec.NetworkID)))
		}

		if rec.DefinitionJSON != "" {
			a, err := newAdapterRegistry().ForEcosystem(rec.Ecosystem)
			if err != nil {
				return err
			}
			abiJSON, _, err := contract.ExtractABI(rec.DefinitionJSON)
			if err != nil {
				return fmt.Errorf("definition in %s: %w", args[0], err)
			}
			schema, _, err := a.ParseDefinition(abiJSON)
			if err != nil {
				return fmt.Errorf("definition in %s: %w", args[0], err)
			}
			if rec.FunctionID != "" && !rec.DefinitionTrimmed {
				if _, ok := schema.Function(rec.FunctionID); !ok {
					return fmt.Errorf("definition in %s does not contain function %q", args[0], rec.FunctionID)
				}
			}
		}

		records, err := openRecords()
		if err != nil {
			return err
		}
		defer records.Close()

		rec.ID = "" // imported copies get their own id
		id, err := records.Save(cmd.Context(), rec)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Imported %q as %s", rec.Title, ui.ShortID(id))))
		if rec.DefinitionTrimmed {
			fmt.Println(ui.Hint("This export was trimmed: the form works as-is, but changing the function needs a full definition."))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default <id>.w3form.json, - for stdout)")
	exportCmd.Flags().BoolVar(&exportTrim, "trim", false, "strip the definition to the selected function")
}
