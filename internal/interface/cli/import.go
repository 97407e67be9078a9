package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk-core/config"
	"github.com/examdesk/examdesk-core/internal/application/rosterimport"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-import people from a spreadsheet",
	Long: `Reads a CSV or XLSX roster, drops malformed rows, strips a
header row when one is present and submits the rest in a single batch.
The per-row created/skipped verdict comes from the server; a failed
batch is never resubmitted automatically.`,
}

func runImport(cmd *cobra.Command, path string, kind rosterimport.Kind, flag string) error {
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	if !app.cfg.Features.IsEnabled(flag) {
		return fmt.Errorf("%s import is disabled in this deployment", kind)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	rows, err := rosterimport.ParseFile(path, f)
	if err != nil {
		return err
	}

	result, err := app.imports.Import(cmd.Context(), rows, kind)
	if err != nil {
		if result.Error != "" {
			return errors.New(result.Error)
		}
		return err
	}

	pterm.Success.Printf("Batch accepted: %d created, %d skipped.\n", len(result.Created), len(result.Skipped))
	for _, p := range result.Skipped {
		pterm.Warning.Printf("skipped: %s\n", p.Email)
	}
	return nil
}

var importStudentsCmd = &cobra.Command{
	Use:   "students <file>",
	Short: "Import a student roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], rosterimport.KindStudents, config.FeatureImportStudents)
	},
}

var importSecretariesCmd = &cobra.Command{
	Use:   "secretaries <file>",
	Short: "Import a secretary roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], rosterimport.KindSecretaries, config.FeatureImportSecretaries)
	},
}

func init() {
	importCmd.AddCommand(importStudentsCmd)
	importCmd.AddCommand(importSecretariesCmd)
}
