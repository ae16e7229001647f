package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielgonzalesarce/holocron/internal/application/handlers"
)

func newImportCmd() *cobra.Command {
	var (
		format string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the snapshot with an exported file",
		Long:  "Reads characters from a JSON or CSV file written by export and stores them as the current snapshot. Images are kept as exported.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				result, err := deps.ImportHandler.Handle(ctx, args[0], handlers.ImportOptions{
					Format: format,
					DryRun: dryRun,
				})
				if err != nil {
					return err
				}

				if dryRun {
					fmt.Printf("Validated %d characters (dry run, nothing saved)\n", result.Imported)
					return nil
				}
				fmt.Printf("Imported %d characters\n", result.Imported)
				fmt.Printf("Snapshot: %s\n", result.SnapshotID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Input format (json, csv, auto)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without saving")

	return cmd
}
