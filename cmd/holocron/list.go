package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielgonzalesarce/holocron/internal/application/handlers"
	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// filterFlags are the criteria flags shared by list and export.
type filterFlags struct {
	name      string
	gender    string
	minMass   string
	minHeight string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Case-insensitive name substring")
	cmd.Flags().StringVarP(&f.gender, "gender", "g", "", "Exact gender (male, female, n/a, hermaphrodite, ...)")
	cmd.Flags().StringVar(&f.minMass, "min-mass", "", "Minimum mass in kg")
	cmd.Flags().StringVar(&f.minHeight, "min-height", "", "Minimum height in cm")
}

func (f *filterFlags) criteria() entities.Criteria {
	return entities.ParseCriteria(f.name, f.gender, f.minMass, f.minHeight)
}

func newListCmd() *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded characters",
		Long:  "Lists characters from the last load, filtered and sorted by name.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, filters, limit)
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of characters to display (0 for all)")

	return cmd
}

func runList(cmd *cobra.Command, filters filterFlags, limit int) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(deps *Deps) error {
		result, err := deps.BrowseHandler.Handle(ctx, filters.criteria(), limit)
		if err != nil {
			return err
		}

		displayResult(os.Stdout, result)
		return nil
	})
}

func displayResult(w io.Writer, result *handlers.BrowseResult) {
	if result.Matched == 0 {
		fmt.Fprintf(w, "No characters match (%d loaded).\n", result.Total)
		return
	}

	fmt.Fprintf(w, "Showing %d of %d characters", result.Matched, result.Total)
	if len(result.Entities) < result.Matched {
		fmt.Fprintf(w, " (first %d)", len(result.Entities))
	}
	fmt.Fprint(w, ":\n\n")

	for _, e := range result.Entities {
		displayEntity(w, e)
	}
}

func displayEntity(w io.Writer, e entities.Entity) {
	gender := e.Gender
	if gender == "" {
		gender = "N/A"
	}
	fmt.Fprintf(w, "%s\n", e.Name)
	fmt.Fprintf(w, "  Gender: %s  Born: %s\n", gender, e.BirthYear)
	if v := entities.DisplayValue(e.Mass); v != "" {
		fmt.Fprintf(w, "  Mass: %s kg\n", v)
	}
	if v := entities.DisplayValue(e.Height); v != "" {
		fmt.Fprintf(w, "  Height: %s cm\n", v)
	}
	if v := entities.DisplayValue(e.HairColor); v != "" {
		fmt.Fprintf(w, "  Hair: %s\n", v)
	}
	if e.EyeColor != "" {
		fmt.Fprintf(w, "  Eyes: %s\n", e.EyeColor)
	}
	if e.ImageURL != "" {
		fmt.Fprintf(w, "  Image: %s\n", e.ImageURL)
	}
	fmt.Fprintln(w)
}
