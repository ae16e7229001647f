package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

type exportFlags struct {
	filters filterFlags
	format  string
	output  string
	limit   int
}

type exporter struct {
	format string
	output string
	stdout io.Writer
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export loaded characters to file",
		Long:  "Exports the filtered, name-sorted characters to JSON, CSV, or markdown format.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	flags.filters.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", 0, "Maximum number of characters to export (0 for all)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(deps *Deps) error {
		result, err := deps.BrowseHandler.Handle(ctx, flags.filters.criteria(), flags.limit)
		if err != nil {
			return err
		}
		if len(result.Entities) == 0 {
			return fmt.Errorf("no characters found to export")
		}

		e := &exporter{
			format: flags.format,
			output: flags.output,
			stdout: os.Stdout,
		}
		return e.export(result.Entities)
	})
}

func (e *exporter) export(list []entities.Entity) (err error) {
	w := e.stdout
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	if err := e.formatEntities(w, list); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Fprintf(e.stdout, "Exported %d characters to %s\n", len(list), e.output)
	}

	return nil
}

func (e *exporter) formatEntities(w io.Writer, list []entities.Entity) error {
	switch e.format {
	case "json":
		return formatJSON(w, list)
	case "csv":
		return formatCSV(w, list)
	case "markdown":
		return formatMarkdown(w, list)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

func formatJSON(w io.Writer, list []entities.Entity) error {
	if list == nil {
		list = []entities.Entity{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(list)
}

func formatCSV(w io.Writer, list []entities.Entity) error {
	writer := csv.NewWriter(w)

	header := []string{"name", "id", "gender", "birth_year", "mass", "height", "hair_color", "eye_color", "url", "image"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range list {
		id := ""
		if e.HasIdentifier() {
			id = strconv.Itoa(e.Identifier)
		}
		row := []string{
			e.Name,
			id,
			e.Gender,
			e.BirthYear,
			e.Mass,
			e.Height,
			e.HairColor,
			e.EyeColor,
			e.SourceURL,
			e.ImageURL,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, list []entities.Entity) error {
	if _, err := fmt.Fprintf(w, "# Star Wars Characters\n\nTotal: %d characters\n\n", len(list)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Name | Gender | Birth Year | Mass | Height | Image |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|--------|------------|------|--------|-------|\n"); err != nil {
		return err
	}

	for _, e := range list {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			escapeMarkdown(e.Name),
			escapeMarkdown(e.Gender),
			escapeMarkdown(e.BirthYear),
			escapeMarkdown(entities.DisplayValue(e.Mass)),
			escapeMarkdown(entities.DisplayValue(e.Height)),
			markdownImage(e),
		); err != nil {
			return err
		}
	}

	return nil
}

func markdownImage(e entities.Entity) string {
	if e.ImageURL == "" {
		return ""
	}
	return fmt.Sprintf("![%s](%s)", escapeMarkdown(e.Name), e.ImageURL)
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
