package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past load attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				entries, err := deps.HistoryHandler.Handle(ctx, limit)
				if err != nil {
					return err
				}
				displayHistory(os.Stdout, entries)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of entries to display")

	return cmd
}

func displayHistory(w io.Writer, entries []entities.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No loads recorded yet.")
		return
	}

	for _, entry := range entries {
		fmt.Fprintf(w, "%s  %-15s", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"), entry.Action)
		if entry.SnapshotID != "" {
			fmt.Fprintf(w, "  snapshot=%s", entry.SnapshotID)
		}
		if len(entry.Details) > 0 {
			fmt.Fprintf(w, "  %s", formatDetails(entry.Details))
		}
		fmt.Fprintln(w)
	}
}

// formatDetails renders details as sorted key=value pairs.
func formatDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}
