package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load every character from the listing",
		Long:  "Follows the paginated listing, resolves a portrait for each character and stores the result as the current snapshot.",
		RunE:  runLoad,
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(deps *Deps) error {
		fmt.Printf("Loading characters from %s\n", deps.Config.Listing.URL)

		result, err := deps.LoadHandler.Handle(ctx, func(page, loaded int) {
			fmt.Printf("  page %d done, %d characters so far\n", page, loaded)
		})
		if err != nil {
			return err
		}

		fmt.Printf("Loaded %d characters from %d pages in %s\n",
			result.Entities, result.Pages, result.Duration.Round(time.Millisecond))
		fmt.Printf("Snapshot: %s\n", result.SnapshotID)
		return nil
	})
}
