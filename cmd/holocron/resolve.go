package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

func newResolveCmd() *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "Resolve the portrait URL for one character",
		Long:  "Runs the image fallback chain for a single character and prints the chosen URL. Use --log-level debug to see which step matched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				entity := entities.Entity{Name: args[0], Identifier: id}
				fmt.Println(deps.Resolver.Resolve(ctx, entity))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Numeric listing identifier (enables the id-based steps)")

	return cmd
}
