package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielgonzalesarce/holocron/internal/application/handlers"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new holocron workspace",
		Long:  "Creates a .holocron directory with default configuration and an empty snapshot database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	result, err := handlers.NewInitHandler(storeOpener).Handle(cmd.Context(), base)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created snapshot database: %s\n", result.DatabasePath)
	fmt.Println("Holocron initialized successfully!")

	return nil
}
