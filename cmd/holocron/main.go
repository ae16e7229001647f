// Package main provides the entry point for the holocron CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version        = "0.1.0-dev"
	globalDir      string
	globalLogLevel string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := &cobra.Command{
		Use:           "holocron",
		Short:         "Browse Star Wars characters with resolved portraits",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDir, "dir", "C", "", "Base directory containing .holocron (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(),
		newLoadCmd(),
		newListCmd(),
		newExportCmd(),
		newImportCmd(),
		newResolveCmd(),
		newServeCmd(),
		newHistoryCmd(),
	)

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
