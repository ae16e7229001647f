package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielgonzalesarce/holocron/internal/infrastructure/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web catalog",
		Long:  "Serves the character card grid with filters and a load button. The last stored snapshot is shown on startup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(deps *Deps) error {
		if addr == "" {
			addr = deps.Config.Server.Addr
		}

		restored, err := deps.BrowseHandler.Restore(ctx)
		if err != nil {
			return err
		}
		if restored {
			state := deps.Catalog.State()
			deps.Logger.Info("restored snapshot",
				zap.String("snapshot", state.SnapshotID),
				zap.Int("entities", len(state.All)))
		}

		server := web.NewServer(deps.Catalog, deps.LoadHandler, deps.Logger.Named("web"))
		httpServer := server.HTTPServer(addr)

		errCh := make(chan error, 1)
		go func() {
			deps.Logger.Info("listening", zap.String("addr", addr))
			errCh <- httpServer.ListenAndServe()
		}()
		fmt.Printf("Serving on %s (Ctrl+C to stop)\n", addr)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving http: %w", err)
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}

		// A running load still owns the store.
		server.Wait()
		return nil
	})
}
