package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/graph-actions/internal/actions"
	"github.com/custodia-labs/graph-actions/internal/adapters/driven/auth"
	"github.com/custodia-labs/graph-actions/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/graph-actions/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/graph-actions/internal/config"
	"github.com/custodia-labs/graph-actions/internal/core/ports/driven"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
	"github.com/custodia-labs/graph-actions/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the action dispatch HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, verbose)

	clientOpts := []graphclient.Option{}
	if cfg.GraphBaseURL != "" {
		clientOpts = append(clientOpts, graphclient.WithBaseURL(cfg.GraphBaseURL))
	}
	client := graphclient.New(clientOpts...)

	registry, err := actions.BuildRegistry(client, actions.Config{
		Mailbox: cfg.Mailbox,
		Version: version,
	}, log)
	if err != nil {
		return fmt.Errorf("building action catalog: %w", err)
	}

	tokens := auth.NewProvider(cfg.Credentials())

	var audit driven.AuditStore
	if cfg.AuditDB != "" {
		store, err := sqlite.New(cfg.AuditDB)
		if err != nil {
			return fmt.Errorf("opening audit store: %w", err)
		}
		defer store.Close()
		audit = store
	}

	server := httpapi.NewServer(registry, tokens, audit, log)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr, "actions", registry.Len())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	}
	return nil
}
