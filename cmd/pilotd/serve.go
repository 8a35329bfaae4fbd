// serve.go — wires the Coordinator's components and runs the control
// plane until SIGINT/SIGTERM, grounded on helixml-helix's cmd/helix/serve.go (config load →
// construct → ListenAndServe → signal-driven shutdown) and zerolog setup
// mirrored from the same file's log.Fatal()/log.Error() idiom.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/formpilot/pilotd/internal/action"
	"github.com/formpilot/pilotd/internal/config"
	"github.com/formpilot/pilotd/internal/controlplane"
	"github.com/formpilot/pilotd/internal/injector"
	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/store"
)

func newServeCmd() *cobra.Command {
	config.LoadDotEnv()
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Coordinator: control plane, motion engine, action engine, Injector link",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	bindServeFlags(cmd, &cfg)
	return cmd
}

func setupLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := setupLogger(cfg.LogLevel)
	log.Logger = logger

	if err := cfg.Validate(); err != nil {
		return err
	}

	devicePath := cfg.SerialDevice
	if devicePath == "" {
		detected, err := injector.AutoDetect(cfg.SerialAutodetectSubstr)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		devicePath = detected
	}

	link, err := injector.Open(devicePath, cfg.Baud, logger.With().Str("component", "injector").Logger())
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer link.Close()

	st := store.New()
	motionEngine := motion.New(link, st, cfg.ViewportMarginPx, logger.With().Str("component", "motion").Logger())
	actionEngine := action.New(st, link, motionEngine, logger.With().Str("component", "action").Logger())
	server := controlplane.New(st, actionEngine, motionEngine, link, logger)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("control plane listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: control plane: %w", err)
		}
	case <-runCtx.Done():
		logger.Info().Msg("shutdown signal received")
		link.EmergencyStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http shutdown error")
		}
	}

	logger.Info().Msg("pilotd shut down cleanly")
	return nil
}
