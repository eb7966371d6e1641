package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptfan/internal/browser"
	"promptfan/internal/dispatch"
	"promptfan/internal/orchestrator"
	"promptfan/internal/server"
	"promptfan/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

// serveCmd runs the local control endpoint. The browser connection is
// established up front so the first submission doesn't pay the launch cost.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local HTTP control endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mgr := browser.NewManager(browser.Config{
			Bin:         cfg.Browser.Bin,
			DebuggerURL: cfg.Browser.DebuggerURL,
			Headless:    cfg.Browser.Headless,
			LoadTimeout: cfg.GetLoadTimeout(),
		})
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("browser start: %w", err)
		}
		defer func() { _ = mgr.Shutdown() }()

		o := orchestrator.New(orchestrator.NewRodDriver(mgr), st, orchestrator.Options{
			SettleDelay:       cfg.GetSettleDelay(),
			PositionTolerance: cfg.Orchestrator.PositionTolerance,
			PositionRetries:   cfg.Orchestrator.PositionRetries,
			LoadTimeout:       cfg.GetLoadTimeout(),
			PingInterval:      cfg.GetPingInterval(),
			PingRetries:       cfg.Orchestrator.PingRetries,
			InjectTimeout:     cfg.GetInjectTimeout(),
		})

		d := dispatch.NewDispatcher()
		dispatch.Register(d, o, st)

		// Pick up provider edits made while serving, e.g. by a second
		// promptfan process.
		watcher, err := store.NewWatcher(st, func(state store.State) {
			logger.Info("state file changed externally",
				zap.Int("destinations", len(state.Destinations)),
				zap.Int("history", len(state.History)))
		})
		if err != nil {
			logger.Warn("state watcher unavailable", zap.Error(err))
		} else {
			if err := watcher.Start(ctx); err != nil {
				logger.Warn("state watcher start failed", zap.Error(err))
			} else {
				defer watcher.Stop()
			}
		}

		srv := server.New(addr, d, logger)
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
