package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptfan/internal/browser"
	"promptfan/internal/orchestrator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	submitProviders []string
	submitTimeout   time.Duration
	submitKeepOpen  bool
)

// submitCmd fans a query out to the selected providers.
var submitCmd = &cobra.Command{
	Use:   "submit [query]",
	Short: "Open one window per provider and type the query into each",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		ids := submitProviders
		if len(ids) == 0 {
			// Default to the enabled providers in stored order
			state, err := st.Load()
			if err != nil {
				return err
			}
			for _, d := range state.Destinations {
				if d.Enabled {
					ids = append(ids, d.ID)
				}
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), submitTimeout)
		defer cancel()

		mgr := browser.NewManager(browser.Config{
			Bin:         cfg.Browser.Bin,
			DebuggerURL: cfg.Browser.DebuggerURL,
			Headless:    cfg.Browser.Headless,
			LoadTimeout: cfg.GetLoadTimeout(),
		})
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("browser start: %w", err)
		}
		if !submitKeepOpen {
			defer func() { _ = mgr.Shutdown() }()
		}

		o := orchestrator.New(orchestrator.NewRodDriver(mgr), st, orchestrator.Options{
			SettleDelay:       cfg.GetSettleDelay(),
			PositionTolerance: cfg.Orchestrator.PositionTolerance,
			PositionRetries:   cfg.Orchestrator.PositionRetries,
			LoadTimeout:       cfg.GetLoadTimeout(),
			PingInterval:      cfg.GetPingInterval(),
			PingRetries:       cfg.Orchestrator.PingRetries,
			InjectTimeout:     cfg.GetInjectTimeout(),
		})

		outcomes, err := o.Submit(ctx, query, ids)
		if err != nil {
			return err
		}

		for _, out := range outcomes {
			status := "ok"
			switch {
			case !out.Placed:
				status = "window failed"
			case !out.Injected:
				status = "injection failed"
			case !out.Confirmed:
				status = "sent (unconfirmed)"
			}
			detail := ""
			if out.Reason != "" {
				detail = ": " + out.Reason
			}
			fmt.Printf("  %-12s %s%s\n", out.Destination, status, detail)
			logger.Info("destination outcome",
				zap.String("destination", out.Destination),
				zap.Bool("placed", out.Placed),
				zap.Bool("injected", out.Injected),
				zap.String("reason", out.Reason))
		}

		if submitKeepOpen {
			fmt.Println("windows left open; browser stays attached")
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().StringSliceVarP(&submitProviders, "providers", "p", nil,
		"provider ids to target (default: all enabled)")
	submitCmd.Flags().DurationVar(&submitTimeout, "timeout", 2*time.Minute,
		"overall submission deadline")
	submitCmd.Flags().BoolVar(&submitKeepOpen, "keep-open", true,
		"leave the browser and its windows open after submitting")
}
