package main

import (
	"context"
	"fmt"
	"time"

	"promptfan/internal/browser"
	"promptfan/internal/layout"

	"github.com/spf13/cobra"
)

var (
	layoutCount int
	layoutMode  string
	layoutLive  bool
)

// layoutCmd previews the window plan without opening destination windows.
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Show the window placement plan for the current screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		screen := browser.FallbackScreen
		if layoutLive {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			mgr := browser.NewManager(browser.Config{
				Bin:         cfg.Browser.Bin,
				DebuggerURL: cfg.Browser.DebuggerURL,
				Headless:    true,
				LoadTimeout: cfg.GetLoadTimeout(),
			})
			if err := mgr.Start(ctx); err != nil {
				return fmt.Errorf("browser start: %w", err)
			}
			defer func() { _ = mgr.Shutdown() }()
			screen = mgr.Measure(ctx)
		}

		mode := layout.ParseMode(layoutMode)
		fmt.Printf("screen: %s, mode: %s\n", screen, mode)
		for i, r := range layout.Plan(screen, layoutCount, mode) {
			fmt.Printf("  window %d: %s\n", i+1, r)
		}
		return nil
	},
}

func init() {
	layoutCmd.Flags().IntVarP(&layoutCount, "count", "n", 4, "number of windows to plan")
	layoutCmd.Flags().StringVarP(&layoutMode, "mode", "m", "grid", "layout mode (grid|horizontal|vertical)")
	layoutCmd.Flags().BoolVar(&layoutLive, "measure", false, "measure the real screen via Chrome")
}
