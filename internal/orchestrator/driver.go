package orchestrator

import (
	"context"
	"time"

	"promptfan/internal/browser"
	"promptfan/internal/inject"
	"promptfan/internal/layout"
	"promptfan/internal/logging"
	"promptfan/internal/registry"
)

// RodDriver backs the orchestrator with a live Chrome via the browser
// package.
type RodDriver struct {
	manager *browser.Manager
}

// NewRodDriver wraps an already-configured manager; the manager's connection
// lifecycle stays with the caller.
func NewRodDriver(m *browser.Manager) *RodDriver {
	return &RodDriver{manager: m}
}

func (d *RodDriver) Measure(ctx context.Context) layout.Rect {
	return d.manager.Measure(ctx)
}

func (d *RodDriver) Open(ctx context.Context, dest registry.Destination, rect layout.Rect) (Window, error) {
	w, err := d.manager.OpenWindow(ctx, dest.NewConversationURL, rect)
	if err != nil {
		return nil, err
	}
	// The ready flag must be registered before navigation commits so the
	// probe can distinguish "not loaded yet" from "never instrumented".
	if err := inject.InstallReadyFlag(w.Page); err != nil {
		logging.OrchestratorWarn("%s: ready flag install failed: %v", dest.ID, err)
	}
	return &rodWindow{window: w, dest: dest}, nil
}

type rodWindow struct {
	window *browser.Window
	dest   registry.Destination
}

func (w *rodWindow) Bounds() (layout.Rect, error) { return w.window.Bounds() }

func (w *rodWindow) SetBounds(rect layout.Rect) error { return w.window.SetBounds(rect) }

func (w *rodWindow) WaitLoad(ctx context.Context, timeout time.Duration) error {
	return w.window.WaitLoad(ctx, timeout)
}

func (w *rodWindow) Ping(ctx context.Context, timeout time.Duration) bool {
	return inject.Ping(ctx, w.window.Page, timeout)
}

func (w *rodWindow) Inject(ctx context.Context, query string, timeout time.Duration) inject.Result {
	a := inject.New(w.window.Page, w.dest)
	defer a.Close()
	return a.Inject(ctx, query, timeout)
}

func (w *rodWindow) Close() error { return w.window.Close() }
