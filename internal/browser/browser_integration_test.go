//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"promptfan/internal/browser"
	"promptfan/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) (*browser.Manager, context.Context) {
	t.Helper()

	cfg := browser.DefaultConfig()
	cfg.Headless = true
	mgr := browser.NewManager(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	require.NoError(t, mgr.Start(ctx), "failed to start browser")
	t.Cleanup(func() { _ = mgr.Shutdown() })
	return mgr, ctx
}

func TestStartIsIdempotent(t *testing.T) {
	mgr, ctx := startManager(t)

	url := mgr.ControlURL()
	require.NotEmpty(t, url)
	require.NoError(t, mgr.Start(ctx), "second Start must reuse the connection")
	assert.Equal(t, url, mgr.ControlURL())
	assert.True(t, mgr.IsConnected())
}

func TestMeasureReportsPlausibleScreen(t *testing.T) {
	mgr, ctx := startManager(t)

	screen := mgr.Measure(ctx)
	assert.Greater(t, screen.Width, 0)
	assert.Greater(t, screen.Height, 0)
}

func TestMeasureWithoutConnectionFallsBack(t *testing.T) {
	mgr := browser.NewManager(browser.DefaultConfig())

	screen := mgr.Measure(context.Background())
	assert.Equal(t, browser.FallbackScreen, screen)
}

func TestOpenWindowLoadsPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1 id="title">window target</h1></body></html>`)
	}))
	t.Cleanup(ts.Close)

	mgr, ctx := startManager(t)

	w, err := mgr.OpenWindow(ctx, ts.URL, layout.Rect{Width: 800, Height: 600})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.WaitLoad(ctx, 10*time.Second))

	res, err := w.Page.Eval(`() => document.querySelector('#title').textContent`)
	require.NoError(t, err)
	assert.Equal(t, "window target", res.Value.String())
}

func TestOpenWindowAppliesRequestedBounds(t *testing.T) {
	mgr, ctx := startManager(t)

	want := layout.Rect{Left: 120, Top: 80, Width: 640, Height: 480}
	w, err := mgr.OpenWindow(ctx, "about:blank", want)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	got, err := w.Bounds()
	require.NoError(t, err)
	assert.Equal(t, want, got, "creation must leave the window at the planned rect")
}

func TestSetBoundsRoundTrip(t *testing.T) {
	mgr, ctx := startManager(t)

	w, err := mgr.OpenWindow(ctx, "about:blank", layout.Rect{Left: 0, Top: 0, Width: 640, Height: 480})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	want := layout.Rect{Left: 50, Top: 40, Width: 700, Height: 500}
	require.NoError(t, w.SetBounds(want))

	got, err := w.Bounds()
	require.NoError(t, err)
	// headless Chrome honors bounds exactly; a real window manager may not
	assert.Equal(t, want, got)
}

func TestShutdownDropsConnection(t *testing.T) {
	cfg := browser.DefaultConfig()
	cfg.Headless = true
	mgr := browser.NewManager(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	require.NoError(t, mgr.Start(ctx))

	require.NoError(t, mgr.Shutdown())
	assert.False(t, mgr.IsConnected())
	assert.Empty(t, mgr.ControlURL())
}
