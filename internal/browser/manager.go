// Package browser owns the driven Chrome instance: launching or attaching,
// opening one top-level window per destination, and reading back and
// correcting window bounds. Host window managers are free to ignore
// placement hints, so bounds handling is verify-and-retry, never trusted.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"promptfan/internal/layout"
	"promptfan/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

// FallbackScreen is assumed when the display cannot be measured.
var FallbackScreen = layout.Rect{Left: 0, Top: 0, Width: 1920, Height: 1080}

// Config holds browser configuration.
type Config struct {
	// Bin is the Chrome/Chromium binary; empty lets the launcher find one.
	Bin string
	// DebuggerURL attaches to a running browser instead of launching.
	DebuggerURL string
	Headless    bool
	// LoadTimeout bounds waits for a page's load event.
	LoadTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:    false,
		LoadTimeout: 20 * time.Second,
	}
}

// Manager owns the Chrome connection and the windows opened through it.
type Manager struct {
	cfg        Config
	mu         sync.RWMutex
	browser    *rod.Browser
	controlURL string
}

// NewManager creates a manager; Chrome is not touched until Start.
func NewManager(cfg Config) *Manager {
	if cfg.LoadTimeout == 0 {
		cfg.LoadTimeout = 20 * time.Second
	}
	return &Manager{cfg: cfg}
}

// Start connects to an existing Chrome or launches a new one.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reuse a healthy connection
	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		logging.BrowserWarn("stale browser connection detected, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.controlURL = ""
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(m.cfg.Headless)
		if m.cfg.Bin != "" {
			launch = launch.Bin(m.cfg.Bin)
		}
		url, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = browser
	m.controlURL = controlURL
	logging.Browser("connected to chrome at %s", controlURL)
	return nil
}

// ControlURL returns the WebSocket debugger URL.
func (m *Manager) ControlURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser != nil
}

// Shutdown closes the browser connection.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	m.controlURL = ""
	return err
}

func (m *Manager) rod() (*rod.Browser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.browser == nil {
		return nil, errors.New("browser not connected")
	}
	return m.browser, nil
}

// Measure queries the primary display's usable area via a throwaway blank
// page. Any failure substitutes FallbackScreen rather than surfacing an
// error; placement on a guessed screen beats failing the whole request.
func (m *Manager) Measure(ctx context.Context) layout.Rect {
	browser, err := m.rod()
	if err != nil {
		logging.BrowserWarn("measure: %v, assuming %s", err, FallbackScreen)
		return FallbackScreen
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		logging.BrowserWarn("measure: blank page failed: %v, assuming %s", err, FallbackScreen)
		return FallbackScreen
	}
	defer func() { _ = page.Close() }()

	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS: `() => ({
			left: window.screen.availLeft || 0,
			top: window.screen.availTop || 0,
			width: window.screen.availWidth,
			height: window.screen.availHeight
		})`,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil || res == nil {
		logging.BrowserWarn("measure: eval failed: %v, assuming %s", err, FallbackScreen)
		return FallbackScreen
	}

	obj := res.Value.Map()
	screen := layout.Rect{
		Left:   int(obj["left"].Int()),
		Top:    int(obj["top"].Int()),
		Width:  int(obj["width"].Int()),
		Height: int(obj["height"].Int()),
	}
	if screen.Width <= 0 || screen.Height <= 0 {
		logging.BrowserWarn("measure: implausible screen %s, assuming %s", screen, FallbackScreen)
		return FallbackScreen
	}
	logging.Browser("measured screen: %s", screen)
	return screen
}

// Window correlates a live top-level Chrome window to the page inside it.
type Window struct {
	ID   string
	URL  string
	Page *rod.Page
}

// OpenWindow creates a new top-level window at the given URL and moves it
// to the requested placement. Target creation only takes size, and only as
// a headless hint, so the full rect is applied through the window API right
// after the window exists; callers re-verify via Bounds.
func (m *Manager) OpenWindow(ctx context.Context, url string, rect layout.Rect) (*Window, error) {
	browser, err := m.rod()
	if err != nil {
		return nil, err
	}

	width, height := rect.Width, rect.Height
	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{
		URL:       url,
		Width:     &width,
		Height:    &height,
		NewWindow: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	if page == nil {
		return nil, errors.New("create window: no page attached")
	}

	w := &Window{
		ID:   uuid.NewString(),
		URL:  url,
		Page: page,
	}
	if err := w.SetBounds(rect); err != nil {
		logging.BrowserWarn("window %s: initial placement failed: %v", shortID(w.ID), err)
	}
	logging.Browser("window %s opened for %s at %s", shortID(w.ID), url, rect)
	return w, nil
}

// Bounds reads back the window's actual placement.
func (w *Window) Bounds() (layout.Rect, error) {
	bounds, err := w.Page.GetWindow()
	if err != nil {
		return layout.Rect{}, fmt.Errorf("get window bounds: %w", err)
	}
	return layout.Rect{
		Left:   intFrom(bounds.Left),
		Top:    intFrom(bounds.Top),
		Width:  intFrom(bounds.Width),
		Height: intFrom(bounds.Height),
	}, nil
}

// SetBounds asks the window manager to move/resize the window. The request
// is a hint; callers must verify via Bounds.
func (w *Window) SetBounds(rect layout.Rect) error {
	left, top, width, height := rect.Left, rect.Top, rect.Width, rect.Height
	err := w.Page.SetWindow(&proto.BrowserBounds{
		Left:        &left,
		Top:         &top,
		Width:       &width,
		Height:      &height,
		WindowState: proto.BrowserWindowStateNormal,
	})
	if err != nil {
		return fmt.Errorf("set window bounds: %w", err)
	}
	return nil
}

// WaitLoad blocks until the page's load event or the configured timeout.
func (w *Window) WaitLoad(ctx context.Context, timeout time.Duration) error {
	return w.Page.Context(ctx).Timeout(timeout).WaitLoad()
}

// Close tears down the window's page.
func (w *Window) Close() error {
	return w.Page.Close()
}

func intFrom(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
