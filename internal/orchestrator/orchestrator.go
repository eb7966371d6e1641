// Package orchestrator fans a single query out across destination windows.
// A submission runs in two phases: windows are created and positioned one at
// a time (window managers misbehave under concurrent placement), then the
// pages are loaded, probed, and injected in parallel.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"promptfan/internal/inject"
	"promptfan/internal/layout"
	"promptfan/internal/logging"
	"promptfan/internal/registry"
	"promptfan/internal/store"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyQuery          = errors.New("query is empty")
	ErrNoDestinations      = errors.New("no destinations selected")
	ErrNoValidDestinations = errors.New("no valid destinations selected")
)

// Options tune the placement and injection loops. Zero values are replaced
// by the defaults the whole pipeline was calibrated against.
type Options struct {
	// SettleDelay separates sequential window creations.
	SettleDelay time.Duration
	// PositionTolerance is the per-edge pixel slack allowed between the
	// planned and actual window bounds.
	PositionTolerance int
	// PositionRetries bounds correction attempts for an out-of-place window.
	PositionRetries int
	LoadTimeout     time.Duration
	PingInterval    time.Duration
	PingRetries     int
	InjectTimeout   time.Duration
}

// DefaultOptions returns the tuning the defaults config ships with.
func DefaultOptions() Options {
	return Options{
		SettleDelay:       150 * time.Millisecond,
		PositionTolerance: 5,
		PositionRetries:   3,
		LoadTimeout:       20 * time.Second,
		PingInterval:      500 * time.Millisecond,
		PingRetries:       20,
		InjectTimeout:     25 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SettleDelay <= 0 {
		o.SettleDelay = d.SettleDelay
	}
	if o.PositionTolerance <= 0 {
		o.PositionTolerance = d.PositionTolerance
	}
	if o.PositionRetries <= 0 {
		o.PositionRetries = d.PositionRetries
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = d.LoadTimeout
	}
	if o.PingInterval <= 0 {
		o.PingInterval = d.PingInterval
	}
	if o.PingRetries <= 0 {
		o.PingRetries = d.PingRetries
	}
	if o.InjectTimeout <= 0 {
		o.InjectTimeout = d.InjectTimeout
	}
	return o
}

// Driver is the slice of browser capability the orchestrator consumes.
type Driver interface {
	// Measure reports the usable display area; implementations substitute a
	// fallback instead of erroring.
	Measure(ctx context.Context) layout.Rect
	// Open creates a window at the destination's new-conversation URL with
	// the given placement, wired for later injection into that destination.
	Open(ctx context.Context, dest registry.Destination, rect layout.Rect) (Window, error)
}

// Window is one destination's top-level window.
type Window interface {
	Bounds() (layout.Rect, error)
	SetBounds(rect layout.Rect) error
	WaitLoad(ctx context.Context, timeout time.Duration) error
	Ping(ctx context.Context, timeout time.Duration) bool
	Inject(ctx context.Context, query string, timeout time.Duration) inject.Result
	Close() error
}

// stateStore is the store surface a submission reads and writes.
type stateStore interface {
	Load() (store.State, error)
	PushHistory(query string) error
}

// Outcome records what happened to one destination during a submission.
type Outcome struct {
	Destination string
	Placed      bool
	Injected    bool
	Confirmed   bool
	Kind        inject.Kind
	Reason      string
}

// Orchestrator runs submissions.
type Orchestrator struct {
	driver Driver
	store  stateStore
	opts   Options
}

// New creates an orchestrator over the given driver and store.
func New(driver Driver, st stateStore, opts Options) *Orchestrator {
	return &Orchestrator{driver: driver, store: st, opts: opts.withDefaults()}
}

type placed struct {
	dest   registry.Destination
	window Window
}

// Submit opens one window per resolved destination, lays them out across the
// display, and injects the query into each. The returned error reflects
// validation and setup only; per-destination failures are isolated into the
// Outcome slice and do not fail the submission.
func (o *Orchestrator) Submit(ctx context.Context, query string, ids []string) ([]Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len(ids) == 0 {
		return nil, ErrNoDestinations
	}

	state, err := o.store.Load()
	if err != nil {
		return nil, err
	}
	dests := registry.Resolve(state.Destinations, ids)
	if len(dests) == 0 {
		return nil, ErrNoValidDestinations
	}

	// correlation id so one fan-out's lines can be grepped out of
	// interleaved submissions
	rl := logging.WithRequestID(logging.CategoryOrchestrator, uuid.NewString()[:8])

	mode := layout.ParseMode(state.Settings.DefaultLayout)
	screen := o.driver.Measure(ctx)
	rects := layout.Plan(screen, len(dests), mode)
	rl.Info("submitting to %d destinations, %s layout on %s", len(dests), mode, screen)

	outcomes := make([]Outcome, len(dests))

	placement := logging.StartTimer(logging.CategoryOrchestrator, "window placement")
	windows := o.placeWindows(ctx, rl, dests, rects, outcomes)
	placement.Stop()

	injection := logging.StartTimer(logging.CategoryOrchestrator, "load and inject")
	o.injectAll(ctx, rl, windows, query, outcomes)
	injection.StopWithThreshold(o.opts.InjectTimeout)

	if err := o.store.PushHistory(query); err != nil {
		rl.Warn("history push failed: %v", err)
	}
	return outcomes, nil
}

// placeWindows runs phase 1: sequential creation and placement. A failed
// creation records its outcome and skips the destination; phase 2 only sees
// windows that exist.
func (o *Orchestrator) placeWindows(ctx context.Context, rl *logging.RequestLogger, dests []registry.Destination, rects []layout.Rect, outcomes []Outcome) []placed {
	windows := make([]placed, 0, len(dests))
	for i, dest := range dests {
		outcomes[i].Destination = dest.ID

		w, err := o.driver.Open(ctx, dest, rects[i])
		if err != nil {
			rl.Warn("%s: window creation failed: %v", dest.ID, err)
			outcomes[i].Reason = "window creation failed: " + err.Error()
			continue
		}

		o.verifyBounds(rl, dest.ID, w, rects[i])
		outcomes[i].Placed = true
		windows = append(windows, placed{dest: dest, window: w})

		if i < len(dests)-1 {
			sleep(ctx, o.opts.SettleDelay)
		}
	}
	return windows
}

// verifyBounds reads back the actual placement and corrects drift. Placement
// is best effort: after the retry budget the window stays where the window
// manager put it.
func (o *Orchestrator) verifyBounds(rl *logging.RequestLogger, id string, w Window, want layout.Rect) {
	for attempt := 0; attempt <= o.opts.PositionRetries; attempt++ {
		got, err := w.Bounds()
		if err != nil {
			rl.Warn("%s: bounds read failed: %v", id, err)
			return
		}
		if withinTolerance(got, want, o.opts.PositionTolerance) {
			return
		}
		if attempt == o.opts.PositionRetries {
			rl.Warn("%s: window stayed at %s, wanted %s", id, got, want)
			return
		}
		rl.Info("%s: correcting bounds %s -> %s", id, got, want)
		if err := w.SetBounds(want); err != nil {
			rl.Warn("%s: bounds correction failed: %v", id, err)
			return
		}
	}
}

func withinTolerance(got, want layout.Rect, tol int) bool {
	return abs(got.Left-want.Left) <= tol &&
		abs(got.Top-want.Top) <= tol &&
		abs(got.Width-want.Width) <= tol &&
		abs(got.Height-want.Height) <= tol
}

// injectAll runs phase 2: per window, wait for load, confirm the page answers
// the readiness probe, then inject. Destinations fail independently.
func (o *Orchestrator) injectAll(ctx context.Context, rl *logging.RequestLogger, windows []placed, query string, outcomes []Outcome) {
	byID := make(map[string]*Outcome, len(outcomes))
	for i := range outcomes {
		byID[outcomes[i].Destination] = &outcomes[i]
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range windows {
		p := p
		out := byID[p.dest.ID]
		g.Go(func() error {
			o.injectOne(gctx, rl, p, query, out)
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) injectOne(ctx context.Context, rl *logging.RequestLogger, p placed, query string, out *Outcome) {
	if err := p.window.WaitLoad(ctx, o.opts.LoadTimeout); err != nil {
		// Chat frontends stream assets long past usability; give the
		// injector its chance anyway.
		rl.Warn("%s: load wait: %v, proceeding", p.dest.ID, err)
	}

	if !o.awaitReady(ctx, p.window) {
		rl.Warn("%s: page never answered readiness probe", p.dest.ID)
		out.Reason = "page not ready"
		return
	}

	res := p.window.Inject(ctx, query, o.opts.InjectTimeout)
	out.Injected = res.Success
	out.Confirmed = res.Confirmed
	out.Kind = res.Kind
	out.Reason = res.Reason
	if res.Success {
		rl.Info("%s: injected (%s, confirmed=%v)", p.dest.ID, res.Kind, res.Confirmed)
	} else {
		rl.Warn("%s: injection failed: %s", p.dest.ID, res.Reason)
	}
}

// awaitReady probes the page until it answers or the retry budget runs out.
func (o *Orchestrator) awaitReady(ctx context.Context, w Window) bool {
	for attempt := 0; attempt < o.opts.PingRetries; attempt++ {
		if w.Ping(ctx, o.opts.PingInterval) {
			return true
		}
		if !sleep(ctx, o.opts.PingInterval) {
			return false
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
