// Package inject drives a destination page's native chat input: it locates
// the input control on markup this tool does not own, writes the query the
// way the page's framework expects, and triggers submission. Selectors are
// heuristics, so every step carries fallbacks and every attempt reports
// exactly one result.
package inject

import (
	"context"
	"fmt"
	"time"

	"promptfan/internal/logging"
	"promptfan/internal/registry"

	"github.com/go-rod/rod"
)

// readyFlagJS marks the page's JS context so the orchestrator's handshake
// can tell "context alive" apart from "still loading". Installed before any
// page script runs; independent of whether an input has been located.
const readyFlagJS = `window.__promptfanReady = true;`

// Adapter binds injection to one destination page.
type Adapter struct {
	page *rod.Page
	dest registry.Destination

	// bounded polling knobs; zero values are replaced by defaults
	FindInterval  time.Duration
	SubmitRetries int
	SubmitDelay   time.Duration

	input *rod.Element
}

// New creates an adapter for a destination's page.
func New(page *rod.Page, dest registry.Destination) *Adapter {
	return &Adapter{
		page:          page,
		dest:          dest,
		FindInterval:  250 * time.Millisecond,
		SubmitRetries: 10,
		SubmitDelay:   300 * time.Millisecond,
	}
}

// InstallReadyFlag arranges for the readiness marker to exist in every
// document the page navigates to. Call once, right after window creation.
func InstallReadyFlag(page *rod.Page) error {
	_, err := page.EvalOnNewDocument(readyFlagJS)
	if err != nil {
		return fmt.Errorf("install ready flag: %w", err)
	}
	return nil
}

// Ping probes the page for liveness. The answer is computed synchronously
// in the page; a false or errored probe means the context is not ready yet.
func Ping(ctx context.Context, page *rod.Page, timeout time.Duration) bool {
	res, err := page.Context(ctx).Timeout(timeout).Evaluate(&rod.EvalOptions{
		JS:      `() => window.__promptfanReady === true`,
		ByValue: true,
	})
	if err != nil || res == nil {
		return false
	}
	return res.Value.Bool()
}

// Result is the single reply every injection attempt produces.
type Result struct {
	Destination string
	Success     bool
	// Confirmed is false when submission fell through to the last-resort
	// path and cannot be trusted to have fired.
	Confirmed bool
	Kind      Kind
	Reason    string
}

func failure(dest, reason string) Result {
	return Result{Destination: dest, Reason: reason}
}

// Inject writes the query into the destination's input and submits it.
// It always returns exactly one Result, including on panic inside the
// CDP plumbing; the channel back to the orchestrator is never left open.
func (a *Adapter) Inject(ctx context.Context, query string, timeout time.Duration) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.InjectWarn("%s: injection panicked: %v", a.dest.ID, r)
			res = failure(a.dest.ID, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	deadline := time.Now().Add(timeout)

	input, ok := a.findInput(ctx, deadline)
	if !ok {
		logging.InjectWarn("%s: input element not found", a.dest.ID)
		return failure(a.dest.ID, "input element not found")
	}
	a.input = input

	kind, err := writeQuery(input, query)
	if err != nil {
		logging.InjectWarn("%s: write failed (%s): %v", a.dest.ID, kind, err)
		return failure(a.dest.ID, fmt.Sprintf("write failed: %v", err))
	}
	logging.Inject("%s: wrote query via %s strategy", a.dest.ID, kind)

	confirmed, err := a.submit(ctx, deadline)
	if err != nil {
		logging.InjectWarn("%s: submit failed: %v", a.dest.ID, err)
		return Result{Destination: a.dest.ID, Kind: kind, Reason: fmt.Sprintf("submit failed: %v", err)}
	}

	logging.Inject("%s: submitted (confirmed=%v)", a.dest.ID, confirmed)
	return Result{Destination: a.dest.ID, Success: true, Confirmed: confirmed, Kind: kind}
}

// Close releases held element references. The polling loops are bounded by
// deadlines and need no explicit teardown beyond this.
func (a *Adapter) Close() {
	a.input = nil
}
