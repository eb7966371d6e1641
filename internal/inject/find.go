package inject

import (
	"context"
	"strings"
	"time"

	"promptfan/internal/logging"

	"github.com/go-rod/rod"
)

// genericInputSelectors are tried after the destination's own locator.
// Destination pages redeploy often; when the curated selector drifts these
// keep the fan-out limping along.
var genericInputSelectors = []string{
	"textarea",
	"div[contenteditable='true']",
	"[role='textbox']",
	"input[type='text']",
}

var genericSubmitSelectors = []string{
	"button[type='submit']",
	"button[aria-label*='Send']",
	"button[aria-label*='Submit']",
	"[role='button'][aria-label*='Send']",
}

// candidates expands a comma-separated locator into an ordered strategy
// list, destination-specific selectors first.
func candidates(locator string, generic []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(sel string) {
		sel = strings.TrimSpace(sel)
		if sel != "" && !seen[sel] {
			seen[sel] = true
			out = append(out, sel)
		}
	}
	for _, sel := range strings.Split(locator, ",") {
		add(sel)
	}
	for _, sel := range generic {
		add(sel)
	}
	return out
}

// findFirst tries each candidate selector in order and returns the first
// element accepted by check. One pass, no waiting.
func findFirst(page *rod.Page, selectors []string, check func(*rod.Element) bool) (*rod.Element, bool) {
	for _, sel := range selectors {
		has, el, err := page.Has(sel)
		if err != nil || !has || el == nil {
			continue
		}
		if check(el) {
			return el, true
		}
	}
	return nil, false
}

// pollForElement re-runs findFirst on a fixed interval until a match or
// the deadline. This is the bounded stand-in for observing DOM mutations:
// a cancellable ticker with a single resolution point, so the outcome is
// exactly one of found or timed out.
func pollForElement(ctx context.Context, page *rod.Page, selectors []string, check func(*rod.Element) bool, interval time.Duration, deadline time.Time) (*rod.Element, bool) {
	if el, ok := findFirst(page, selectors, check); ok {
		return el, true
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, false
		case <-ticker.C:
			if time.Now().After(deadline) {
				return nil, false
			}
			if el, ok := findFirst(page, selectors, check); ok {
				return el, true
			}
		}
	}
}

// usableInput accepts elements that are visible (non-zero box, not hidden
// by style) and not disabled.
func usableInput(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	return !isDisabled(el)
}

func isDisabled(el *rod.Element) bool {
	if attr, err := el.Attribute("disabled"); err == nil && attr != nil {
		return true
	}
	if attr, err := el.Attribute("aria-disabled"); err == nil && attr != nil && *attr == "true" {
		return true
	}
	return false
}

// findInput locates the destination's input control, polling until the
// deadline. Dynamically-rendered editors often appear seconds after load.
func (a *Adapter) findInput(ctx context.Context, deadline time.Time) (*rod.Element, bool) {
	sels := candidates(a.dest.InputLocator, genericInputSelectors)
	logging.Get(logging.CategoryInject).Debug("%s: searching input across %d selectors", a.dest.ID, len(sels))
	return pollForElement(ctx, a.page, sels, usableInput, a.FindInterval, deadline)
}

// findSubmit locates the submit control. Visibility is required but the
// enabled state is not: callers poll for enablement separately, since many
// pages enable the button only after text lands in the input.
func (a *Adapter) findSubmit(ctx context.Context, deadline time.Time) (*rod.Element, bool) {
	sels := candidates(a.dest.SubmitLocator, genericSubmitSelectors)
	visibleOnly := func(el *rod.Element) bool {
		visible, err := el.Visible()
		return err == nil && visible
	}
	return pollForElement(ctx, a.page, sels, visibleOnly, a.FindInterval, deadline)
}
