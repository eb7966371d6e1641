package inject

import (
	"context"
	"errors"
	"time"

	"promptfan/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// submit triggers the destination's send action. Preference order: click
// the submit control once it reports enabled; synthesize an Enter key
// sequence at the input; click the control anyway. The last path returns
// confirmed=false because nothing observed says it worked.
func (a *Adapter) submit(ctx context.Context, deadline time.Time) (confirmed bool, err error) {
	button, found := a.findSubmit(ctx, deadline)
	if !found && a.input == nil {
		return false, errors.New("submit control not found and no input to key into")
	}

	if found {
		if a.waitEnabled(ctx, button) {
			if err := button.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return false, err
			}
			return true, nil
		}
		logging.InjectWarn("%s: submit control never enabled", a.dest.ID)
	}

	if a.input != nil {
		if err := pressEnter(a.input); err == nil {
			return true, nil
		}
		logging.InjectWarn("%s: synthetic enter failed", a.dest.ID)
	}

	if found {
		// Last resort: some pages accept the click despite reporting
		// disabled through stale attributes.
		if err := button.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return false, err
		}
		return false, nil
	}
	return false, errors.New("no submission path available")
}

// waitEnabled polls the control's disabled state for a bounded number of
// attempts. Pages enable the send button asynchronously after the input
// event settles.
func (a *Adapter) waitEnabled(ctx context.Context, el *rod.Element) bool {
	for i := 0; i < a.SubmitRetries; i++ {
		if !isDisabled(el) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(a.SubmitDelay):
		}
	}
	return !isDisabled(el)
}

// pressEnter replays the keydown/keypress/keyup sequence of a real Enter
// press at the element.
func pressEnter(el *rod.Element) error {
	_, err := el.Eval(`() => {
		const opts = {
			bubbles: true, cancelable: true,
			key: 'Enter', code: 'Enter', keyCode: 13, which: 13
		};
		this.dispatchEvent(new KeyboardEvent('keydown', opts));
		this.dispatchEvent(new KeyboardEvent('keypress', opts));
		this.dispatchEvent(new KeyboardEvent('keyup', opts));
	}`)
	return err
}
