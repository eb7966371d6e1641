package inject

import (
	"fmt"

	"github.com/go-rod/rod"
)

// Kind tags the widget implementation behind a destination's input.
type Kind string

const (
	KindTextControl Kind = "text-control" // textarea / input
	KindQuill       Kind = "quill"        // Quill-style editor
	KindEditable    Kind = "editable"     // generic contenteditable (ProseMirror etc.)
	KindUnknown     Kind = "unknown"
)

// strategy writes text into one widget implementation. Detect inspects the
// element's capabilities; Write must leave the page's framework state as if
// the user had typed.
type strategy interface {
	Kind() Kind
	Detect(el *rod.Element) bool
	Write(el *rod.Element, text string) error
}

// Order matters: Quill editors are contenteditable too, so the more
// specific check runs first.
var strategies = []strategy{
	textControlStrategy{},
	quillStrategy{},
	editableStrategy{},
}

// writeQuery dispatches to the first strategy whose Detect accepts the
// element, falling back to a best-effort generic write.
func writeQuery(el *rod.Element, text string) (Kind, error) {
	for _, s := range strategies {
		if s.Detect(el) {
			return s.Kind(), s.Write(el, text)
		}
	}
	return KindUnknown, fallbackWrite(el, text)
}

func evalBool(el *rod.Element, js string) bool {
	res, err := el.Eval(js)
	if err != nil || res == nil {
		return false
	}
	return res.Value.Bool()
}

// textControlStrategy handles plain form controls. The value is assigned
// through the prototype setter because frameworks that shadow .value (React
// value tracking) ignore direct assignment, then input/change events make
// listeners commit the new state as if it were typed.
type textControlStrategy struct{}

func (textControlStrategy) Kind() Kind { return KindTextControl }

func (textControlStrategy) Detect(el *rod.Element) bool {
	return evalBool(el, `() => this.tagName === 'TEXTAREA' || this.tagName === 'INPUT'`)
}

func (textControlStrategy) Write(el *rod.Element, text string) error {
	_, err := el.Eval(`(text) => {
		const proto = this.tagName === 'TEXTAREA'
			? window.HTMLTextAreaElement.prototype
			: window.HTMLInputElement.prototype;
		const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
		setter.call(this, text);
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`, text)
	if err != nil {
		return fmt.Errorf("text control write: %w", err)
	}
	return nil
}

// quillStrategy handles Quill editors, which expect their content as block
// elements rather than bare text nodes.
type quillStrategy struct{}

func (quillStrategy) Kind() Kind { return KindQuill }

func (quillStrategy) Detect(el *rod.Element) bool {
	return evalBool(el, `() => this.classList.contains('ql-editor')`)
}

func (quillStrategy) Write(el *rod.Element, text string) error {
	_, err := el.Eval(`(text) => {
		const block = document.createElement('p');
		block.textContent = text;
		this.innerHTML = '';
		this.appendChild(block);
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`, text)
	if err != nil {
		return fmt.Errorf("quill write: %w", err)
	}
	return nil
}

// editableStrategy handles contenteditable editors. It prefers the
// platform's native insertText command; when that is unavailable or the
// editor swallows it, it replays the beforeinput/input sequence a real
// keystroke would produce, because ProseMirror-style editors only commit
// state from those events, not from raw content mutation.
type editableStrategy struct{}

func (editableStrategy) Kind() Kind { return KindEditable }

func (editableStrategy) Detect(el *rod.Element) bool {
	return evalBool(el, `() => this.isContentEditable === true`)
}

func (editableStrategy) Write(el *rod.Element, text string) error {
	_, err := el.Eval(`(text) => {
		this.focus();
		const sel = window.getSelection();
		sel.removeAllRanges();
		const range = document.createRange();
		range.selectNodeContents(this);
		sel.addRange(range);

		let inserted = false;
		try {
			inserted = document.execCommand('insertText', false, text);
		} catch (e) {
			inserted = false;
		}

		if (!inserted || this.innerText.trim() !== text.trim()) {
			this.dispatchEvent(new InputEvent('beforeinput', {
				bubbles: true, cancelable: true, inputType: 'deleteContentBackward'
			}));
			this.textContent = '';
			this.dispatchEvent(new InputEvent('input', {
				bubbles: true, inputType: 'deleteContentBackward'
			}));
			this.dispatchEvent(new InputEvent('beforeinput', {
				bubbles: true, cancelable: true, inputType: 'insertText', data: text
			}));
			this.textContent = text;
			this.dispatchEvent(new InputEvent('input', {
				bubbles: true, inputType: 'insertText', data: text
			}));
		}
	}`, text)
	if err != nil {
		return fmt.Errorf("contenteditable write: %w", err)
	}
	return nil
}

// fallbackWrite is the last resort for unrecognized widgets.
func fallbackWrite(el *rod.Element, text string) error {
	_, err := el.Eval(`(text) => {
		this.textContent = text;
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`, text)
	if err != nil {
		return fmt.Errorf("fallback write: %w", err)
	}
	return nil
}
