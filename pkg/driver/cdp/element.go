package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// staleMarker is thrown by page-side functions called on a node no longer in the document.
const staleMarker = "pom: stale element"

// Element is one DOM node of the tab.
type Element struct {
	d    *Driver
	node *cdp.Node
	loc  locator.Locator
}

// Click moves the mouse to the element and clicks it. Hidden or disabled elements
// return core.ErrNotInteractable.
func (e *Element) Click(ctx context.Context) error {
	if err := e.interactable(ctx); err != nil {
		return err
	}
	return e.run(ctx, chromedp.MouseClickNode(e.node))
}

// Hover scrolls the element into view and moves the mouse to its centre.
func (e *Element) Hover(ctx context.Context) error {
	if err := e.interactable(ctx); err != nil {
		return err
	}
	return e.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.ScrollIntoViewIfNeeded().WithBackendNodeID(e.node.BackendNodeID).Do(ctx); err != nil {
			return err
		}
		box, err := dom.GetBoxModel().WithBackendNodeID(e.node.BackendNodeID).Do(ctx)
		if err != nil {
			return err
		}
		x, y := quadCenter(box.Content)
		return chromedp.MouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
}

// DoubleClick clicks the element twice in quick succession.
func (e *Element) DoubleClick(ctx context.Context) error {
	if err := e.interactable(ctx); err != nil {
		return err
	}
	return e.run(ctx, chromedp.MouseClickNode(e.node, chromedp.ClickCount(2)))
}

// RightClick clicks the element with the right mouse button.
func (e *Element) RightClick(ctx context.Context) error {
	if err := e.interactable(ctx); err != nil {
		return err
	}
	return e.run(ctx, chromedp.MouseClickNode(e.node, chromedp.ButtonRight))
}

// ScrollIntoView scrolls the element into the viewport unless it is already visible.
func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.call(ctx, `function() {
		if (this.scrollIntoViewIfNeeded) this.scrollIntoViewIfNeeded(true);
		else this.scrollIntoView({block: "center", inline: "nearest"});
	}`, nil)
}

// Type focuses the element and sends keystrokes.
func (e *Element) Type(ctx context.Context, text string) error {
	if err := e.interactable(ctx); err != nil {
		return err
	}
	return e.run(ctx, chromedp.KeyEventNode(e.node, text))
}

// Clear empties an input or textarea and notifies listeners.
func (e *Element) Clear(ctx context.Context) error {
	return e.call(ctx, `function() {
		this.value = "";
		this.dispatchEvent(new Event("input", {bubbles: true}));
		this.dispatchEvent(new Event("change", {bubbles: true}));
	}`, nil)
}

// Blur releases focus.
func (e *Element) Blur(ctx context.Context) error {
	return e.call(ctx, `function() { this.blur(); }`, nil)
}

// Text returns the rendered text with whitespace collapsed.
func (e *Element) Text(ctx context.Context) (string, error) {
	var s string
	err := e.call(ctx, `function() { return (this.innerText || this.textContent || "").replace(/\s+/g, " ").trim(); }`, &s)
	return s, err
}

// Value returns the current value of a form control.
func (e *Element) Value(ctx context.Context) (string, error) {
	var s string
	err := e.call(ctx, `function() { return this.value === undefined ? "" : String(this.value); }`, &s)
	return s, err
}

// Attribute returns the named attribute and whether it is present.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	arg, err := json.Marshal(name)
	if err != nil {
		return "", false, err
	}
	var v *string
	if err := e.call(ctx, fmt.Sprintf(`function() { return this.getAttribute(%s); }`, arg), &v); err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// TagName returns the lower-case tag name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	var s string
	err := e.call(ctx, `function() { return this.tagName.toLowerCase(); }`, &s)
	return s, err
}

// IsVisible reports whether the element has a box and is not hidden by style.
func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	var v bool
	err := e.call(ctx, isVisibleFn, &v)
	return v, err
}

// IsEnabled reports whether the element is not disabled.
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	var v bool
	err := e.call(ctx, `function() { return !this.disabled && !this.closest("fieldset[disabled]"); }`, &v)
	return v, err
}

// CSSProperty returns the computed value of the named property.
func (e *Element) CSSProperty(ctx context.Context, name string) (string, error) {
	arg, err := json.Marshal(name)
	if err != nil {
		return "", err
	}
	var v string
	err = e.call(ctx, fmt.Sprintf(`function() { return window.getComputedStyle(this).getPropertyValue(%s); }`, arg), &v)
	return v, err
}

// quadCenter returns the centre of a quad of four (x, y) points.
func quadCenter(q dom.Quad) (float64, float64) {
	var x, y float64
	n := len(q) / 2
	if n == 0 {
		return 0, 0
	}
	for i := 0; i < n; i++ {
		x += q[2*i]
		y += q[2*i+1]
	}
	return x / float64(n), y / float64(n)
}

const isVisibleFn = `function() {
	const style = window.getComputedStyle(this);
	if (style.visibility === "hidden" || style.display === "none") return false;
	const rect = this.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
}`

func (e *Element) interactable(ctx context.Context) error {
	var ok bool
	if err := e.call(ctx, `function() {
		const style = window.getComputedStyle(this);
		const rect = this.getBoundingClientRect();
		return style.visibility !== "hidden" && style.display !== "none" &&
			rect.width > 0 && rect.height > 0 && !this.disabled;
	}`, &ok); err != nil {
		return err
	}
	if !ok {
		return core.ErrNotInteractable.WithLocator(e.loc)
	}
	return nil
}

func (e *Element) run(ctx context.Context, actions ...chromedp.Action) error {
	rctx, cancel := mergeContext(e.d.ctx, ctx, DefaultActionTimeout)
	defer cancel()
	if err := chromedp.Run(rctx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return mapError(err, e.loc)
	}
	return nil
}

// call runs fn with this bound to the element and decodes its return value into out.
// fn throws staleMarker when the node has left the document.
func (e *Element) call(ctx context.Context, fn string, out interface{}) error {
	return e.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithBackendNodeID(e.node.BackendNodeID).Do(ctx)
		if err != nil {
			return err
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

		res, exc, err := runtime.CallFunctionOn(guarded(fn)).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exceptionError(exc)
		}
		if out == nil || res == nil || len(res.Value) == 0 {
			return nil
		}
		return json.Unmarshal(res.Value, out)
	}))
}

func guarded(fn string) string {
	return fmt.Sprintf(`function() {
	if (!this.isConnected) throw new Error(%q);
	return (%s).apply(this, arguments);
}`, staleMarker, fn)
}

func exceptionError(exc *runtime.ExceptionDetails) error {
	if exc.Exception != nil && exc.Exception.Description != "" {
		return errors.New(exc.Exception.Description)
	}
	return errors.New(exc.Text)
}
