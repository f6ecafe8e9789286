package playwright

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Element wraps a Playwright element handle. Handles are bound to one DOM node, so a
// re-render that replaces the node makes every call return core.ErrStaleElement.
type Element struct {
	handle playwright.ElementHandle
	loc    locator.Locator
}

// Click clicks the element once it is visible, stable and enabled.
func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.Click(playwright.ElementHandleClickOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// Type sends keystrokes to the focused element.
func (e *Element) Type(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.Type(text, playwright.ElementHandleTypeOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// Clear empties an input, textarea or contenteditable element.
func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.Fill("", playwright.ElementHandleFillOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// Blur releases focus.
func (e *Element) Blur(ctx context.Context) error {
	_, err := e.eval(ctx, "el => el.blur()")
	return err
}

// Hover moves the mouse over the element.
func (e *Element) Hover(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.Hover(playwright.ElementHandleHoverOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// DoubleClick double-clicks the element.
func (e *Element) DoubleClick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.Dblclick(playwright.ElementHandleDblclickOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// RightClick clicks the element with the right mouse button.
func (e *Element) RightClick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.Click(playwright.ElementHandleClickOptions{
		Button:  playwright.MouseButtonRight,
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// ScrollIntoView scrolls the element into the viewport unless it is already visible.
func (e *Element) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.handle.ScrollIntoViewIfNeeded(playwright.ElementHandleScrollIntoViewIfNeededOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	}), e.loc)
}

// Text returns the rendered text with whitespace collapsed.
func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.handle.InnerText()
	if err != nil {
		return "", mapError(err, e.loc)
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// Value returns the current value of a form control.
func (e *Element) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.handle.InputValue(playwright.ElementHandleInputValueOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	})
	return v, mapError(err, e.loc)
}

// Attribute returns the named attribute and whether it is present.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.eval(ctx, "(el, name) => el.getAttribute(name)", name)
	if err != nil || v == nil {
		return "", false, err
	}
	return fmt.Sprint(v), true, nil
}

// TagName returns the lower-case tag name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	v, err := e.eval(ctx, "el => el.tagName.toLowerCase()")
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// IsVisible reports whether the element is rendered visibly.
func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v, err := e.handle.IsVisible()
	return v, mapError(err, e.loc)
}

// IsEnabled reports whether the element accepts interaction.
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v, err := e.handle.IsEnabled()
	return v, mapError(err, e.loc)
}

// CSSProperty returns the computed value of the named property.
func (e *Element) CSSProperty(ctx context.Context, name string) (string, error) {
	v, err := e.eval(ctx, "(el, name) => window.getComputedStyle(el).getPropertyValue(name)", name)
	if err != nil || v == nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func (e *Element) eval(ctx context.Context, expr string, arg ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := e.handle.Evaluate(expr, arg...)
	return v, mapError(err, e.loc)
}
