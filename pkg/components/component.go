// Package components wraps individual application components behind the interaction contract.
// A Component is bound to one scoped locator and re-resolves it on every call.
package components

import (
	"context"
	"strings"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Option configures a Component.
type Option func(*Component)

// WithVerification declares whether setters can confirm their effect.
func WithVerification(v interact.Verification) Option {
	return func(c *Component) { c.verification = v }
}

// WithDescription names the component in error messages.
func WithDescription(desc string) Option {
	return func(c *Component) { c.loc = c.loc.Describe(desc) }
}

// WithOptions overrides the timing inherited from the parent scope.
func WithOptions(o interact.Options) Option {
	return func(c *Component) { c.opts = c.opts.Merge(o) }
}

// Component is the base wrapper. It satisfies interact.Scope so pieces of a component
// can be located beneath it.
type Component struct {
	scope        interact.Scope
	loc          locator.Locator
	opts         interact.Options
	verification interact.Verification
}

// New binds loc, scoped beneath the root of scope.
func New(scope interact.Scope, loc locator.Locator, opts ...Option) *Component {
	c := &Component{
		scope: scope,
		loc:   interact.Under(scope, loc),
		opts:  scope.Options(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Driver returns the driver of the resolving scope.
func (c *Component) Driver() core.Driver { return c.scope.Driver() }

// Root returns the fully scoped locator.
func (c *Component) Root() locator.Locator { return c.loc }

// Options returns the component's timing.
func (c *Component) Options() interact.Options { return c.opts }

// Locator returns the fully scoped locator.
func (c *Component) Locator() locator.Locator { return c.loc }

// Verification returns the declared setter verification policy.
func (c *Component) Verification() interact.Verification { return c.verification }

// Child returns a component piece located beneath this component.
func (c *Component) Child(loc locator.Locator, opts ...Option) *Component {
	return New(c, loc, opts...)
}

// GetText returns the rendered text.
func (c *Component) GetText(ctx context.Context) (string, error) {
	return interact.Read(ctx, c, c.loc, readText)
}

// GetAttribute returns the named attribute, or "" when it is absent.
func (c *Component) GetAttribute(ctx context.Context, name string) (string, error) {
	return interact.Read(ctx, c, c.loc, func(ctx context.Context, el core.Element) (string, error) {
		v, _, err := el.Attribute(ctx, name)
		return v, err
	})
}

// HasClass reports whether class is one of the element's classes.
func (c *Component) HasClass(ctx context.Context, class string) (bool, error) {
	return interact.Read(ctx, c, c.loc, hasClass(class))
}

// IsPresent reports whether the component is in the document right now. It never waits.
func (c *Component) IsPresent(ctx context.Context) (bool, error) {
	return interact.Present(ctx, c, c.loc)
}

// IsDisplayed reports whether the component is rendered visibly.
func (c *Component) IsDisplayed(ctx context.Context) (bool, error) {
	return interact.Read(ctx, c, c.loc, func(ctx context.Context, el core.Element) (bool, error) {
		return el.IsVisible(ctx)
	})
}

// IsEnabled reports whether the component accepts interaction.
func (c *Component) IsEnabled(ctx context.Context) (bool, error) {
	return interact.Read(ctx, c, c.loc, func(ctx context.Context, el core.Element) (bool, error) {
		return el.IsEnabled(ctx)
	})
}

// Click clicks the component.
func (c *Component) Click(ctx context.Context) error {
	return interact.Do(ctx, c, c.loc, func(ctx context.Context, el core.Element) error {
		return el.Click(ctx)
	})
}

// DoubleClick double-clicks the component.
func (c *Component) DoubleClick(ctx context.Context) error {
	return interact.Do(ctx, c, c.loc, func(ctx context.Context, el core.Element) error {
		return el.DoubleClick(ctx)
	})
}

// RightClick opens the component's context menu.
func (c *Component) RightClick(ctx context.Context) error {
	return interact.Do(ctx, c, c.loc, func(ctx context.Context, el core.Element) error {
		return el.RightClick(ctx)
	})
}

// Hover moves the pointer over the component.
func (c *Component) Hover(ctx context.Context) error {
	return interact.Do(ctx, c, c.loc, func(ctx context.Context, el core.Element) error {
		return el.Hover(ctx)
	})
}

// ScrollIntoView brings the component into the viewport.
func (c *Component) ScrollIntoView(ctx context.Context) error {
	return interact.Do(ctx, c, c.loc, func(ctx context.Context, el core.Element) error {
		return el.ScrollIntoView(ctx)
	})
}

// GetCSSProperty returns the computed value of a CSS property, such as "color".
func (c *Component) GetCSSProperty(ctx context.Context, name string) (string, error) {
	return interact.Read(ctx, c, c.loc, func(ctx context.Context, el core.Element) (string, error) {
		return el.CSSProperty(ctx, name)
	})
}

// Describe returns a snapshot of the element for reports.
func (c *Component) Describe(ctx context.Context) (*core.ElementInfo, error) {
	return interact.Read(ctx, c, c.loc, core.Describe)
}

// WaitOnText waits for the rendered text to satisfy cond and returns the last text read.
func (c *Component) WaitOnText(ctx context.Context, cond interact.TextCondition, expected string, opts ...interact.WaitOption) (string, error) {
	return interact.WaitOnElement(ctx, c, c.loc, readText, cond.Satisfied(expected), opts...)
}

// WaitOnPresent waits until the component's presence equals want.
func (c *Component) WaitOnPresent(ctx context.Context, want bool, opts ...interact.WaitOption) (bool, error) {
	return interact.WaitOnPresent(ctx, c, c.loc, want, opts...)
}

func readText(ctx context.Context, el core.Element) (string, error) {
	return el.Text(ctx)
}

func readValue(ctx context.Context, el core.Element) (string, error) {
	return el.Value(ctx)
}

func hasClass(class string) func(context.Context, core.Element) (bool, error) {
	return func(ctx context.Context, el core.Element) (bool, error) {
		v, _, err := el.Attribute(ctx, "class")
		if err != nil {
			return false, err
		}
		for _, c := range strings.Fields(v) {
			if c == class {
				return true, nil
			}
		}
		return false, nil
	}
}
