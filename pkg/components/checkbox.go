package components

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

const (
	checkboxClickTargetSelector = "label.ia_checkbox"
	checkboxLabelSelector       = "label.checkbox-input-label"
	checkboxDisabledClass       = "ia_checkbox--disabled"
)

// CheckState is the state shown by a checkbox icon.
type CheckState int

// Checkbox states
const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

// String returns the icon data-state value.
func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Checkbox is a two- or three-state checkbox. The state is carried by the data-state of its icon.
type Checkbox struct {
	*Component
	target *Component
	label  *Component
	icon   *Component
}

// NewCheckbox binds a checkbox beneath scope.
func NewCheckbox(scope interact.Scope, loc locator.Locator, opts ...Option) *Checkbox {
	c := New(scope, loc, opts...)
	return &Checkbox{
		Component: c,
		target:    c.Child(locator.CSS(checkboxClickTargetSelector).Describe("checkbox click target")),
		label:     c.Child(locator.CSS(checkboxLabelSelector).Describe("checkbox label")),
		icon:      c.Child(locator.Tag("svg").Describe("checkbox icon")),
	}
}

// GetState returns the current state.
func (c *Checkbox) GetState(ctx context.Context) (CheckState, error) {
	return interact.Read(ctx, c, c.icon.loc, readCheckState)
}

// IsChecked reports whether the checkbox is checked. Indeterminate is not checked.
func (c *Checkbox) IsChecked(ctx context.Context) (bool, error) {
	s, err := c.GetState(ctx)
	return s == Checked, err
}

// IsIndeterminate reports whether the checkbox shows the tri-state mark.
func (c *Checkbox) IsIndeterminate(ctx context.Context) (bool, error) {
	s, err := c.GetState(ctx)
	return s == Indeterminate, err
}

// IsEnabled reports whether the checkbox accepts clicks.
func (c *Checkbox) IsEnabled(ctx context.Context) (bool, error) {
	disabled, err := c.target.HasClass(ctx, checkboxDisabledClass)
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

// GetLabelText returns the text beside the checkbox.
func (c *Checkbox) GetLabelText(ctx context.Context) (string, error) {
	return c.label.GetText(ctx)
}

// Click clicks the checkbox's click target.
func (c *Checkbox) Click(ctx context.Context) error {
	return c.target.Click(ctx)
}

// SetChecked checks or unchecks the box, clicking only while the state differs.
// After each click the state is given up to VerifyTimeout to leave the value it had
// before the click, so a slow re-render is not answered with a second click.
// A tri-state box can take two clicks to leave the indeterminate state.
func (c *Checkbox) SetChecked(ctx context.Context, want bool) error {
	target := Unchecked
	if want {
		target = Checked
	}
	s, err := c.GetState(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < 2 && s != target; i++ {
		logger.Debug("checkbox %s: %s -> %s", c.loc, s, target)
		if err := c.Click(ctx); err != nil {
			return err
		}
		before := s
		s, err = interact.WaitOnElement(ctx, c, c.icon.loc, readCheckState, func(v CheckState) bool {
			return v != before
		}, c.opts.SettleTimeout())
		if err != nil {
			return err
		}
	}
	return interact.Verify(ctx, c, c.icon.loc, c.verification, target, readCheckState)
}

// WaitOnChecked waits for the checked state to equal want and returns the last state read.
func (c *Checkbox) WaitOnChecked(ctx context.Context, want bool, opts ...interact.WaitOption) (bool, error) {
	s, err := interact.WaitOnElement(ctx, c, c.icon.loc, readCheckState, func(s CheckState) bool {
		return (s == Checked) == want
	}, opts...)
	return s == Checked, err
}

func readCheckState(ctx context.Context, el core.Element) (CheckState, error) {
	v, _, err := el.Attribute(ctx, "data-state")
	if err != nil {
		return Unchecked, err
	}
	switch v {
	case "checked":
		return Checked, nil
	case "indeterminate":
		return Indeterminate, nil
	default:
		return Unchecked, nil
	}
}
