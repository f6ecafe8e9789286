package components

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

const (
	toggleThumbSelector = "div.ia_toggleSwitch__thumb"
	toggleSelectedClass = "ia_toggleSwitch__thumb--selected"
	toggleDisabledClass = "ia_toggleSwitch__thumb--disabled"
)

// ToggleSwitch is a two-state switch. Its state is carried by the class of the thumb.
type ToggleSwitch struct {
	*Component
	thumb *Component
}

// NewToggleSwitch binds a toggle switch beneath scope.
func NewToggleSwitch(scope interact.Scope, loc locator.Locator, opts ...Option) *ToggleSwitch {
	c := New(scope, loc, opts...)
	return &ToggleSwitch{
		Component: c,
		thumb:     c.Child(locator.CSS(toggleThumbSelector).Describe("toggle thumb")),
	}
}

// IsSelected reports whether the switch is on.
func (s *ToggleSwitch) IsSelected(ctx context.Context) (bool, error) {
	return s.thumb.HasClass(ctx, toggleSelectedClass)
}

// IsEnabled reports whether the switch accepts clicks.
func (s *ToggleSwitch) IsEnabled(ctx context.Context) (bool, error) {
	disabled, err := s.thumb.HasClass(ctx, toggleDisabledClass)
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

// SetSelected switches to want, clicking only when the current state differs.
func (s *ToggleSwitch) SetSelected(ctx context.Context, want bool) error {
	current, err := s.IsSelected(ctx)
	if err != nil {
		return err
	}
	if current != want {
		logger.Debug("toggle %s: %v -> %v", s.loc, current, want)
		if err := s.Click(ctx); err != nil {
			return err
		}
	}
	return interact.Verify(ctx, s, s.thumb.loc, s.verification, want, hasClass(toggleSelectedClass))
}

// WaitOnSelected waits for the switch to reach want and returns the last state read.
func (s *ToggleSwitch) WaitOnSelected(ctx context.Context, want bool, opts ...interact.WaitOption) (bool, error) {
	return interact.WaitOnElement(ctx, s, s.thumb.loc, hasClass(toggleSelectedClass), func(v bool) bool {
		return v == want
	}, opts...)
}
