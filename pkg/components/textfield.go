package components

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// TextField is a single-line text input. The locator may target the <input> itself
// or a wrapper around it.
type TextField struct {
	*Component
}

// NewTextField binds a text field beneath scope.
func NewTextField(scope interact.Scope, loc locator.Locator, opts ...Option) *TextField {
	return &TextField{Component: New(scope, loc, opts...)}
}

// GetText returns the current value of the field.
func (f *TextField) GetText(ctx context.Context) (string, error) {
	in, err := inputLocator(ctx, f.Component)
	if err != nil {
		return "", err
	}
	return interact.Read(ctx, f, in, readValue)
}

// GetPlaceholderText returns the placeholder shown while the field is empty.
func (f *TextField) GetPlaceholderText(ctx context.Context) (string, error) {
	in, err := inputLocator(ctx, f.Component)
	if err != nil {
		return "", err
	}
	return interact.Read(ctx, f, in, func(ctx context.Context, el core.Element) (string, error) {
		v, _, err := el.Attribute(ctx, "placeholder")
		return v, err
	})
}

// SetText replaces the value the way a user would: focus, clear, type, then release focus.
// The value is verified afterwards unless the field is declared Unverified.
func (f *TextField) SetText(ctx context.Context, text string) error {
	return typeInto(ctx, f.Component, text)
}

// WaitOnText waits for the value to satisfy cond and returns the last value read.
func (f *TextField) WaitOnText(ctx context.Context, cond interact.TextCondition, expected string, opts ...interact.WaitOption) (string, error) {
	in, err := inputLocator(ctx, f.Component)
	if err != nil {
		return "", err
	}
	return interact.WaitOnElement(ctx, f, in, readValue, cond.Satisfied(expected), opts...)
}

// inputLocator returns the locator of the element that holds the value.
func inputLocator(ctx context.Context, c *Component) (locator.Locator, error) {
	tag, err := interact.Read(ctx, c, c.loc, func(ctx context.Context, el core.Element) (string, error) {
		return el.TagName(ctx)
	})
	if err != nil {
		return locator.Locator{}, err
	}
	switch tag {
	case "input", "textarea":
		return c.loc, nil
	default:
		return locator.Tag("input").Within(c.loc), nil
	}
}

func typeInto(ctx context.Context, c *Component, text string) error {
	in, err := inputLocator(ctx, c)
	if err != nil {
		return err
	}
	log := logger.WithFields(logrus.Fields{"locator": in.String(), "verification": c.verification.String()})
	log.Debugf("set text %q", text)

	err = interact.Do(ctx, c, in, func(ctx context.Context, el core.Element) error {
		if err := el.Click(ctx); err != nil {
			return err
		}
		if err := el.Clear(ctx); err != nil {
			return err
		}
		if text != "" {
			if err := el.Type(ctx, text); err != nil {
				return err
			}
		}
		return el.Blur(ctx)
	})
	if err != nil {
		return err
	}
	return interact.Verify(ctx, c, in, c.verification, text, readValue)
}
