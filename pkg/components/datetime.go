package components

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// DateTimeInput is a date/time entry field. The application reformats whatever is typed,
// so setters are declared Unverified unless an option says otherwise.
type DateTimeInput struct {
	*Component
}

// NewDateTimeInput binds a date/time input beneath scope.
func NewDateTimeInput(scope interact.Scope, loc locator.Locator, opts ...Option) *DateTimeInput {
	opts = append([]Option{WithVerification(interact.Unverified)}, opts...)
	return &DateTimeInput{Component: New(scope, loc, opts...)}
}

// GetValue returns the value as the application currently renders it.
func (d *DateTimeInput) GetValue(ctx context.Context) (string, error) {
	in, err := inputLocator(ctx, d.Component)
	if err != nil {
		return "", err
	}
	return interact.Read(ctx, d, in, readValue)
}

// SetValue types value into the input and releases focus.
func (d *DateTimeInput) SetValue(ctx context.Context, value string) error {
	return typeInto(ctx, d.Component, value)
}

// WaitOnValue waits for the value to satisfy cond and returns the last value read.
func (d *DateTimeInput) WaitOnValue(ctx context.Context, cond interact.TextCondition, expected string, opts ...interact.WaitOption) (string, error) {
	in, err := inputLocator(ctx, d.Component)
	if err != nil {
		return "", err
	}
	return interact.WaitOnElement(ctx, d, in, readValue, cond.Satisfied(expected), opts...)
}
