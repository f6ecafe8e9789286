package components

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

const buttonPrimaryClass = "ia_button--primary"

// Button is a clickable action.
type Button struct {
	*Component
}

// NewButton binds a button beneath scope.
func NewButton(scope interact.Scope, loc locator.Locator, opts ...Option) *Button {
	return &Button{Component: New(scope, loc, opts...)}
}

// IsPrimary reports whether the button is styled as the primary action.
func (b *Button) IsPrimary(ctx context.Context) (bool, error) {
	return b.HasClass(ctx, buttonPrimaryClass)
}
