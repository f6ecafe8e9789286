package components

import (
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Label is a read-only text display.
type Label struct {
	*Component
}

// NewLabel binds a label beneath scope.
func NewLabel(scope interact.Scope, loc locator.Locator, opts ...Option) *Label {
	return &Label{Component: New(scope, loc, opts...)}
}
