// Package interact implements the interaction contract shared by every page object:
// bounded location for getters, queries and setters, bounded polling for waiters,
// and post-mutation verification for setters.
package interact

import (
	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Scope is anything children can be located beneath: a session, a piece, a view or a component.
type Scope interface {
	Driver() core.Driver
	Root() locator.Locator
	Options() Options
}

// Under scopes loc beneath the root of scope.
func Under(scope Scope, loc locator.Locator) locator.Locator {
	return loc.Within(scope.Root())
}
