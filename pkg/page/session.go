// Package page composes components into reusable pieces, views and pages.
//
// A Session is the root scope. Pieces are located beneath a parent scope, a View is
// the piece representing one rendered screen, and a Page owns exactly one View and
// knows how to reach other pages through the application's own navigation.
package page

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Session is the document of one browser tab.
type Session struct {
	driver core.Driver
	opts   interact.Options
}

// NewSession binds a driver. Unset timing fields take their defaults.
func NewSession(driver core.Driver, opts interact.Options) *Session {
	return &Session{
		driver: driver,
		opts:   interact.DefaultOptions().Merge(opts),
	}
}

// Driver returns the session driver.
func (s *Session) Driver() core.Driver { return s.driver }

// Root returns the zero locator: the document itself.
func (s *Session) Root() locator.Locator { return locator.Locator{} }

// Options returns the session-wide timing.
func (s *Session) Options() interact.Options { return s.opts }

// Screenshot captures the current page.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	return s.driver.Screenshot(ctx)
}
