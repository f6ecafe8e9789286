package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// Viewer is satisfied by *View and by project views embedding it.
type Viewer interface {
	interact.Scope
	IsPresent(ctx context.Context) (bool, error)
	WaitOnPresent(ctx context.Context, want bool, opts ...interact.WaitOption) (bool, error)
	ResourcePath() string
}

// Destination is anything a route can lead to, identified by its path.
type Destination interface {
	Path() string
}

// currentWaiter is implemented by destinations that can report arriving.
type currentWaiter interface {
	WaitOnCurrent(ctx context.Context, opts ...interact.WaitOption) (bool, error)
}

// Page is bound to one browsable resource and owns exactly one View.
//
// Project pages embed both *Page[V] and V so the view's operations are callable on
// the page while the view stays usable on its own:
//
//	type HomePage struct {
//		*page.Page[*HomeView]
//		*HomeView
//	}
//
// A page reaches other pages only through routes registered on it; it never loads a URL.
type Page[V Viewer] struct {
	session *Session
	project string
	path    string
	view    V
	routes  map[string]func(context.Context) error
}

// New builds the page and its view. newView is called once, beneath the session.
func New[V Viewer](session *Session, project, path string, newView func(interact.Scope) V) *Page[V] {
	return &Page[V]{
		session: session,
		project: strings.Trim(project, "/"),
		path:    strings.Trim(path, "/"),
		view:    newView(session),
		routes:  make(map[string]func(context.Context) error),
	}
}

// Path returns the identifying path /<project>/<path>. It is used for identification and logging only.
func (p *Page[V]) Path() string {
	if p.path == "" {
		return "/" + p.project
	}
	return "/" + p.project + "/" + p.path
}

// Project returns the project name.
func (p *Page[V]) Project() string { return p.project }

// Session returns the session the page was built in.
func (p *Page[V]) Session() *Session { return p.session }

// View returns the page's view.
func (p *Page[V]) View() V { return p.view }

// IsCurrent reports whether the view is the rendered screen right now.
func (p *Page[V]) IsCurrent(ctx context.Context) (bool, error) {
	return p.view.IsPresent(ctx)
}

// WaitOnCurrent waits for the view to be rendered and reports whether it was.
func (p *Page[V]) WaitOnCurrent(ctx context.Context, opts ...interact.WaitOption) (bool, error) {
	return p.view.WaitOnPresent(ctx, true, opts...)
}

// Route registers how this page reaches dest: via performs the in-application
// interaction a user would use, such as clicking a menu item.
func (p *Page[V]) Route(dest Destination, via func(context.Context) error) {
	p.routes[dest.Path()] = via
}

// HasRoute reports whether a route to dest is registered.
func (p *Page[V]) HasRoute(dest Destination) bool {
	_, ok := p.routes[dest.Path()]
	return ok
}

// NavigateTo follows the registered route to dest. When dest can report arriving,
// NavigateTo waits for it and fails with ErrNavigationIncomplete if it never appears.
func (p *Page[V]) NavigateTo(ctx context.Context, dest Destination, opts ...interact.WaitOption) error {
	via, ok := p.routes[dest.Path()]
	if !ok {
		return core.ErrRouteUndefined.WithMessage(fmt.Sprintf("no route from %s to %s", p.Path(), dest.Path()))
	}

	log := logger.WithFields(logrus.Fields{"from": p.Path(), "to": dest.Path()})
	log.Info("navigating")
	if err := via(ctx); err != nil {
		return fmt.Errorf("navigate from %s to %s: %w", p.Path(), dest.Path(), err)
	}

	w, ok := dest.(currentWaiter)
	if !ok {
		return nil
	}
	current, err := w.WaitOnCurrent(ctx, opts...)
	if err != nil {
		return fmt.Errorf("navigate from %s to %s: %w", p.Path(), dest.Path(), err)
	}
	if !current {
		log.Warn("destination did not appear")
		return core.ErrNavigationIncomplete.WithMessage(fmt.Sprintf("%s did not appear after navigating from %s", dest.Path(), p.Path()))
	}
	log.Debug("arrived")
	return nil
}
