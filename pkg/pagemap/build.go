package pagemap

import (
	"context"
	"errors"
	"fmt"

	"github.com/devicelab-dev/perspective-pom/pkg/components"
	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/page"
)

// Target is one built view, piece or component that a check resolves.
type Target struct {
	Name  string // Dotted path: Home.filter.search
	Kind  string // view, piece, or a component kind
	Scope interact.Scope
}

// Locator returns the fully scoped locator of the target.
func (t Target) Locator() locator.Locator { return t.Scope.Root() }

// Page is a built page. Its view, pieces and components are listed as Targets, view first.
type Page struct {
	*page.Page[*page.View]
	Name    string
	Targets []Target

	components map[string]interact.Scope
}

// Component returns the built component at the dotted path beneath the view, such as
// "filter.search".
func (p *Page) Component(name string) (interact.Scope, bool) {
	c, ok := p.components[name]
	return c, ok
}

// Site is the set of pages built from one or more page maps in a single session.
type Site struct {
	session *page.Session
	pages   []*Page
	byName  map[string]*Page
}

// Pages returns the built pages in declaration order.
func (s *Site) Pages() []*Page { return s.pages }

// Page returns the page named "<project>/<name>" or, when the name is unique, "<name>".
func (s *Site) Page(name string) (*Page, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Session returns the session every page was built in.
func (s *Site) Session() *page.Session { return s.session }

// Navigate follows the route declared from one page to another.
func (s *Site) Navigate(ctx context.Context, from, to string, opts ...interact.WaitOption) error {
	src, ok := s.Page(from)
	if !ok {
		return fmt.Errorf("unknown page %q", from)
	}
	dest, ok := s.Page(to)
	if !ok {
		return fmt.Errorf("unknown page %q", to)
	}
	return src.NavigateTo(ctx, dest, opts...)
}

type factory func(scope interact.Scope, loc locator.Locator, opts ...components.Option) interact.Scope

var factories = map[string]factory{
	KindComponent: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.New(s, l, o...)
	},
	KindLabel: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewLabel(s, l, o...)
	},
	KindButton: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewButton(s, l, o...)
	},
	KindTextField: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewTextField(s, l, o...)
	},
	KindToggle: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewToggleSwitch(s, l, o...)
	},
	KindCheckbox: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewCheckbox(s, l, o...)
	},
	KindDropdown: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewDropdown(s, l, o...)
	},
	KindDateTime: func(s interact.Scope, l locator.Locator, o ...components.Option) interact.Scope {
		return components.NewDateTimeInput(s, l, o...)
	},
}

// Build validates the maps and builds every page beneath session, then registers the
// declared routes.
func Build(session *page.Session, maps ...*Map) (*Site, error) {
	if errs := Validate(maps...); len(errs) > 0 {
		return nil, core.ErrInvalidConfig.WithMessage("invalid page map").WithCause(errors.Join(errs...))
	}

	site := &Site{session: session, byName: make(map[string]*Page)}
	counts := make(map[string]int)
	for _, m := range maps {
		for _, d := range m.Pages {
			counts[d.Name]++
		}
	}

	for _, m := range maps {
		built := make(map[string]*Page, len(m.Pages))
		for i := range m.Pages {
			p := buildPage(session, m.Project, &m.Pages[i])
			built[p.Name] = p
			site.pages = append(site.pages, p)
			site.byName[p.Project()+"/"+p.Name] = p
			if counts[p.Name] == 1 {
				site.byName[p.Name] = p
			}
		}

		for i := range m.Pages {
			d := &m.Pages[i]
			src := built[d.Name]
			for _, r := range d.Routes {
				link := components.NewButton(src.View(), r.Click, components.WithDescription("route to "+r.To))
				src.Route(built[r.To], link.Click)
			}
		}
	}
	return site, nil
}

func buildPage(session *page.Session, project string, d *PageDecl) *Page {
	var opts []page.PieceOption
	if d.View.LoadingIndicator != nil {
		opts = append(opts, page.WithLoadingIndicator(*d.View.LoadingIndicator))
	}
	pg := page.New(session, project, d.Path, func(parent interact.Scope) *page.View {
		return page.NewView(parent, d.View.Locator, d.View.ResourcePath, opts...)
	})

	p := &Page{
		Page:       pg,
		Name:       d.Name,
		components: make(map[string]interact.Scope),
	}
	p.Targets = append(p.Targets, Target{Name: d.Name, Kind: "view", Scope: pg.View()})
	p.addChildren(pg.View(), d.Name, "", d.Pieces, d.Components)
	return p
}

func (p *Page) addChildren(parent interact.Scope, name, rel string, pieces []PieceDecl, comps []ComponentDecl) {
	for _, d := range pieces {
		piece := page.NewPiece(parent, d.Name, d.Locator)
		p.Targets = append(p.Targets, Target{Name: name + "." + d.Name, Kind: "piece", Scope: piece})
		p.addChildren(piece, name+"."+d.Name, join(rel, d.Name), d.Pieces, d.Components)
	}
	for _, d := range comps {
		var opts []components.Option
		if d.Description != "" {
			opts = append(opts, components.WithDescription(d.Description))
		}
		if d.Unverified {
			opts = append(opts, components.WithVerification(interact.Unverified))
		}
		kind := d.Kind
		if kind == "" {
			kind = KindComponent
		}
		c := factories[kind](parent, d.Locator, opts...)
		p.Targets = append(p.Targets, Target{Name: name + "." + d.Name, Kind: kind, Scope: c})
		p.components[join(rel, d.Name)] = c
	}
}

func join(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "." + name
}
