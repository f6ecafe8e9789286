package pagemap

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Line    int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

var knownKinds = map[string]bool{
	"":            true,
	KindComponent: true,
	KindLabel:     true,
	KindButton:    true,
	KindTextField: true,
	KindToggle:    true,
	KindCheckbox:  true,
	KindDropdown:  true,
	KindDateTime:  true,
}

// Validate checks a set of page maps before anything is built: names are present and unique,
// component kinds are known, every locator chain can be built into a query, routes lead to
// declared pages, and no two pages share an identifying path.
func Validate(maps ...*Map) []error {
	var errs []error
	paths := make(map[string]string)

	for _, m := range maps {
		v := &mapValidator{m: m}
		names := make(map[string]bool)

		for i := range m.Pages {
			p := &m.Pages[i]
			v.line = p.Line
			if p.Name == "" {
				v.fail("page %d has no name", i+1)
				continue
			}
			if names[p.Name] {
				v.fail("duplicate page %q", p.Name)
			}
			names[p.Name] = true

			path := identifyingPath(m.Project, p.Path)
			if other, ok := paths[path]; ok {
				v.fail("page %q has path %s already used in %s", p.Name, path, other)
			} else {
				paths[path] = m.SourcePath
			}

			if p.View.Locator.IsZero() {
				v.fail("page %q: view has no locator", p.Name)
				continue
			}
			if p.View.ResourcePath == "" {
				v.fail("page %q: view has no resourcePath", p.Name)
			}
			v.locator(p.Name+".view", p.View.Locator)
			v.scope(p.Name, p.View.Locator, p.Pieces, p.Components)
		}

		for i := range m.Pages {
			p := &m.Pages[i]
			v.line = p.Line
			for _, r := range p.Routes {
				if _, ok := m.Page(r.To); !ok {
					v.fail("page %q: route to undeclared page %q", p.Name, r.To)
				}
				if r.To == p.Name {
					v.fail("page %q: route to itself", p.Name)
				}
				if r.Click.IsZero() {
					v.fail("page %q: route to %q has no click locator", p.Name, r.To)
					continue
				}
				v.locator(p.Name+" route to "+r.To, r.Click.Within(p.View.Locator))
			}
		}
		errs = append(errs, v.errs...)
	}
	return errs
}

type mapValidator struct {
	m    *Map
	line int
	errs []error
}

func (v *mapValidator) fail(format string, args ...interface{}) {
	v.errs = append(v.errs, &ValidationError{
		File:    v.m.SourcePath,
		Line:    v.line,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *mapValidator) locator(name string, loc locator.Locator) {
	if _, err := loc.Query(); err != nil {
		v.fail("%s: %v", name, err)
	}
}

func (v *mapValidator) scope(name string, root locator.Locator, pieces []PieceDecl, comps []ComponentDecl) {
	seen := make(map[string]bool)
	child := func(kind, n string) bool {
		if n == "" {
			v.fail("%s: %s without a name", name, kind)
			return false
		}
		if seen[n] {
			v.fail("%s: duplicate name %q", name, n)
		}
		seen[n] = true
		return true
	}

	for _, p := range pieces {
		if !child("piece", p.Name) {
			continue
		}
		full := name + "." + p.Name
		if p.Locator.IsZero() {
			v.fail("%s: piece has no locator", full)
			continue
		}
		loc := p.Locator.Within(root)
		v.locator(full, loc)
		v.scope(full, loc, p.Pieces, p.Components)
	}

	for _, c := range comps {
		if !child("component", c.Name) {
			continue
		}
		full := name + "." + c.Name
		if !knownKinds[c.Kind] {
			v.fail("%s: unknown kind %q", full, c.Kind)
		}
		if c.Locator.IsZero() {
			v.fail("%s: component has no locator", full)
			continue
		}
		v.locator(full, c.Locator.Within(root))
	}
}

// identifyingPath mirrors page.Page.Path for pages that are not built yet.
func identifyingPath(project, path string) string {
	project = strings.Trim(project, "/")
	path = strings.Trim(path, "/")
	if path == "" {
		return "/" + project
	}
	return "/" + project + "/" + path
}
