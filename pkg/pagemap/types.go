// Package pagemap declares pages, views, pieces and components in YAML files kept beside the
// tests, and builds them into live page objects.
package pagemap

import "github.com/devicelab-dev/perspective-pom/pkg/locator"

// Component kinds
const (
	KindComponent = "component"
	KindLabel     = "label"
	KindButton    = "button"
	KindTextField = "textField"
	KindToggle    = "toggle"
	KindCheckbox  = "checkbox"
	KindDropdown  = "dropdown"
	KindDateTime  = "dateTime"
)

// Map is one page map file.
type Map struct {
	Project string     `yaml:"project"`
	Pages   []PageDecl `yaml:"pages"`

	SourcePath string `yaml:"-"`
}

// PageDecl declares a page and the single view it owns.
type PageDecl struct {
	Name       string          `yaml:"name"`
	Path       string          `yaml:"path"`
	View       ViewDecl        `yaml:"view"`
	Pieces     []PieceDecl     `yaml:"pieces"`
	Components []ComponentDecl `yaml:"components"`
	Routes     []RouteDecl     `yaml:"routes"`

	Line int `yaml:"-"`
}

// ViewDecl declares the root of the rendered screen.
type ViewDecl struct {
	ResourcePath     string           `yaml:"resourcePath"`
	Locator          locator.Locator  `yaml:"locator"`
	LoadingIndicator *locator.Locator `yaml:"loadingIndicator"`
}

// PieceDecl declares a reusable region. Pieces nest.
type PieceDecl struct {
	Name       string          `yaml:"name"`
	Locator    locator.Locator `yaml:"locator"`
	Pieces     []PieceDecl     `yaml:"pieces"`
	Components []ComponentDecl `yaml:"components"`
}

// ComponentDecl declares one component wrapper.
type ComponentDecl struct {
	Name        string          `yaml:"name"`
	Kind        string          `yaml:"kind"` // Defaults to component
	Locator     locator.Locator `yaml:"locator"`
	Description string          `yaml:"description"`
	Unverified  bool            `yaml:"unverified"`
}

// RouteDecl declares how a page reaches another page of the same map: by clicking the
// element at Click, located beneath the view.
type RouteDecl struct {
	To    string          `yaml:"to"`
	Click locator.Locator `yaml:"click"`
}

// Page returns the declaration of the named page.
func (m *Map) Page(name string) (*PageDecl, bool) {
	for i := range m.Pages {
		if m.Pages[i].Name == name {
			return &m.Pages[i], true
		}
	}
	return nil, false
}
