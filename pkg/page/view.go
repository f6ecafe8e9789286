package page

import (
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// View is the piece representing one rendered screen. It only reports on and
// manipulates its own content; it cannot navigate.
type View struct {
	*Piece
	resourcePath string
}

// NewView builds a view rooted at loc beneath parent.
func NewView(parent interact.Scope, loc locator.Locator, resourcePath string, opts ...PieceOption) *View {
	return &View{
		Piece:        NewPiece(parent, resourcePath, loc, opts...),
		resourcePath: resourcePath,
	}
}

// ResourcePath returns the project resource path of the view, such as "Main/Home".
func (v *View) ResourcePath() string { return v.resourcePath }
