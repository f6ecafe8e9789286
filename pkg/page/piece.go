package page

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// DefaultLoadingIndicator is the spinner the application shows while content loads.
var DefaultLoadingIndicator = locator.Class("ignition-loading-spinner").Describe("loading spinner")

// PieceOption configures a Piece.
type PieceOption func(*Piece)

// WithOptions overrides the timing inherited from the parent scope.
func WithOptions(o interact.Options) PieceOption {
	return func(p *Piece) { p.opts = p.opts.Merge(o) }
}

// WithLoadingIndicator replaces the document-level loading indicator checked by WaitOnLoaded.
// A zero locator disables the check.
func WithLoadingIndicator(loc locator.Locator) PieceOption {
	return func(p *Piece) { p.loading = loc }
}

// WithDescription names the piece's root in error messages.
func WithDescription(desc string) PieceOption {
	return func(p *Piece) { p.root = p.root.Describe(desc) }
}

// Piece is a reusable region of a screen. Project pieces embed *Piece and build their
// children beneath it, so the same piece type can be placed under any parent.
type Piece struct {
	name    string
	parent  interact.Scope
	root    locator.Locator
	opts    interact.Options
	loading locator.Locator
}

// NewPiece scopes loc beneath parent.
func NewPiece(parent interact.Scope, name string, loc locator.Locator, opts ...PieceOption) *Piece {
	p := &Piece{
		name:    name,
		parent:  parent,
		root:    interact.Under(parent, loc),
		opts:    parent.Options(),
		loading: DefaultLoadingIndicator,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the piece name.
func (p *Piece) Name() string { return p.name }

// Parent returns the scope the piece was built beneath.
func (p *Piece) Parent() interact.Scope { return p.parent }

// Driver returns the driver of the parent scope.
func (p *Piece) Driver() core.Driver { return p.parent.Driver() }

// Root returns the fully scoped root locator.
func (p *Piece) Root() locator.Locator { return p.root }

// Options returns the piece's timing.
func (p *Piece) Options() interact.Options { return p.opts }

// IsPresent reports whether the root is in the document right now. It never waits.
func (p *Piece) IsPresent(ctx context.Context) (bool, error) {
	return interact.Present(ctx, p, p.root)
}

// WaitOnPresent waits until the root's presence equals want.
func (p *Piece) WaitOnPresent(ctx context.Context, want bool, opts ...interact.WaitOption) (bool, error) {
	return interact.WaitOnPresent(ctx, p, p.root, want, opts...)
}

// WaitOnLoaded waits until the root is present and no loading indicator is shown.
// It reports whether the piece finished loading.
func (p *Piece) WaitOnLoaded(ctx context.Context, opts ...interact.WaitOption) (bool, error) {
	return interact.WaitOn(ctx, p.opts, p.loaded, func(loaded bool) bool { return loaded }, opts...)
}

func (p *Piece) loaded(ctx context.Context) (bool, error) {
	present, err := interact.Present(ctx, p, p.root)
	if err != nil || !present {
		return false, err
	}
	if p.loading.IsZero() {
		return true, nil
	}
	spinning, err := interact.Present(ctx, p, p.loading)
	return !spinning, err
}
