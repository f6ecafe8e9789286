// Package htmldom provides an in-memory driver over a parsed HTML document.
// It stands in for a browser in tests: markup is mutated from event handlers and
// timers to simulate an application that renders asynchronously.
package htmldom

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Events dispatched by element interactions
const (
	EventClick       = "click"
	EventDoubleClick = "dblclick"
	EventContextMenu = "contextmenu" // Right click
	EventHover       = "mouseover"
	EventScroll      = "scroll" // ScrollIntoView
	EventInput       = "input"  // After Type and Clear
	EventBlur        = "blur"
)

// Handler reacts to an event. target is the element the event was dispatched on;
// handlers run with the document locked and must only touch doc.
type Handler func(target *goquery.Selection, doc *goquery.Document)

type handler struct {
	event    string
	selector string
	fn       Handler
}

// Driver is an in-memory implementation of core.Driver.
type Driver struct {
	// Configuration
	Config Config

	mu       sync.Mutex
	root     *html.Node
	doc      *goquery.Document
	handlers []handler
	focused  *html.Node
	finds    int
}

// Config configures driver behavior.
type Config struct {
	// FailOnFind makes the Nth FindAll call fail (1-indexed). 0 = never fail.
	FailOnFind int
	// FindDelay adds artificial latency to every FindAll
	FindDelay time.Duration
}

// New parses markup into a driver.
func New(markup string, cfg Config) (*Driver, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	return &Driver{
		Config: cfg,
		root:   root,
		doc:    goquery.NewDocumentFromNode(root),
	}, nil
}

// FindAll returns every element currently matching loc. It never waits for elements to appear.
// A zero locator resolves to the document element.
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]core.Element, error) {
	if err := d.delay(ctx); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.finds++
	if d.Config.FailOnFind > 0 && d.finds == d.Config.FailOnFind {
		return nil, fmt.Errorf("simulated driver failure on find %d", d.finds)
	}

	nodes, err := d.query(loc)
	if err != nil {
		return nil, core.ErrInvalidLocator.WithLocator(loc).WithCause(err)
	}

	els := make([]core.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		els = append(els, &Element{d: d, node: n, loc: loc})
	}
	return els, nil
}

func (d *Driver) query(loc locator.Locator) ([]*html.Node, error) {
	if loc.IsZero() {
		return d.doc.Find("html").Nodes, nil
	}
	q, err := loc.Query()
	if err != nil {
		return nil, err
	}
	switch q.Kind {
	case locator.KindXPath:
		return htmlquery.QueryAll(d.root, q.Expr)
	default:
		// goquery matches nothing for a malformed selector; compile first to report it
		if _, err := cascadia.Compile(q.Expr); err != nil {
			return nil, err
		}
		return d.doc.Find(q.Expr).Nodes, nil
	}
}

func (d *Driver) delay(ctx context.Context) error {
	if d.Config.FindDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.Config.FindDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Screenshot returns a placeholder PNG image.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	// Minimal valid PNG (1x1 transparent pixel)
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52, // IHDR chunk
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
		0x42, 0x60, 0x82,
	}, nil
}

// On registers fn for event on elements matching selector. Events bubble, so a handler
// on a container sees events dispatched on its descendants.
func (d *Driver) On(event, selector string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler{event: event, selector: selector, fn: fn})
}

// OnClick registers fn for clicks on elements matching selector.
func (d *Driver) OnClick(selector string, fn Handler) {
	d.On(EventClick, selector, fn)
}

// Mutate runs fn against the document with the driver locked.
func (d *Driver) Mutate(fn func(doc *goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// After runs fn against the document once delay has elapsed.
func (d *Driver) After(delay time.Duration, fn func(doc *goquery.Document)) *time.Timer {
	return time.AfterFunc(delay, func() { d.Mutate(fn) })
}

// HTML returns the current markup.
func (d *Driver) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, _ := d.doc.Html()
	return s
}

// Finds returns the number of FindAll calls made so far.
func (d *Driver) Finds() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finds
}

// dispatch fires event on target and its ancestors. Caller holds d.mu.
func (d *Driver) dispatch(event string, target *html.Node) {
	sel := d.doc.FindNodes(target)
	fired := make(map[int]bool)
	for n := target; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		cur := d.doc.FindNodes(n)
		for i, h := range d.handlers {
			if fired[i] || h.event != event || !cur.Is(h.selector) {
				continue
			}
			fired[i] = true
			h.fn(sel, d.doc)
		}
	}
}

// attached reports whether n is still part of the document. Caller holds d.mu.
func (d *Driver) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}
