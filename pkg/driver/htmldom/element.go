package htmldom

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Element is one node of the document. Once the node is removed from the
// document every operation returns core.ErrStaleElement.
type Element struct {
	d    *Driver
	node *html.Node
	loc  locator.Locator
}

func (e *Element) lock() error {
	e.d.mu.Lock()
	if !e.d.attached(e.node) {
		e.d.mu.Unlock()
		return core.ErrStaleElement.WithLocator(e.loc)
	}
	return nil
}

func (e *Element) unlock() {
	e.d.mu.Unlock()
}

// Click dispatches a click. Checkboxes and radios toggle, options become selected.
func (e *Element) Click(ctx context.Context) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.unlock()

	if !visible(e.node) || disabled(e.node) {
		return core.ErrNotInteractable.WithLocator(e.loc)
	}

	switch {
	case isInput(e.node, "checkbox"):
		toggleAttr(e.node, "checked", !hasAttr(e.node, "checked"))
	case isInput(e.node, "radio"):
		toggleAttr(e.node, "checked", true)
	case e.node.Data == "option":
		if e.node.Parent != nil {
			for c := e.node.Parent.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "option" {
					toggleAttr(c, "selected", false)
				}
			}
		}
		toggleAttr(e.node, "selected", true)
	}
	e.d.focused = e.node
	e.d.dispatch(EventClick, e.node)
	return nil
}

// Type appends text to the value of an input or textarea.
func (e *Element) Type(ctx context.Context, text string) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.unlock()

	if !editable(e.node) || disabled(e.node) {
		return core.ErrNotInteractable.WithLocator(e.loc)
	}
	v, _ := attr(e.node, "value")
	setAttr(e.node, "value", v+text)
	e.d.focused = e.node
	e.d.dispatch(EventInput, e.node)
	return nil
}

// Clear empties the value of an input or textarea.
func (e *Element) Clear(ctx context.Context) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.unlock()

	if !editable(e.node) || disabled(e.node) {
		return core.ErrNotInteractable.WithLocator(e.loc)
	}
	setAttr(e.node, "value", "")
	e.d.focused = e.node
	e.d.dispatch(EventInput, e.node)
	return nil
}

// Blur releases focus and dispatches a blur event.
func (e *Element) Blur(ctx context.Context) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.unlock()

	if e.d.focused == e.node {
		e.d.focused = nil
	}
	e.d.dispatch(EventBlur, e.node)
	return nil
}

// Hover dispatches a mouseover.
func (e *Element) Hover(ctx context.Context) error {
	return e.pointer(EventHover)
}

// DoubleClick dispatches a dblclick. Unlike a real browser no click events precede it.
func (e *Element) DoubleClick(ctx context.Context) error {
	return e.pointer(EventDoubleClick)
}

// RightClick dispatches a contextmenu event.
func (e *Element) RightClick(ctx context.Context) error {
	return e.pointer(EventContextMenu)
}

// ScrollIntoView dispatches a scroll event. The document has no layout, so nothing moves.
func (e *Element) ScrollIntoView(ctx context.Context) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.unlock()

	e.d.dispatch(EventScroll, e.node)
	return nil
}

func (e *Element) pointer(event string) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.unlock()

	if !visible(e.node) {
		return core.ErrNotInteractable.WithLocator(e.loc)
	}
	e.d.dispatch(event, e.node)
	return nil
}

// Text returns the rendered text with whitespace collapsed.
func (e *Element) Text(ctx context.Context) (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.unlock()

	return strings.Join(strings.Fields(e.d.doc.FindNodes(e.node).Text()), " "), nil
}

// Value returns the current value of a form control.
func (e *Element) Value(ctx context.Context) (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.unlock()

	if e.node.Data == "select" {
		var first *html.Node
		for c := e.node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != "option" {
				continue
			}
			if first == nil {
				first = c
			}
			if hasAttr(c, "selected") {
				return optionValue(e.d, c), nil
			}
		}
		if first != nil {
			return optionValue(e.d, first), nil
		}
		return "", nil
	}
	v, _ := attr(e.node, "value")
	return v, nil
}

// Attribute returns the named attribute and whether it is present.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.lock(); err != nil {
		return "", false, err
	}
	defer e.unlock()

	v, ok := attr(e.node, name)
	return v, ok, nil
}

// TagName returns the lower-case tag name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.unlock()

	return strings.ToLower(e.node.Data), nil
}

// IsVisible reports whether neither the element nor an ancestor is hidden.
func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	if err := e.lock(); err != nil {
		return false, err
	}
	defer e.unlock()

	return visible(e.node), nil
}

// IsEnabled reports whether the element lacks a disabled attribute.
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if err := e.lock(); err != nil {
		return false, err
	}
	defer e.unlock()

	return !disabled(e.node), nil
}

// CSSProperty returns the property from the inline style of the element or its
// nearest ancestor that sets it. There is no stylesheet cascade.
func (e *Element) CSSProperty(ctx context.Context, name string) (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if v, ok := inlineStyle(n, name); ok {
			return v, nil
		}
		if !inherited[name] {
			break
		}
	}
	return "", nil
}

// inherited lists the properties looked up on ancestors.
var inherited = map[string]bool{
	"color":       true,
	"font-family": true,
	"font-size":   true,
	"font-weight": true,
	"visibility":  true,
	"cursor":      true,
}

func inlineStyle(n *html.Node, name string) (string, bool) {
	style, _ := attr(n, "style")
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.ToLower(strings.TrimSpace(k)) == name {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func optionValue(d *Driver, n *html.Node) string {
	if v, ok := attr(n, "value"); ok {
		return v
	}
	return strings.TrimSpace(d.doc.FindNodes(n).Text())
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// toggleAttr adds or removes a boolean attribute.
func toggleAttr(n *html.Node, name string, on bool) {
	if on {
		if !hasAttr(n, name) {
			n.Attr = append(n.Attr, html.Attribute{Key: name})
		}
		return
	}
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != name {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func isInput(n *html.Node, typ string) bool {
	if n.Data != "input" {
		return false
	}
	t, _ := attr(n, "type")
	return strings.EqualFold(t, typ)
}

func editable(n *html.Node) bool {
	switch n.Data {
	case "textarea":
		return true
	case "input":
		t, _ := attr(n, "type")
		switch strings.ToLower(t) {
		case "checkbox", "radio", "button", "submit", "hidden":
			return false
		}
		return true
	}
	return false
}

func disabled(n *html.Node) bool {
	return hasAttr(n, "disabled")
}

func visible(n *html.Node) bool {
	if isInput(n, "hidden") {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if hasAttr(p, "hidden") {
			return false
		}
		style, _ := attr(p, "style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}
