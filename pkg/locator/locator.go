// Package locator describes where an element or region should be found in the rendered page.
// A Locator is pure data: it is re-resolved by a driver on every access and never caches
// anything about the element it points at.
package locator

import (
	"errors"
	"fmt"
	"strings"
)

// By is the strategy used by one part of a locator chain.
type By string

// Locator strategies
const (
	ByCSS             By = "css"
	ByID              By = "id"
	ByClass           By = "class"
	ByName            By = "name"
	ByTag             By = "tag"
	ByXPath           By = "xpath"
	ByLinkText        By = "linkText"
	ByPartialLinkText By = "partialLinkText"
)

// ErrIncompatible is returned when a chain mixes strategies that cannot be expressed as one query.
var ErrIncompatible = errors.New("incompatible locator strategies")

// Part is a single step of a locator chain.
type Part struct {
	By    By
	Value string
}

// Locator is an ordered chain of parts, outermost first. Each part is searched for beneath the
// previous one.
type Locator struct {
	Parts       []Part
	Description string // Optional human-readable name used in failure messages
}

func single(by By, value string) Locator {
	return Locator{Parts: []Part{{By: by, Value: value}}}
}

// CSS returns a locator using a CSS selector.
func CSS(selector string) Locator { return single(ByCSS, selector) }

// ID returns a locator matching the id attribute.
func ID(id string) Locator { return single(ByID, id) }

// Class returns a locator matching one CSS class.
func Class(class string) Locator { return single(ByClass, class) }

// Name returns a locator matching the name attribute.
func Name(name string) Locator { return single(ByName, name) }

// Tag returns a locator matching an element name.
func Tag(tag string) Locator { return single(ByTag, tag) }

// XPath returns a locator using an XPath expression.
func XPath(expr string) Locator { return single(ByXPath, expr) }

// LinkText returns a locator matching an anchor by its full text.
func LinkText(text string) Locator { return single(ByLinkText, text) }

// PartialLinkText returns a locator matching an anchor whose text contains text.
func PartialLinkText(text string) Locator { return single(ByPartialLinkText, text) }

// Within returns a copy of l scoped beneath parent.
// The parent chain is copied so neither locator is affected by later changes to the other.
func (l Locator) Within(parent Locator) Locator {
	parts := make([]Part, 0, len(parent.Parts)+len(l.Parts))
	parts = append(parts, parent.Parts...)
	parts = append(parts, l.Parts...)
	return Locator{Parts: parts, Description: l.Description}
}

// Describe returns a copy of l carrying a description.
func (l Locator) Describe(description string) Locator {
	parts := make([]Part, len(l.Parts))
	copy(parts, l.Parts)
	return Locator{Parts: parts, Description: description}
}

// IsZero returns true if the locator has no parts. A zero locator denotes the document root.
func (l Locator) IsZero() bool {
	return len(l.Parts) == 0
}

// Leaf returns the innermost part.
func (l Locator) Leaf() (Part, bool) {
	if len(l.Parts) == 0 {
		return Part{}, false
	}
	return l.Parts[len(l.Parts)-1], true
}

// String returns the chain in a compact form such as `id=root >> css=div.label`.
func (l Locator) String() string {
	if l.IsZero() {
		return "<root>"
	}
	s := make([]string, len(l.Parts))
	for i, p := range l.Parts {
		s[i] = string(p.By) + "=" + p.Value
	}
	out := strings.Join(s, " >> ")
	if l.Description != "" {
		out += " (" + l.Description + ")"
	}
	return out
}

// Kind is the query language a chain is built into.
type Kind int

// Query kinds
const (
	KindCSS Kind = iota
	KindXPath
)

// String returns the query language name.
func (k Kind) String() string {
	if k == KindXPath {
		return "xpath"
	}
	return "css"
}

// Query is a locator chain built into a single expression.
type Query struct {
	Kind Kind
	Expr string
}

// Query builds the chain into one expression. XPath is used when any part needs it
// (xpath, link text); otherwise CSS.
func (l Locator) Query() (Query, error) {
	if l.needsXPath() {
		expr, err := l.XPath()
		return Query{Kind: KindXPath, Expr: expr}, err
	}
	expr, err := l.CSS()
	return Query{Kind: KindCSS, Expr: expr}, err
}

func (l Locator) needsXPath() bool {
	for _, p := range l.Parts {
		switch p.By {
		case ByXPath, ByLinkText, ByPartialLinkText:
			return true
		}
	}
	return false
}

// CSS builds the chain as a descendant CSS selector.
func (l Locator) CSS() (string, error) {
	out := make([]string, 0, len(l.Parts))
	for _, p := range l.Parts {
		switch p.By {
		case ByID:
			out = append(out, "[id="+QuoteCSS(p.Value)+"]")
		case ByClass:
			out = append(out, "."+p.Value)
		case ByName:
			out = append(out, "[name="+QuoteCSS(p.Value)+"]")
		case ByTag, ByCSS, "":
			out = append(out, p.Value)
		default:
			return "", fmt.Errorf("%w: %s=%s cannot be expressed as a CSS selector", ErrIncompatible, p.By, p.Value)
		}
	}
	return strings.Join(out, " "), nil
}

// XPath builds the chain as a descendant XPath expression.
func (l Locator) XPath() (string, error) {
	var b strings.Builder
	for _, p := range l.Parts {
		switch p.By {
		case ByID:
			b.WriteString("//*[@id=" + QuoteXPath(p.Value) + "]")
		case ByClass:
			fmt.Fprintf(&b, `//*[contains(concat(" ", normalize-space(@class), " "), " %s ")]`, p.Value)
		case ByName:
			b.WriteString("//*[@name=" + QuoteXPath(p.Value) + "]")
		case ByLinkText:
			b.WriteString("//a[normalize-space()=" + QuoteXPath(p.Value) + "]")
		case ByPartialLinkText:
			b.WriteString("//a[contains(normalize-space()," + QuoteXPath(p.Value) + ")]")
		case ByTag:
			b.WriteString("//" + p.Value)
		case ByXPath:
			b.WriteString(p.Value)
		default:
			return "", fmt.Errorf("%w: %s=%s cannot be expressed as XPath", ErrIncompatible, p.By, p.Value)
		}
	}
	return b.String(), nil
}

// QuoteCSS returns v as a double-quoted CSS string, for attribute selectors.
func QuoteCSS(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteXPath returns v as an XPath string literal. XPath 1.0 has no escapes, so a
// value holding both quote characters is built with concat().
func QuoteXPath(v string) string {
	if !strings.Contains(v, `"`) {
		return `"` + v + `"`
	}
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	parts := strings.Split(v, `"`)
	args := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
