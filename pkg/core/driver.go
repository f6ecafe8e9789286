// Package core provides the driver contract and error model shared by every page object.
package core

import (
	"context"

	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

// Driver resolves locators against the live page.
// Implementations: playwright, cdp (chromedp), htmldom (in-memory, for tests).
// The interaction layer handles timing; a Driver never waits for elements to appear.
type Driver interface {
	// FindAll returns every element currently matching loc. An empty result is not an error.
	// A locator that cannot be turned into a query returns ErrInvalidLocator.
	FindAll(ctx context.Context, loc locator.Locator) ([]Element, error)

	// Screenshot captures the current page as PNG
	Screenshot(ctx context.Context) ([]byte, error)
}

// Element is one resolved element. It may become detached at any time; operations on a
// detached element return ErrStaleElement.
type Element interface {
	// Interactions
	Click(ctx context.Context) error
	Type(ctx context.Context, text string) error // Keystrokes at the current caret
	Clear(ctx context.Context) error
	Blur(ctx context.Context) error
	Hover(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	RightClick(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error

	// Reads
	Text(ctx context.Context) (string, error)
	Value(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	TagName(ctx context.Context) (string, error)
	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	CSSProperty(ctx context.Context, name string) (string, error) // Computed value
}

// ElementInfo is a point-in-time description of an element, used in check reports.
type ElementInfo struct {
	Tag     string `json:"tag"`
	ID      string `json:"id,omitempty"`
	Class   string `json:"class,omitempty"`
	Text    string `json:"text,omitempty"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
}

// Describe reads an ElementInfo from el.
func Describe(ctx context.Context, el Element) (*ElementInfo, error) {
	tag, err := el.TagName(ctx)
	if err != nil {
		return nil, err
	}
	info := &ElementInfo{Tag: tag}
	if info.ID, _, err = el.Attribute(ctx, "id"); err != nil {
		return nil, err
	}
	if info.Class, _, err = el.Attribute(ctx, "class"); err != nil {
		return nil, err
	}
	if info.Text, err = el.Text(ctx); err != nil {
		return nil, err
	}
	if info.Visible, err = el.IsVisible(ctx); err != nil {
		return nil, err
	}
	if info.Enabled, err = el.IsEnabled(ctx); err != nil {
		return nil, err
	}
	return info, nil
}
