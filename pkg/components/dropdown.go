package components

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

const (
	dropdownActiveClass        = "ia_dropdown--active"
	dropdownExpandIconSelector = "svg.iaDropdownCommon_expandIcon"

	// Options render in a modal at the document level, outside the dropdown.
	dropdownOptionsSelector = "div.ia_componentModal div.iaDropdownCommon_options"
)

// Dropdown is a single- or multi-select dropdown. The selection is carried by the
// data-label (single) or data-selected-labels (multi, JSON) attribute of its root.
type Dropdown struct {
	*Component
	expandIcon *Component
	options    locator.Locator
}

// NewDropdown binds a dropdown beneath scope.
func NewDropdown(scope interact.Scope, loc locator.Locator, opts ...Option) *Dropdown {
	c := New(scope, loc, opts...)
	return &Dropdown{
		Component:  c,
		expandIcon: c.Child(locator.CSS(dropdownExpandIconSelector).Describe("dropdown expand icon")),
		options:    locator.CSS(dropdownOptionsSelector).Describe("dropdown options"),
	}
}

// GetSelectedOptions returns the labels of every selected option.
func (d *Dropdown) GetSelectedOptions(ctx context.Context) ([]string, error) {
	return interact.Read(ctx, d, d.loc, readSelectedOptions)
}

// IsExpanded reports whether the option list is open.
func (d *Dropdown) IsExpanded(ctx context.Context) (bool, error) {
	active, err := d.HasClass(ctx, dropdownActiveClass)
	if err != nil || !active {
		return false, err
	}
	return interact.Present(ctx, d, d.options)
}

// SetSelectedOption selects the option labelled text. Nothing is clicked when it is already selected.
func (d *Dropdown) SetSelectedOption(ctx context.Context, text string) error {
	selected, err := d.GetSelectedOptions(ctx)
	if err != nil {
		return err
	}
	if !containsString(selected, text) {
		expanded, err := d.IsExpanded(ctx)
		if err != nil {
			return err
		}
		if !expanded {
			if err := d.expandIcon.Click(ctx); err != nil {
				return err
			}
		}
		logger.Debug("dropdown %s: select %q", d.loc, text)
		if err := interact.Do(ctx, d, d.optionLocator(text), func(ctx context.Context, el core.Element) error {
			return el.Click(ctx)
		}); err != nil {
			return err
		}
	}
	return interact.VerifyFunc(ctx, d, d.loc, d.verification, text, readSelectedOptions, func(s []string) bool {
		return containsString(s, text)
	})
}

// WaitOnSelectedOption waits until text is among the selected options and returns the last selection read.
func (d *Dropdown) WaitOnSelectedOption(ctx context.Context, text string, opts ...interact.WaitOption) ([]string, error) {
	return interact.WaitOnElement(ctx, d, d.loc, readSelectedOptions, func(s []string) bool {
		return containsString(s, text)
	}, opts...)
}

func (d *Dropdown) optionLocator(text string) locator.Locator {
	return locator.CSS("a[data-label=" + locator.QuoteCSS(text) + "]").Within(d.options).Describe("option " + text)
}

func readSelectedOptions(ctx context.Context, el core.Element) ([]string, error) {
	multi, ok, err := el.Attribute(ctx, "data-selected-labels")
	if err != nil {
		return nil, err
	}
	if !ok {
		single, ok, err := el.Attribute(ctx, "data-label")
		if err != nil || !ok || single == "" {
			return []string{}, err
		}
		return []string{single}, nil
	}
	return parseSelectedLabels(multi), nil
}

// parseSelectedLabels decodes a JSON list or a single JSON string. Anything else is no selection.
func parseSelectedLabels(raw string) []string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var labels []string
		if err := json.Unmarshal([]byte(raw), &labels); err != nil {
			return []string{}
		}
		return labels
	}
	var label string
	if err := json.Unmarshal([]byte(raw), &label); err != nil {
		return []string{}
	}
	return []string{label}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
