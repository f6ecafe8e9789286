package locator

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// locatorRaw is used for YAML parsing of the mapping form.
type locatorRaw struct {
	CSS             string   `yaml:"css"`
	ID              string   `yaml:"id"`
	Class           string   `yaml:"class"`
	Name            string   `yaml:"name"`
	Tag             string   `yaml:"tag"`
	XPath           string   `yaml:"xpath"`
	LinkText        string   `yaml:"linkText"`
	PartialLinkText string   `yaml:"partialLinkText"`
	Description     string   `yaml:"description"`
	Within          *Locator `yaml:"within"`
}

// UnmarshalYAML allows a Locator to be written as a CSS string, a mapping with exactly one
// strategy key, or a sequence of either (outermost first).
func (l *Locator) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = CSS(node.Value)
		return nil

	case yaml.SequenceNode:
		var chain Locator
		for _, item := range node.Content {
			var part Locator
			if err := item.Decode(&part); err != nil {
				return err
			}
			chain = part.Within(chain)
		}
		*l = chain
		return nil

	case yaml.MappingNode:
		var raw locatorRaw
		if err := node.Decode(&raw); err != nil {
			return err
		}
		var parts []Part
		add := func(by By, v string) {
			if v != "" {
				parts = append(parts, Part{By: by, Value: v})
			}
		}
		add(ByCSS, raw.CSS)
		add(ByID, raw.ID)
		add(ByClass, raw.Class)
		add(ByName, raw.Name)
		add(ByTag, raw.Tag)
		add(ByXPath, raw.XPath)
		add(ByLinkText, raw.LinkText)
		add(ByPartialLinkText, raw.PartialLinkText)
		if len(parts) != 1 {
			return fmt.Errorf("line %d: locator needs exactly one strategy, got %d", node.Line, len(parts))
		}
		out := Locator{Parts: parts, Description: raw.Description}
		if raw.Within != nil {
			out = out.Within(*raw.Within)
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: unsupported locator form", node.Line)
}
