package pagemap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile parses a single page map file.
func ParseFile(path string) (*Map, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is a user-provided page map
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses page map YAML content.
func Parse(data []byte, sourcePath string) (*Map, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, wrapParseError(sourcePath, 0, err)
	}
	if len(root.Content) == 0 {
		return nil, &ParseError{Path: sourcePath, Line: 1, Message: "empty page map"}
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: sourcePath, Line: doc.Line, Message: "page map must be a mapping"}
	}

	m := &Map{SourcePath: sourcePath}
	if err := doc.Decode(m); err != nil {
		return nil, wrapParseError(sourcePath, doc.Line, err)
	}
	if m.Project == "" {
		m.Project = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	}

	if pages := mappingValue(doc, "pages"); pages != nil && pages.Kind == yaml.SequenceNode {
		for i, n := range pages.Content {
			if i < len(m.Pages) {
				m.Pages[i].Line = n.Line
			}
		}
	}
	return m, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func wrapParseError(path string, line int, err error) error {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ParseError{Path: path, Line: line, Message: strings.Join(typeErr.Errors, "; ")}
	}
	return &ParseError{
		Path:    path,
		Line:    line,
		Message: err.Error(),
	}
}

// ParseDirectory parses all YAML files beneath dir, in lexical order.
// Files that fail to parse are skipped with a warning.
func ParseDirectory(dir string) ([]*Map, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var maps []*Map
	for _, path := range paths {
		m, parseErr := ParseFile(path)
		if parseErr != nil {
			logger.Warn("skipping %s: %v", path, parseErr)
			continue
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// Load parses every path, which may be a file or a directory.
func Load(paths ...string) ([]*Map, error) {
	var maps []*Map
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := ParseDirectory(path)
			if err != nil {
				return nil, err
			}
			maps = append(maps, found...)
			continue
		}
		m, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, nil
}
