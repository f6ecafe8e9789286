// Package report writes check reports to disk.
//
// Layout:
//   - report.json: the full core.Report
//   - assets/<page>/<check>.png: screenshots attached to checks
//   - report.html: a static summary generated from report.json
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
)

// Version is the report schema version.
const Version = "1.0.0"

const indexFile = "report.json"

// Write saves every in-memory attachment under outputDir/assets, records its relative
// path on the attachment, and writes report.json and report.html.
// It returns the path of report.json.
func Write(outputDir string, rep *core.Report) (string, error) {
	if err := ensureDir(filepath.Join(outputDir, "assets")); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}

	for i := range rep.Pages {
		p := &rep.Pages[i]
		for j := range p.Checks {
			c := &p.Checks[j]
			for k := range c.Attachments {
				a := &c.Attachments[k]
				if len(a.Body) == 0 {
					continue
				}
				rel, err := saveAttachment(outputDir, p.Name, c.Name, a)
				if err != nil {
					return "", err
				}
				a.Path = rel
			}
		}
	}

	indexPath := filepath.Join(outputDir, indexFile)
	if err := atomicWriteJSON(indexPath, rep); err != nil {
		return "", fmt.Errorf("write index: %w", err)
	}
	if err := GenerateHTML(outputDir, HTMLConfig{Title: "Page Map Check"}); err != nil {
		return "", fmt.Errorf("generate html: %w", err)
	}
	return indexPath, nil
}

// ReadReport reads report.json from reportDir.
func ReadReport(reportDir string) (*core.Report, error) {
	data, err := os.ReadFile(filepath.Join(reportDir, indexFile))
	if err != nil {
		return nil, err
	}
	var rep core.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse %s: %w", indexFile, err)
	}
	return &rep, nil
}

func saveAttachment(outputDir, pageName, checkName string, a *core.Attachment) (string, error) {
	ext := ".bin"
	if a.ContentType == core.ContentTypePNG {
		ext = ".png"
	}
	rel := filepath.Join("assets", safeName(pageName), safeName(checkName)+"-"+a.Name+ext)
	path := filepath.Join(outputDir, rel)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, a.Body, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return filepath.ToSlash(rel), nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeName(s string) string {
	s = strings.Trim(unsafeChars.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// atomicWriteJSON writes v next to path and renames it into place.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
