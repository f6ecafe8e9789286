package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
)

func sampleReport() *core.Report {
	png := []byte{0x89, 0x50, 0x4E, 0x47}
	rep := &core.Report{
		RunID:     "run-1",
		StartTime: time.Now(),
		Duration:  1500 * time.Millisecond,
		Pages: []core.PageResult{
			{
				Name:    "Home",
				Path:    "/demo/home",
				Status:  core.StatusFailed,
				Current: true,
				Checks: []core.CheckResult{
					{Name: "Home", Kind: "view", Locator: "id=home", Status: core.StatusPassed},
					{
						Name:        "Home.filter/search",
						Kind:        "textField",
						Locator:     "id=home >> class=search",
						Status:      core.StatusFailed,
						Category:    core.ErrCategoryNotFound,
						Error:       "element not found",
						Attachments: []core.Attachment{core.NewScreenshotAttachment("", png)},
					},
				},
			},
			{Name: "Settings", Path: "/demo/settings", Status: core.StatusSkipped},
		},
	}
	rep.ComputeSummary()
	return rep
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport()

	indexPath, err := Write(dir, rep)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if indexPath != filepath.Join(dir, "report.json") {
		t.Errorf("Write() = %q, want report.json in %s", indexPath, dir)
	}

	shot := rep.Pages[0].Checks[1].Attachments[0]
	if shot.Path != "assets/Home/Home.filter_search-screenshot.png" {
		t.Errorf("attachment path = %q", shot.Path)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(shot.Path))); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.html")); err != nil {
		t.Errorf("report.html not written: %v", err)
	}
}

func TestReadReport(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rep, err := ReadReport(dir)
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if rep.RunID != "run-1" || len(rep.Pages) != 2 {
		t.Fatalf("ReadReport() = %+v", rep)
	}
	check := rep.Pages[0].Checks[1]
	if check.Status != core.StatusFailed || check.Category != core.ErrCategoryNotFound {
		t.Errorf("check = %v/%v, want failed/not_found", check.Status, check.Category)
	}
	if rep.SkippedPages != 1 || rep.FailedPages != 1 {
		t.Errorf("summary = %d failed, %d skipped", rep.FailedPages, rep.SkippedPages)
	}
}

func TestReadReport_Missing(t *testing.T) {
	if _, err := ReadReport(t.TempDir()); err == nil {
		t.Error("ReadReport() expected error for empty directory")
	}
}

func TestGenerateHTML_EmbedAssets(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := filepath.Join(dir, "embedded.html")
	if err := GenerateHTML(dir, HTMLConfig{OutputPath: out, EmbedAssets: true, Title: "Nightly"}); err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	html := string(data)
	for _, want := range []string{"<title>Nightly</title>", "data:image/png;base64,", "/demo/settings", "element not found"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "-"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSafeName(t *testing.T) {
	if got := safeName("Home.filter/search"); got != "Home.filter_search" {
		t.Errorf("safeName() = %q", got)
	}
	if got := safeName("///"); got != "unnamed" {
		t.Errorf("safeName(///) = %q, want unnamed", got)
	}
}
