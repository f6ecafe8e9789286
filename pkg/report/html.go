package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
)

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	OutputPath  string // Path to write the HTML file
	EmbedAssets bool   // Embed screenshots as base64 (makes file larger but portable)
	Title       string // Report title (default: "Page Map Check")
}

// GenerateHTML generates report.html from the report.json in reportDir.
func GenerateHTML(reportDir string, cfg HTMLConfig) error {
	rep, err := ReadReport(reportDir)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	if cfg.Title == "" {
		cfg.Title = "Page Map Check"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = filepath.Join(reportDir, "report.html")
	}

	html, err := renderHTML(buildHTMLData(rep, reportDir, cfg))
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title       string
	GeneratedAt string
	Report      *core.Report
	Pages       []PageHTMLData
	Duration    string
	PassRate    float64
}

// PageHTMLData contains page data formatted for HTML.
type PageHTMLData struct {
	core.PageResult
	StatusClass string
	DurationStr string
	Checks      []CheckHTMLData
}

// CheckHTMLData contains check data formatted for HTML.
type CheckHTMLData struct {
	core.CheckResult
	StatusClass string
	DurationStr string
	Screenshot  template.URL // base64 data URI or relative path
}

func buildHTMLData(rep *core.Report, reportDir string, cfg HTMLConfig) HTMLData {
	pages := make([]PageHTMLData, len(rep.Pages))
	for i, p := range rep.Pages {
		checks := make([]CheckHTMLData, len(p.Checks))
		for j, c := range p.Checks {
			ch := CheckHTMLData{
				CheckResult: c,
				StatusClass: c.Status.String(),
				DurationStr: formatDuration(c.Duration),
			}
			for _, a := range c.Attachments {
				if a.Name != core.AttachmentScreenshot || a.Path == "" {
					continue
				}
				if cfg.EmbedAssets {
					ch.Screenshot = template.URL(loadAsBase64(filepath.Join(reportDir, a.Path)))
				} else {
					ch.Screenshot = template.URL(a.Path)
				}
			}
			checks[j] = ch
		}
		pages[i] = PageHTMLData{
			PageResult:  p,
			StatusClass: p.Status.String(),
			DurationStr: formatDuration(p.Duration),
			Checks:      checks,
		}
	}

	var passRate float64
	if rep.TotalPages > 0 {
		passRate = float64(rep.PassedPages) / float64(rep.TotalPages) * 100
	}

	return HTMLData{
		Title:       cfg.Title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Report:      rep,
		Pages:       pages,
		Duration:    formatDuration(rep.Duration),
		PassRate:    passRate,
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

func loadAsBase64(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := "image/png"
	if ext == ".jpg" || ext == ".jpeg" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func renderHTML(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        :root {
            --text-secondary: rgb(75, 85, 99);
            --border-color: #e5e7eb;
            --passed: #22c55e;
            --failed: #ef4444;
            --errored: #ef4444;
            --skipped: #eab308;
        }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 24px; }
        .summary { color: var(--text-secondary); margin-bottom: 16px; }
        .page { border: 1px solid var(--border-color); border-radius: 6px; margin-bottom: 12px; padding: 8px 12px; }
        .status { font-weight: 600; text-transform: uppercase; font-size: 12px; }
        .passed { color: var(--passed); }
        .failed, .errored { color: var(--failed); }
        .skipped { color: var(--skipped); }
        table { border-collapse: collapse; width: 100%; margin-top: 8px; }
        td { border-top: 1px solid var(--border-color); padding: 4px 8px; font-size: 13px; vertical-align: top; }
        code { font-size: 12px; }
        img { max-width: 320px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="summary">
        Run {{.Report.RunID}} &middot; generated {{.GeneratedAt}} &middot; {{.Duration}} &middot;
        {{.Report.PassedPages}} passed, {{.Report.FailedPages}} failed, {{.Report.SkippedPages}} skipped
        ({{printf "%.0f" .PassRate}}%)
    </div>
    {{range .Pages}}
    <div class="page">
        <span class="status {{.StatusClass}}">{{.Status}}</span>
        <strong>{{.Name}}</strong> <code>{{.Path}}</code> &middot; {{.DurationStr}}
        {{if not .Current}}<span class="skipped">view not current</span>{{end}}
        <table>
        {{range .Checks}}
            <tr>
                <td class="status {{.StatusClass}}">{{.Status}}</td>
                <td>{{.Name}}<br><code>{{.Locator}}</code></td>
                <td>{{.Kind}}</td>
                <td>{{if .Error}}{{.Error}}{{else}}{{.Message}}{{end}}</td>
                <td>{{.DurationStr}}</td>
                <td>{{if .Screenshot}}<img src="{{.Screenshot}}" alt="screenshot">{{end}}</td>
            </tr>
        {{end}}
        </table>
    </div>
    {{end}}
</body>
</html>
`
