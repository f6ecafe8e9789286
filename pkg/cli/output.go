package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Slow check threshold
const slowThreshold = 2 * time.Second

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

// progress prints live check results.
type progress struct {
	w io.Writer
}

func (p progress) onPageStart(pageIdx, totalPages int, name, path string) {
	fmt.Fprintf(p.w, "\n  %s[%d/%d]%s %s%s%s (%s)\n",
		color(colorCyan), pageIdx+1, totalPages, color(colorReset),
		color(colorBold), name, color(colorReset), path)
	fmt.Fprintln(p.w, strings.Repeat("─", 60))
}

func (p progress) onCheck(r core.CheckResult) {
	dur := formatDuration(r.Duration)
	switch r.Status {
	case core.StatusPassed:
		symbolColor, durColor := color(colorGreen), ""
		if r.Duration >= slowThreshold {
			symbolColor, durColor = color(colorYellow), color(colorYellow)
		}
		fmt.Fprintf(p.w, "    %s✓%s %s %s(%s)%s\n",
			symbolColor, color(colorReset), r.Name, durColor, dur, color(colorReset))
	case core.StatusSkipped:
		fmt.Fprintf(p.w, "    %s-%s %s %s%s%s\n",
			color(colorCyan), color(colorReset), r.Name, color(colorGray), r.Message, color(colorReset))
	default:
		fmt.Fprintf(p.w, "    %s✗%s %s (%s)\n", color(colorRed), color(colorReset), r.Name, dur)
		if r.Error != "" {
			fmt.Fprintf(p.w, "      %s╰─%s %s\n", color(colorGray), color(colorReset), r.Error)
		}
	}
}

func (p progress) onPageEnd(r core.PageResult) {
	symbol, c := "✓", color(colorGreen)
	switch r.Status {
	case core.StatusFailed, core.StatusErrored:
		symbol, c = "✗", color(colorRed)
	case core.StatusSkipped:
		symbol, c = "-", color(colorCyan)
	}
	fmt.Fprintf(p.w, "%s%s %s%s %s%s%s\n",
		c, symbol, color(colorReset), r.Name, color(colorGray), formatDuration(r.Duration), color(colorReset))
}

func printSummary(w io.Writer, rep *core.Report) {
	total, passed, failed, skipped := 0, 0, 0, 0
	for _, p := range rep.Pages {
		total += p.TotalChecks
		passed += p.PassedChecks
		failed += p.FailedChecks
		skipped += p.SkippedChecks
	}

	fmt.Fprintln(w)
	if passed > 0 {
		fmt.Fprintf(w, "  %s%d checks passing%s (%s)\n", color(colorGreen), passed, color(colorReset), formatDuration(rep.Duration))
	}
	if failed > 0 {
		fmt.Fprintf(w, "  %s%d checks failing%s\n", color(colorRed), failed, color(colorReset))
	}
	if skipped > 0 {
		fmt.Fprintf(w, "  %s%d checks skipped%s\n", color(colorCyan), skipped, color(colorReset))
	}
	fmt.Fprintln(w)

	tableWidth := 92
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
	fmt.Fprintf(w, "  %-42s %6s %7s %6s %6s %6s %10s\n", "Page", "Status", "Checks", "Pass", "Fail", "Skip", "Duration")
	fmt.Fprintln(w, strings.Repeat("─", tableWidth))

	for _, p := range rep.Pages {
		status, statusColor := "✓ PASS", color(colorGreen)
		switch p.Status {
		case core.StatusFailed, core.StatusErrored:
			status, statusColor = "✗ FAIL", color(colorRed)
		case core.StatusSkipped:
			status, statusColor = "- SKIP", color(colorCyan)
		}

		name := p.Name + " " + p.Path
		if len(name) > 42 {
			name = name[:39] + "..."
		}
		fmt.Fprintf(w, "  %-42s %s%6s%s %7d %6d %6d %6d %10s\n",
			name, statusColor, status, color(colorReset),
			p.TotalChecks, p.PassedChecks, p.FailedChecks, p.SkippedChecks,
			formatDuration(p.Duration))
	}

	fmt.Fprintln(w, strings.Repeat("─", tableWidth))
	statusStr := fmt.Sprintf("%d/%d", rep.PassedPages, rep.TotalPages)
	statusColor := color(colorGreen)
	if rep.FailedPages > 0 {
		statusColor = color(colorRed)
	}
	fmt.Fprintf(w, "  %s%-42s%s %s%6s%s %7d %6d %6d %6d %10s\n",
		color(colorBold), "TOTAL", color(colorReset),
		statusColor, statusStr, color(colorReset),
		total, passed, failed, skipped,
		formatDuration(rep.Duration))
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
}

// formatDuration shows milliseconds below one second, seconds below a minute.
func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}
