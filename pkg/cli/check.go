package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perspective-pom/pkg/config"
	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/driver/cdp"
	"github.com/devicelab-dev/perspective-pom/pkg/driver/playwright"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
	"github.com/devicelab-dev/perspective-pom/pkg/page"
	"github.com/devicelab-dev/perspective-pom/pkg/pagemap"
	"github.com/devicelab-dev/perspective-pom/pkg/report"
)

var errChecksFailed = errors.New("one or more checks failed")

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "Check page maps against a live browser session",
	ArgsUsage: "<pagemap-file-or-folder>...",
	Description: `Open a browser at <gateway>/<entryPath> and, for every declared page, report
whether its view is the current screen and whether each of its pieces and
components resolves within the locate timeout. Pages whose view is not
current are skipped.

Reports are generated in the output directory:
  - Default: <home>/artifacts/<timestamp>/
  - With --output: <output>/<timestamp>/
  - With --output and --flatten: <output>/ (no timestamp subfolder)

Examples:
  pom check pages/
  pom --gateway http://localhost:8088 check pages/home.yaml
  pom check pages/ --json > report.json`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "entry-path",
			Usage: "Path opened under the gateway before checking",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output directory for reports",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "Don't create timestamp subfolder (requires --output)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the report as JSON instead of progress output",
		},
	},
	Action: runCheck,
}

// browserSession is a launched browser tab.
type browserSession interface {
	core.Driver
	Open(ctx context.Context, url string) error
	Close() error
}

// launch starts the configured browser. Tests replace it.
var launch = func(ctx context.Context, cfg *config.Config) (browserSession, error) {
	switch cfg.Driver {
	case config.DriverCDP:
		d, err := cdp.Launch(ctx, cdp.Config{
			Headless:  cfg.IsHeadless(),
			RemoteURL: cfg.RemoteURL,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		d, err := playwright.Launch(playwright.Config{
			Browser:   cfg.Browser,
			Headless:  cfg.IsHeadless(),
			DriverDir: config.GetBrowsersDir(),
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func runCheck(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("entry-path") {
		cfg.EntryPath = c.String("entry-path")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	maps, err := loadPageMaps(cfg, c.Args().Slice())
	if err != nil {
		return err
	}
	// Fail on bad page maps before starting a browser.
	if _, err := buildSite(c, page.NewSession(nil, cfg.Options()), maps); err != nil {
		return err
	}

	outputDir, err := resolveOutputDir(c.String("output"), c.Bool("flatten"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(outputDir, "pom.log")
	}
	if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Warning: Failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	logger.Info("=== Check started ===")
	logger.Info("Output directory: %s", outputDir)
	logger.Info("Driver: %s, gateway: %s", cfg.Driver, cfg.Gateway)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	browser, err := launch(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", cfg.Driver, err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn("closing browser: %v", err)
		}
	}()

	url := cfg.EntryURL()
	logger.Info("Opening %s", url)
	if err := browser.Open(ctx, url); err != nil {
		return err
	}

	site, err := buildSite(c, page.NewSession(browser, cfg.Options()), maps)
	if err != nil {
		return err
	}

	checkCfg := pagemap.CheckConfig{Artifacts: cfg.Artifacts}
	jsonOut := c.Bool("json")
	if !jsonOut {
		p := progress{w: c.App.Writer}
		checkCfg.OnPageStart = p.onPageStart
		checkCfg.OnCheck = p.onCheck
		checkCfg.OnPageEnd = p.onPageEnd
	}

	rep, err := pagemap.NewChecker(checkCfg).Run(ctx, site)
	if err != nil {
		return err
	}

	reportPath, err := report.Write(outputDir, rep)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Report written to %s", reportPath)

	if jsonOut {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		printSummary(c.App.Writer, rep)
		fmt.Fprintf(c.App.Writer, "\n  Report: %s\n", filepath.Join(outputDir, "report.html"))
	}

	if !rep.Success() {
		return errChecksFailed
	}
	return nil
}

// resolveOutputDir determines the output directory based on flags.
// - No --output: <home>/artifacts/<timestamp>/
// - --output given: <output>/<timestamp>/
// - --output + --flatten: <output>/ (error if --output not given)
func resolveOutputDir(output string, flatten bool) (string, error) {
	if flatten && output == "" {
		return "", fmt.Errorf("--flatten requires --output to be specified")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if output == "" {
		return config.GetArtifactsDir(timestamp), nil
	}
	if flatten {
		return filepath.Clean(output), nil
	}
	return filepath.Join(output, timestamp), nil
}
