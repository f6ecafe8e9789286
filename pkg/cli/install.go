package cli

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perspective-pom/pkg/config"
)

var installCommand = &cli.Command{
	Name:  "install-browsers",
	Usage: "Download the Playwright driver and browser into <home>/browsers",
	Description: `Installs the browser selected by --browser (default chromium) for the
playwright driver. The cdp driver uses a locally installed Chrome instead.`,
	Action: runInstall,
}

// installBrowsers downloads the driver and browsers. Tests replace it.
var installBrowsers = playwright.Install

func runInstall(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dir := config.GetBrowsersDir()
	fmt.Fprintf(c.App.Writer, "  %s⏳ Installing %s into %s%s\n", color(colorCyan), cfg.Browser, dir, color(colorReset))
	if err := installBrowsers(&playwright.RunOptions{
		DriverDirectory: dir,
		Browsers:        []string{cfg.Browser},
	}); err != nil {
		return fmt.Errorf("failed to install %s: %w", cfg.Browser, err)
	}
	fmt.Fprintf(c.App.Writer, "  %s✓ Installed %s%s\n", color(colorGreen), cfg.Browser, color(colorReset))
	return nil
}
