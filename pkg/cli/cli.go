// Package cli provides the command-line interface for perspective-pom.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perspective-pom/pkg/config"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
	"github.com/devicelab-dev/perspective-pom/pkg/pagemap"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to workspace pom.yaml (default: ./pom.yaml)",
		EnvVars: []string{"POM_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "gateway",
		Usage: "Base URL of the web gateway",
	},
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (playwright, cdp)",
	},
	&cli.StringFlag{
		Name:    "browser",
		Aliases: []string{"b"},
		Usage:   "Browser to launch with playwright (chromium, firefox, webkit)",
	},
	&cli.BoolFlag{
		Name:  "headless",
		Usage: "Run the browser without a window",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"POM_VERBOSE"},
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Write the log to this file",
	},
	&cli.DurationFlag{
		Name:  "locate-timeout",
		Usage: "How long to keep trying to locate an element (e.g. 2s)",
	},
	&cli.DurationFlag{
		Name:  "wait-timeout",
		Usage: "Default waiter duration (e.g. 10s)",
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pom",
		Usage:   "Page-object toolkit for Perspective web sessions",
		Version: Version,
		Description: `pom loads page maps, YAML declarations of pages, views, pieces and
components, and checks them against a live browser session.

Examples:
  pom paths pages/
  pom check pages/home.yaml
  pom --driver cdp --gateway http://localhost:8088 check pages/
  pom install-browsers`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-ansi") {
				colorsEnabled = false
			}
			logger.SetVerbose(c.Bool("verbose"))
			return nil
		},
		Commands: []*cli.Command{
			pathsCommand,
			checkCommand,
			installCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the workspace config and applies global flag overrides.
// Precedence: flags, then POM_* environment, then the config file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("gateway") {
		cfg.Gateway = c.String("gateway")
	}
	if c.IsSet("driver") {
		cfg.Driver = c.String("driver")
	}
	if c.IsSet("browser") {
		cfg.Browser = c.String("browser")
	}
	if c.IsSet("headless") {
		headless := c.Bool("headless")
		cfg.Headless = &headless
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("locate-timeout") {
		cfg.Timeouts.Locate = c.Duration("locate-timeout")
	}
	if c.IsSet("wait-timeout") {
		cfg.Timeouts.Wait = c.Duration("wait-timeout")
	}
	return cfg, nil
}

// loadPageMaps parses the page maps named on the command line, or those listed in the
// config when none are.
func loadPageMaps(cfg *config.Config, args []string) ([]*pagemap.Map, error) {
	paths := args
	if len(paths) == 0 {
		paths = cfg.PageMapPaths()
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one page map file or folder is required")
	}

	maps, err := pagemap.Load(paths...)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("no page maps found in %v", paths)
	}
	if cfg.Project != "" {
		for _, m := range maps {
			m.Project = cfg.Project
		}
	}
	return maps, nil
}
