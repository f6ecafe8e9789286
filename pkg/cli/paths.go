package cli

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/page"
	"github.com/devicelab-dev/perspective-pom/pkg/pagemap"
)

var pathsCommand = &cli.Command{
	Name:      "paths",
	Usage:     "Print the identifying path of every declared page",
	ArgsUsage: "<pagemap-file-or-folder>...",
	Description: `Validate page maps and print, for every page, its name, identifying
path (/<project>/<path>) and view resource path. No browser is started.

Examples:
  pom paths pages/
  pom paths pages/home.yaml pages/settings.yaml`,
	Action: runPaths,
}

func runPaths(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	maps, err := loadPageMaps(cfg, c.Args().Slice())
	if err != nil {
		return err
	}

	// Pages are built without a driver; nothing here touches the browser.
	site, err := buildSite(c, page.NewSession(nil, cfg.Options()), maps)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for _, p := range site.Pages() {
		fmt.Fprintf(w, "%-24s %-40s %s\n", p.Name, p.Path(), p.View().ResourcePath())
	}
	return nil
}

// buildSite builds maps into session, listing every page map error on stderr.
func buildSite(c *cli.Context, session *page.Session, maps []*pagemap.Map) (*pagemap.Site, error) {
	site, err := pagemap.Build(session, maps...)
	if err == nil {
		return site, nil
	}

	var execErr *core.ExecutionError
	if !errors.As(err, &execErr) {
		return nil, err
	}
	joined, ok := execErr.Cause.(interface{ Unwrap() []error })
	if !ok {
		return nil, err
	}
	errs := joined.Unwrap()
	for _, e := range errs {
		fmt.Fprintf(c.App.ErrWriter, "  %s✗%s %v\n", color(colorRed), color(colorReset), e)
	}
	return nil, fmt.Errorf("%d page map error(s)", len(errs))
}
