package pagemap

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// CheckConfig configures a Checker.
type CheckConfig struct {
	Artifacts core.ArtifactConfig

	// Live progress callbacks
	OnPageStart func(pageIdx, totalPages int, name, path string)
	OnCheck     func(result core.CheckResult)
	OnPageEnd   func(result core.PageResult)
}

// Checker reports, for every built page, whether its view is the current screen and
// whether each of its targets resolves within the location timeout.
type Checker struct {
	config CheckConfig
}

// NewChecker creates a Checker.
func NewChecker(cfg CheckConfig) *Checker {
	return &Checker{config: cfg}
}

// Run checks every page of site in order. Screenshots are attached to checks whose status
// the artifact config selects; the caller decides where to write them.
func (c *Checker) Run(ctx context.Context, site *Site) (*core.Report, error) {
	rep := &core.Report{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}

	pages := site.Pages()
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.config.OnPageStart != nil {
			c.config.OnPageStart(i, len(pages), p.Name, p.Path())
		}
		pr, err := c.checkPage(ctx, site, p)
		if err != nil {
			return nil, err
		}
		rep.Pages = append(rep.Pages, pr)
		if c.config.OnPageEnd != nil {
			c.config.OnPageEnd(pr)
		}
	}

	rep.Duration = time.Since(rep.StartTime)
	rep.ComputeSummary()
	return rep, nil
}

func (c *Checker) checkPage(ctx context.Context, site *Site, p *Page) (core.PageResult, error) {
	pr := core.PageResult{
		Name:      p.Name,
		Path:      p.Path(),
		StartTime: time.Now(),
	}
	log := logger.WithFields(logrus.Fields{"page": p.Path(), "view": p.View().ResourcePath()})

	current, err := p.WaitOnCurrent(ctx, interact.Timeout(p.View().Options().LocateTimeout))
	if err != nil {
		return pr, fmt.Errorf("check %s: %w", p.Path(), err)
	}
	pr.Current = current

	for _, t := range p.Targets {
		var cr core.CheckResult
		if current {
			cr = c.checkTarget(ctx, site, t)
			if ctx.Err() != nil {
				return pr, ctx.Err()
			}
			if !cr.Status.IsSuccess() {
				log.WithField("target", t.Name).Warn(cr.Error)
			}
		} else {
			cr = core.CheckResult{
				Name:      t.Name,
				Kind:      t.Kind,
				Locator:   t.Locator().String(),
				Status:    core.StatusSkipped,
				StartTime: time.Now(),
				Message:   "view is not the current screen",
			}
		}
		pr.Checks = append(pr.Checks, cr)
		if c.config.OnCheck != nil {
			c.config.OnCheck(cr)
		}
	}

	pr.Duration = time.Since(pr.StartTime)
	pr.ComputeSummary()
	pr.Status = pr.AggregateStatus()
	log.Debugf("page %s: %d/%d checks passed", pr.Status, pr.PassedChecks, pr.TotalChecks)
	return pr, nil
}

func (c *Checker) checkTarget(ctx context.Context, site *Site, t Target) core.CheckResult {
	cr := core.CheckResult{
		Name:      t.Name,
		Kind:      t.Kind,
		Locator:   t.Locator().String(),
		StartTime: time.Now(),
	}

	info, err := interact.Read(ctx, t.Scope, t.Locator(), core.Describe)
	cr.Duration = time.Since(cr.StartTime)
	cr.Status = core.StatusFromError(err)
	if err != nil {
		cr.Category = core.CategoryOf(err)
		cr.Error = err.Error()
	} else {
		cr.Element = info
		cr.Message = fmt.Sprintf("resolved <%s>", info.Tag)
	}

	if c.config.Artifacts.ShouldCapture(cr.Status) {
		data, shotErr := site.Session().Screenshot(ctx)
		if shotErr != nil {
			logger.Warn("screenshot for %s failed: %v", t.Name, shotErr)
		} else {
			cr.Attachments = append(cr.Attachments, core.NewScreenshotAttachment("", data))
		}
	}
	return cr
}
