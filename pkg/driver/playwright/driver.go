// Package playwright implements core.Driver on a Playwright browser page.
package playwright

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// DefaultActionTimeout bounds a single browser call when the caller's context has no deadline.
const DefaultActionTimeout = 10 * time.Second

// Supported browsers
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Config configures Launch.
type Config struct {
	Browser  string // chromium (default), firefox or webkit
	Headless bool
	BaseURL  string // Resolves relative URLs passed to Open
	Width    int    // Viewport width (default 1280)
	Height   int    // Viewport height (default 720)

	DriverDir string // Playwright driver cache; empty uses the library default
}

// Driver implements core.Driver on one Playwright page.
type Driver struct {
	page    playwright.Page
	browser playwright.Browser
	pw      *playwright.Playwright
}

// New wraps an existing page. Close does not stop the page's browser.
func New(page playwright.Page) *Driver {
	return &Driver{page: page}
}

// Launch starts Playwright and a browser, and opens a single page.
func Launch(cfg Config) (*Driver, error) {
	pw, err := playwright.Run(&playwright.RunOptions{DriverDirectory: cfg.DriverDir})
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	bt, err := browserType(pw, cfg.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	browser, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: width, Height: height},
	}
	if cfg.BaseURL != "" {
		opts.BaseURL = playwright.String(cfg.BaseURL)
	}
	bctx, err := browser.NewContext(opts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	logger.Info("launched %s (headless=%v)", bt.Name(), cfg.Headless)
	return &Driver{page: page, browser: browser, pw: pw}, nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(name) {
	case "", BrowserChromium, "chrome":
		return pw.Chromium, nil
	case BrowserFirefox:
		return pw.Firefox, nil
	case BrowserWebKit:
		return pw.WebKit, nil
	default:
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported browser %q", name))
	}
}

// Open loads url and waits for the load event. It bootstraps a session; page objects
// never load URLs themselves.
func (d *Driver) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeoutMs(ctx, 3*DefaultActionTimeout),
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Close stops the browser and Playwright when they were started by Launch.
func (d *Driver) Close() error {
	var errs []error
	if d.browser != nil {
		errs = append(errs, d.browser.Close())
	}
	if d.pw != nil {
		errs = append(errs, d.pw.Stop())
	}
	return errors.Join(errs...)
}

// Page returns the underlying Playwright page.
func (d *Driver) Page() playwright.Page { return d.page }

// FindAll implements core.Driver.
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]core.Element, error) {
	sel, err := selectorFor(loc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handles, err := d.page.QuerySelectorAll(sel)
	if err != nil {
		if isSelectorError(err) {
			return nil, core.ErrInvalidLocator.WithLocator(loc).WithCause(err)
		}
		return nil, mapError(err, loc)
	}
	els := make([]core.Element, len(handles))
	for i, h := range handles {
		els[i] = &Element{handle: h, loc: loc}
	}
	return els, nil
}

// Screenshot implements core.Driver.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		Timeout: timeoutMs(ctx, DefaultActionTimeout),
	})
}

// selectorFor builds loc into a Playwright selector with an explicit engine prefix.
// A zero locator selects the document element.
func selectorFor(loc locator.Locator) (string, error) {
	if loc.IsZero() {
		return "css=html", nil
	}
	q, err := loc.Query()
	if err != nil {
		return "", core.ErrInvalidLocator.WithLocator(loc).WithCause(err)
	}
	if q.Kind == locator.KindXPath {
		return "xpath=" + q.Expr, nil
	}
	return "css=" + q.Expr, nil
}

// timeoutMs returns the time left before ctx's deadline in milliseconds, or fallback when
// ctx has none. It never returns less than one millisecond; Playwright treats 0 as no timeout.
func timeoutMs(ctx context.Context, fallback time.Duration) *float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		d = time.Until(deadline)
	}
	ms := float64(d.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return playwright.Float(ms)
}

func isSelectorError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "is not a valid selector") ||
		strings.Contains(msg, "Unexpected token") ||
		strings.Contains(msg, "Failed to evaluate XPath")
}

// mapError translates Playwright failures into the core error model.
func mapError(err error, loc locator.Locator) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached to the DOM"),
		strings.Contains(msg, "Element is detached"),
		strings.Contains(msg, "JSHandle is disposed"):
		return core.ErrStaleElement.WithLocator(loc).WithCause(err)
	case errors.Is(err, playwright.ErrTimeout):
		return core.ErrDriverTimeout.WithLocator(loc).WithCause(err)
	case strings.Contains(msg, "not visible"),
		strings.Contains(msg, "not enabled"),
		strings.Contains(msg, "not editable"):
		return core.ErrNotInteractable.WithLocator(loc).WithCause(err)
	}
	return err
}
