// Package cdp implements core.Driver over the Chrome DevTools Protocol with chromedp.
package cdp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// DefaultActionTimeout bounds a single protocol call when the caller's context has no deadline.
const DefaultActionTimeout = 10 * time.Second

// Config configures Launch.
type Config struct {
	Headless  bool
	ExecPath  string // Chrome binary; empty uses the one chromedp finds
	RemoteURL string // DevTools websocket URL of a running browser; skips launching
	Width     int    // Window width (default 1280)
	Height    int    // Window height (default 720)
}

// Driver implements core.Driver on one browser tab.
type Driver struct {
	ctx         context.Context // chromedp tab context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
}

// New wraps a context created by chromedp.NewContext. Close cancels nothing.
func New(tab context.Context) *Driver {
	return &Driver{ctx: tab}
}

// Launch starts Chrome (or connects to RemoteURL) and opens a tab.
func Launch(ctx context.Context, cfg Config) (*Driver, error) {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}

	var (
		allocCtx    context.Context
		cancelAlloc context.CancelFunc
	)
	if cfg.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.WindowSize(width, height),
		)
		if cfg.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}

	tab, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(tab); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Info("chrome session started (headless=%v remote=%v)", cfg.Headless, cfg.RemoteURL != "")
	return &Driver{ctx: tab, cancel: cancel, cancelAlloc: cancelAlloc}, nil
}

// Close closes the tab and the browser started by Launch.
func (d *Driver) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.cancelAlloc != nil {
		d.cancelAlloc()
	}
	return nil
}

// Context returns the chromedp tab context.
func (d *Driver) Context() context.Context { return d.ctx }

// Open navigates to url. It bootstraps a session; page objects never load URLs themselves.
func (d *Driver) Open(ctx context.Context, url string) error {
	rctx, cancel := mergeContext(d.ctx, ctx, 3*DefaultActionTimeout)
	defer cancel()
	if err := chromedp.Run(rctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// FindAll implements core.Driver. It queries once and never waits for elements to appear.
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]core.Element, error) {
	expr, by, err := queryFor(loc)
	if err != nil {
		return nil, err
	}

	rctx, cancel := mergeContext(d.ctx, ctx, DefaultActionTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(rctx, chromedp.Nodes(expr, &nodes, by, chromedp.AtLeast(0))); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if strings.Contains(err.Error(), "DOM Error while querying") {
			return nil, core.ErrInvalidLocator.WithLocator(loc).WithCause(err)
		}
		return nil, mapError(err, loc)
	}

	els := make([]core.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &Element{d: d, node: n, loc: loc}
	}
	return els, nil
}

// Screenshot implements core.Driver.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	rctx, cancel := mergeContext(d.ctx, ctx, DefaultActionTimeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(rctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// queryFor builds loc into a chromedp query. A zero locator selects the document element.
func queryFor(loc locator.Locator) (string, chromedp.QueryOption, error) {
	if loc.IsZero() {
		return "html", chromedp.ByQueryAll, nil
	}
	q, err := loc.Query()
	if err != nil {
		return "", nil, core.ErrInvalidLocator.WithLocator(loc).WithCause(err)
	}
	if q.Kind == locator.KindXPath {
		return q.Expr, chromedp.BySearch, nil
	}
	return q.Expr, chromedp.ByQueryAll, nil
}

// mergeContext derives a context from the chromedp tab context that also ends when caller
// is done, and carries caller's deadline or, lacking one, fallback.
func mergeContext(tab, caller context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	deadline, ok := caller.Deadline()
	if !ok {
		deadline = time.Now().Add(fallback)
	}
	ctx, cancel := context.WithDeadline(tab, deadline)
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// mapError translates protocol failures into the core error model.
func mapError(err error, loc locator.Locator) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, staleMarker),
		strings.Contains(msg, "No node with given id"),
		strings.Contains(msg, "Could not find node"),
		strings.Contains(msg, "Node is detached"):
		return core.ErrStaleElement.WithLocator(loc).WithCause(err)
	case strings.Contains(msg, context.DeadlineExceeded.Error()):
		return core.ErrDriverTimeout.WithLocator(loc).WithCause(err)
	}
	return err
}
