package cdp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

func TestQueryFor(t *testing.T) {
	tests := []struct {
		name string
		loc  locator.Locator
		want string
	}{
		{"root", locator.Locator{}, "html"},
		{"css chain", locator.Class("label").Within(locator.ID("panel")), `[id="panel"] .label`},
		{"xpath", locator.XPath("//div"), "//div"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, by, err := queryFor(tt.loc)
			if err != nil {
				t.Fatalf("queryFor() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("queryFor() = %q, want %q", got, tt.want)
			}
			if by == nil {
				t.Error("queryFor() returned no query option")
			}
		})
	}

	if _, _, err := queryFor(locator.CSS("span").Within(locator.LinkText("Next"))); !errors.Is(err, core.ErrInvalidLocator) {
		t.Errorf("queryFor() error = %v, want ErrInvalidLocator", err)
	}
}

func TestMergeContext_CallerDeadline(t *testing.T) {
	caller, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, done := mergeContext(context.Background(), caller, time.Hour)
	defer done()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("merged context has no deadline")
	}
	want, _ := caller.Deadline()
	if !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}

func TestMergeContext_Fallback(t *testing.T) {
	ctx, done := mergeContext(context.Background(), context.Background(), time.Minute)
	defer done()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("merged context has no deadline")
	}
	if left := time.Until(deadline); left <= 0 || left > time.Minute {
		t.Errorf("time left = %v, want (0, 1m]", left)
	}
}

func TestMergeContext_CallerCancel(t *testing.T) {
	caller, cancel := context.WithCancel(context.Background())
	ctx, done := mergeContext(context.Background(), caller, time.Minute)
	defer done()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("merged context not cancelled with caller")
	}
}

func TestMergeContext_TabCancel(t *testing.T) {
	tab, cancel := context.WithCancel(context.Background())
	ctx, done := mergeContext(tab, context.Background(), time.Minute)
	defer done()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("merged context not cancelled with tab")
	}
}

func TestMapError(t *testing.T) {
	loc := locator.ID("save")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"page-side stale", errors.New("Error: " + staleMarker), core.ErrStaleElement},
		{"unknown node", errors.New("No node with given id found (-32000)"), core.ErrStaleElement},
		{"deadline", errors.New("context deadline exceeded"), core.ErrDriverTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err, loc); !errors.Is(got, tt.want) {
				t.Errorf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}

	if mapError(nil, loc) != nil {
		t.Error("mapError(nil) != nil")
	}
	other := errors.New("boom")
	if got := mapError(other, loc); got != other {
		t.Errorf("mapError() = %v, want unchanged", got)
	}
}

func TestGuarded(t *testing.T) {
	fn := guarded(`function() { return 1; }`)
	if !strings.Contains(fn, `throw new Error("`+staleMarker+`")`) {
		t.Errorf("guarded() = %s, missing stale check", fn)
	}
	if !strings.Contains(fn, "(function() { return 1; }).apply(this, arguments)") {
		t.Errorf("guarded() = %s, missing call", fn)
	}
}

func TestClose_Wrapped(t *testing.T) {
	d := New(context.Background())
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if d.Context() == nil {
		t.Error("Context() = nil")
	}
}

func TestQuadCenter(t *testing.T) {
	tests := []struct {
		name string
		quad dom.Quad
		x, y float64
	}{
		{"box", dom.Quad{10, 20, 30, 20, 30, 60, 10, 60}, 20, 40},
		{"empty", dom.Quad{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := quadCenter(tt.quad)
			if x != tt.x || y != tt.y {
				t.Errorf("quadCenter() = (%v, %v), want (%v, %v)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestElement_ActionsOnClosedTab(t *testing.T) {
	tab, cancel := context.WithCancel(context.Background())
	cancel()
	el := &Element{d: New(tab), node: &cdp.Node{}, loc: locator.ID("menu")}

	actions := map[string]func(context.Context) error{
		"Hover":          el.Hover,
		"DoubleClick":    el.DoubleClick,
		"RightClick":     el.RightClick,
		"ScrollIntoView": el.ScrollIntoView,
	}
	for name, fn := range actions {
		if err := fn(context.Background()); err == nil {
			t.Errorf("%s() on a closed tab returned nil", name)
		}
	}
	if _, err := el.CSSProperty(context.Background(), "color"); err == nil {
		t.Error("CSSProperty() on a closed tab returned nil")
	}
}
