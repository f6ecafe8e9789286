package htmldom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

const page = `<html><body>
<div id="panel" class="panel main">
  <span class="label">Loading</span>
  <input id="name" name="name" value="abc" placeholder="Your name">
  <input id="agree" type="checkbox">
  <button id="save" disabled>Save</button>
  <a href="/next">Next page</a>
  <select id="size"><option value="s">Small</option><option value="m" selected>Medium</option></select>
</div>
<div id="hidden" style="display: none"><span class="label">Hidden</span></div>
</body></html>`

func newDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := New(page, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func findOne(t *testing.T, d *Driver, loc locator.Locator) core.Element {
	t.Helper()
	els, err := d.FindAll(context.Background(), loc)
	if err != nil {
		t.Fatalf("FindAll(%s) error = %v", loc, err)
	}
	if len(els) != 1 {
		t.Fatalf("FindAll(%s) = %d elements, want 1", loc, len(els))
	}
	return els[0]
}

func TestFindAll(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	tests := []struct {
		name string
		loc  locator.Locator
		want int
	}{
		{"css", locator.CSS("span.label"), 2},
		{"scoped id", locator.Class("label").Within(locator.ID("panel")), 1},
		{"xpath", locator.XPath(`//input`), 2},
		{"link text", locator.LinkText("Next page"), 1},
		{"partial link text scoped", locator.PartialLinkText("Next").Within(locator.ID("panel")), 1},
		{"class padded", locator.Class("main"), 1},
		{"missing", locator.ID("nope"), 0},
		{"root", locator.Locator{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := d.FindAll(ctx, tt.loc)
			if err != nil {
				t.Fatalf("FindAll() error = %v", err)
			}
			if len(els) != tt.want {
				t.Errorf("FindAll() = %d elements, want %d", len(els), tt.want)
			}
		})
	}
}

func TestFindAll_InvalidLocator(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	for _, loc := range []locator.Locator{
		locator.CSS("div[[["),
		locator.XPath("//div[@"),
		locator.CSS("div > span").Within(locator.LinkText("x")),
	} {
		_, err := d.FindAll(ctx, loc)
		if !errors.Is(err, core.ErrInvalidLocator) {
			t.Errorf("FindAll(%s) error = %v, want ErrInvalidLocator", loc, err)
		}
	}
}

func TestFindAll_FailOnFind(t *testing.T) {
	d, err := New(page, Config{FailOnFind: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if _, err := d.FindAll(ctx, locator.ID("save")); err != nil {
		t.Fatalf("first FindAll() error = %v", err)
	}
	if _, err := d.FindAll(ctx, locator.ID("save")); err == nil {
		t.Error("second FindAll() expected simulated failure")
	}
	if d.Finds() != 2 {
		t.Errorf("Finds() = %d, want 2", d.Finds())
	}
}

func TestFindAll_DelayRespectsContext(t *testing.T) {
	d, err := New(page, Config{FindDelay: time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := d.FindAll(ctx, locator.ID("save")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("FindAll() error = %v, want deadline exceeded", err)
	}
}

func TestElementReads(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	label := findOne(t, d, locator.Class("label").Within(locator.ID("panel")))
	if text, _ := label.Text(ctx); text != "Loading" {
		t.Errorf("Text() = %q, want %q", text, "Loading")
	}
	if tag, _ := label.TagName(ctx); tag != "span" {
		t.Errorf("TagName() = %q, want %q", tag, "span")
	}

	input := findOne(t, d, locator.ID("name"))
	if v, _ := input.Value(ctx); v != "abc" {
		t.Errorf("Value() = %q, want %q", v, "abc")
	}
	if v, ok, _ := input.Attribute(ctx, "placeholder"); !ok || v != "Your name" {
		t.Errorf("Attribute(placeholder) = %q, %v", v, ok)
	}
	if _, ok, _ := input.Attribute(ctx, "missing"); ok {
		t.Error("Attribute(missing) reported present")
	}

	sel := findOne(t, d, locator.ID("size"))
	if v, _ := sel.Value(ctx); v != "m" {
		t.Errorf("select Value() = %q, want %q", v, "m")
	}

	save := findOne(t, d, locator.ID("save"))
	if enabled, _ := save.IsEnabled(ctx); enabled {
		t.Error("IsEnabled() = true for disabled button")
	}

	hidden := findOne(t, d, locator.Class("label").Within(locator.ID("hidden")))
	if vis, _ := hidden.IsVisible(ctx); vis {
		t.Error("IsVisible() = true inside display:none")
	}
}

func TestTypeAndClear(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()
	input := findOne(t, d, locator.ID("name"))

	if err := input.Type(ctx, "def"); err != nil {
		t.Fatalf("Type() error = %v", err)
	}
	if v, _ := input.Value(ctx); v != "abcdef" {
		t.Errorf("Value() after Type = %q, want %q", v, "abcdef")
	}
	if err := input.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if v, _ := input.Value(ctx); v != "" {
		t.Errorf("Value() after Clear = %q, want empty", v)
	}

	button := findOne(t, d, locator.ID("save"))
	if err := button.Type(ctx, "x"); !errors.Is(err, core.ErrNotInteractable) {
		t.Errorf("Type() on button error = %v, want ErrNotInteractable", err)
	}
}

func TestClickDefaults(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	box := findOne(t, d, locator.ID("agree"))
	if err := box.Click(ctx); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if _, ok, _ := box.Attribute(ctx, "checked"); !ok {
		t.Error("checkbox not checked after click")
	}
	_ = box.Click(ctx)
	if _, ok, _ := box.Attribute(ctx, "checked"); ok {
		t.Error("checkbox still checked after second click")
	}

	small := findOne(t, d, locator.CSS(`option[value="s"]`))
	if err := small.Click(ctx); err != nil {
		t.Fatalf("Click() option error = %v", err)
	}
	if v, _ := findOne(t, d, locator.ID("size")).Value(ctx); v != "s" {
		t.Errorf("select Value() = %q, want %q", v, "s")
	}

	if err := findOne(t, d, locator.ID("save")).Click(ctx); !errors.Is(err, core.ErrNotInteractable) {
		t.Errorf("Click() disabled error = %v, want ErrNotInteractable", err)
	}
}

func TestHandlersBubble(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	var target string
	d.OnClick("#panel", func(sel *goquery.Selection, doc *goquery.Document) {
		target, _ = sel.Attr("id")
		doc.Find("#panel .label").SetText("Ready")
	})

	if err := findOne(t, d, locator.ID("agree")).Click(ctx); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if target != "agree" {
		t.Errorf("handler target = %q, want %q", target, "agree")
	}
	text, _ := findOne(t, d, locator.Class("label").Within(locator.ID("panel"))).Text(ctx)
	if text != "Ready" {
		t.Errorf("Text() = %q, want %q", text, "Ready")
	}
}

func TestBlurHandler(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	d.On(EventBlur, "#name", func(sel *goquery.Selection, doc *goquery.Document) {
		sel.SetAttr("value", "formatted")
	})

	input := findOne(t, d, locator.ID("name"))
	if err := input.Blur(ctx); err != nil {
		t.Fatalf("Blur() error = %v", err)
	}
	if v, _ := input.Value(ctx); v != "formatted" {
		t.Errorf("Value() = %q, want %q", v, "formatted")
	}
}

func TestPointerEvents(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	var fired []string
	for _, event := range []string{EventHover, EventDoubleClick, EventContextMenu, EventScroll} {
		event := event
		d.On(event, "#panel", func(sel *goquery.Selection, doc *goquery.Document) {
			fired = append(fired, event)
		})
	}

	el := findOne(t, d, locator.Class("label").Within(locator.ID("panel")))
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Hover", el.Hover},
		{"DoubleClick", el.DoubleClick},
		{"RightClick", el.RightClick},
		{"ScrollIntoView", el.ScrollIntoView},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			t.Fatalf("%s() error = %v", step.name, err)
		}
	}

	want := []string{EventHover, EventDoubleClick, EventContextMenu, EventScroll}
	if len(fired) != len(want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired[%d] = %q, want %q", i, fired[i], want[i])
		}
	}

	hidden := findOne(t, d, locator.Class("label").Within(locator.ID("hidden")))
	if err := hidden.Hover(ctx); !errors.Is(err, core.ErrNotInteractable) {
		t.Errorf("Hover() hidden error = %v, want ErrNotInteractable", err)
	}
}

func TestCSSProperty(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()
	d.Mutate(func(doc *goquery.Document) {
		doc.Find("#panel").SetAttr("style", "color: rgb(1, 2, 3); border: 1px solid")
		doc.Find("#save").SetAttr("style", "Background-Color:red")
	})

	tests := []struct {
		name string
		loc  locator.Locator
		prop string
		want string
	}{
		{"own style", locator.ID("save"), "background-color", "red"},
		{"inherited", locator.ID("save"), "color", "rgb(1, 2, 3)"},
		{"not inherited", locator.ID("save"), "border", ""},
		{"display", locator.ID("hidden"), "display", "none"},
		{"unset", locator.ID("name"), "width", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findOne(t, d, tt.loc).CSSProperty(ctx, tt.prop)
			if err != nil {
				t.Fatalf("CSSProperty() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CSSProperty(%q) = %q, want %q", tt.prop, got, tt.want)
			}
		})
	}
}

func TestFindAll_QuotedValues(t *testing.T) {
	d := newDriver(t)
	d.Mutate(func(doc *goquery.Document) {
		doc.Find("#panel").AppendHtml(`<a id="pipe&#34;12" name="a\b">12&#34; pipe</a><a>Bob&#39;s &#34;big&#34; pipe</a>`)
	})

	tests := []struct {
		name string
		loc  locator.Locator
	}{
		{"id css", locator.ID(`pipe"12`)},
		{"name css", locator.Name(`a\b`)},
		{"id xpath", locator.ID(`pipe"12`).Within(locator.XPath("//div"))},
		{"link text", locator.LinkText(`12" pipe`)},
		{"both quotes", locator.PartialLinkText(`Bob's "big"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := d.FindAll(context.Background(), tt.loc)
			if err != nil {
				t.Fatalf("FindAll(%s) error = %v", tt.loc, err)
			}
			if len(els) != 1 {
				t.Errorf("FindAll(%s) = %d elements, want 1", tt.loc, len(els))
			}
		})
	}
}

func TestStaleAfterReplace(t *testing.T) {
	d := newDriver(t)
	ctx := context.Background()

	label := findOne(t, d, locator.Class("label").Within(locator.ID("panel")))
	d.Mutate(func(doc *goquery.Document) {
		doc.Find("#panel .label").ReplaceWithHtml(`<span class="label">Ready</span>`)
	})

	if _, err := label.Text(ctx); !errors.Is(err, core.ErrStaleElement) {
		t.Errorf("Text() error = %v, want ErrStaleElement", err)
	}
	text, _ := findOne(t, d, locator.Class("label").Within(locator.ID("panel"))).Text(ctx)
	if text != "Ready" {
		t.Errorf("re-resolved Text() = %q, want %q", text, "Ready")
	}
}

func TestAfter(t *testing.T) {
	d := newDriver(t)
	done := make(chan struct{})

	d.After(10*time.Millisecond, func(doc *goquery.Document) {
		doc.Find("#save").RemoveAttr("disabled")
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("After() callback did not run")
	}
	if enabled, _ := findOne(t, d, locator.ID("save")).IsEnabled(context.Background()); !enabled {
		t.Error("button still disabled after mutation")
	}
}

func TestScreenshot(t *testing.T) {
	data, err := newDriver(t).Screenshot(context.Background())
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if len(data) < 8 || data[0] != 0x89 || data[1] != 0x50 {
		t.Error("Screenshot() did not return PNG data")
	}
}
