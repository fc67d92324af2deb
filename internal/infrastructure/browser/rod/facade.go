package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

var (
	_ output.Element = (*element)(nil)
	_ output.Window  = (*window)(nil)
)

// element adapts a live rod handle to the engine's DOM facade. Read accessors
// swallow protocol errors and return zero values: a handle that stopped
// answering belongs to a document that is gone, and the engine treats the
// zero geometry as invisible anyway.
type element struct {
	el *rod.Element
}

func wrapElement(el *rod.Element) output.Element {
	if el == nil {
		return nil
	}
	return &element{el: el}
}

// evalString runs js against the element and returns the string result.
func (e *element) evalString(js string, args ...any) string {
	obj, err := e.el.Eval(js, args...)
	if err != nil {
		return ""
	}
	return obj.Value.Str()
}

func (e *element) evalBool(js string, args ...any) bool {
	obj, err := e.el.Eval(js, args...)
	if err != nil {
		return false
	}
	return obj.Value.Bool()
}

func (e *element) TagName() string {
	return e.evalString(`() => this.tagName.toLowerCase()`)
}

func (e *element) Attribute(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *element) OwnText() string {
	return e.evalString(`() => {
		let out = "";
		for (const n of this.childNodes) {
			if (n.nodeType === Node.TEXT_NODE) out += n.data;
		}
		return out;
	}`)
}

func (e *element) TextContent() string {
	return e.evalString(`() => this.textContent ?? ""`)
}

func (e *element) RenderedText() string {
	text, err := e.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (e *element) Value() string {
	return e.evalString(`() => this.value ?? ""`)
}

func (e *element) SetValue(v string) error {
	_, err := e.el.Eval(`(v) => {
		if (this.isContentEditable) {
			this.textContent = v;
		} else {
			this.value = v;
		}
		this.dispatchEvent(new Event("input", {bubbles: true}));
		this.dispatchEvent(new Event("change", {bubbles: true}));
	}`, v)
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

func (e *element) IsContentEditable() bool {
	return e.evalBool(`() => this.isContentEditable === true`)
}

func (e *element) Disabled() bool {
	return e.evalBool(`() => this.disabled === true`)
}

func (e *element) BoundingRect() entity.Rect {
	obj, err := e.el.Eval(`() => {
		const r = this.getBoundingClientRect();
		return {x: r.x, y: r.y, width: r.width, height: r.height};
	}`)
	if err != nil {
		return entity.Rect{}
	}
	return entity.Rect{
		X:      obj.Value.Get("x").Num(),
		Y:      obj.Value.Get("y").Num(),
		Width:  obj.Value.Get("width").Num(),
		Height: obj.Value.Get("height").Num(),
	}
}

func (e *element) ComputedStyle(prop string) string {
	return e.evalString(`(p) => getComputedStyle(this).getPropertyValue(p)`, prop)
}

func (e *element) PseudoStyle(pseudo, prop string) string {
	return e.evalString(`(ps, p) => getComputedStyle(this, ps).getPropertyValue(p)`, pseudo, prop)
}

func (e *element) SetStyle(prop, value string) error {
	_, err := e.el.Eval(`(p, v) => this.style.setProperty(p, v, "important")`, prop, value)
	if err != nil {
		return fmt.Errorf("set style %s: %w", prop, err)
	}
	return nil
}

func (e *element) InlineStyle(prop string) string {
	return e.evalString(`(p) => this.style.getPropertyValue(p)`, prop)
}

func (e *element) QuerySelectorAll(selector string) []output.Element {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, wrapElement(el))
	}
	return out
}

func (e *element) ShadowRoot() output.Element {
	root, err := e.el.ShadowRoot()
	if err != nil {
		return nil
	}
	return wrapElement(root)
}

func (e *element) Parent() output.Element {
	parent, err := e.el.Parent()
	if err != nil {
		return nil
	}
	return wrapElement(parent)
}

func (e *element) FirstElementChild() output.Element {
	child, err := e.el.ElementByJS(rod.Eval(`() => this.firstElementChild`))
	if err != nil {
		return nil
	}
	return wrapElement(child)
}

func (e *element) ContentWindow() (output.Window, error) {
	frame, err := e.el.Frame()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", output.ErrFrameAccess, err)
	}
	// An OOPIF target answers the handle but not same-process DOM access;
	// probing the document settles it.
	if _, probeErr := frame.Eval(`() => document.readyState`); probeErr != nil {
		return nil, fmt.Errorf("%w: %v", output.ErrFrameAccess, probeErr)
	}
	return wrapWindow(frame), nil
}

func (e *element) OwnerWindow() output.Window {
	return wrapWindow(e.el.Page())
}

func (e *element) Same(other output.Element) bool {
	o, ok := other.(*element)
	if !ok {
		return false
	}
	if e.el.Object.ObjectID == o.el.Object.ObjectID {
		return true
	}
	eq, err := e.el.Equal(o.el)
	return err == nil && eq
}

func (e *element) Contains(other output.Element) bool {
	o, ok := other.(*element)
	if !ok {
		return false
	}
	if e.Same(other) {
		return true
	}
	yes, err := e.el.ContainsElement(o.el)
	return err == nil && yes
}

func (e *element) XPath() string {
	xp, err := e.el.GetXPath(false)
	if err != nil {
		return ""
	}
	return xp
}

func (e *element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Focus() error {
	return e.el.Focus()
}

func (e *element) ScrollIntoView() error {
	return e.el.ScrollIntoView()
}

func (e *element) SelectOptions() []entity.SelectOption {
	obj, err := e.el.Eval(`() => Array.from(this.options ?? []).map(o => ({
		text: o.text, value: o.value, selected: o.selected,
	}))`)
	if err != nil {
		return nil
	}
	var opts []entity.SelectOption
	for _, item := range obj.Value.Arr() {
		opts = append(opts, entity.SelectOption{
			Text:     item.Get("text").Str(),
			Value:    item.Get("value").Str(),
			Selected: item.Get("selected").Bool(),
		})
	}
	return opts
}

func (e *element) SelectByIndex(i int) error {
	_, err := e.el.Eval(`(i) => {
		this.selectedIndex = i;
		this.dispatchEvent(new Event("change", {bubbles: true}));
	}`, i)
	if err != nil {
		return fmt.Errorf("select option %d: %w", i, err)
	}
	return nil
}

// window adapts a rod page or frame page to the browsing-context facade.
type window struct {
	page *rod.Page
}

func wrapWindow(page *rod.Page) output.Window {
	if page == nil {
		return nil
	}
	return &window{page: page}
}

func (w *window) ID() string {
	return string(w.page.FrameID)
}

func (w *window) Document() output.Element {
	doc, err := w.page.Element(":root")
	if err != nil {
		return nil
	}
	return wrapElement(doc)
}

func (w *window) ElementFromPoint(x, y float64) output.Element {
	el, err := w.page.ElementByJS(rod.Eval(`(x, y) => document.elementFromPoint(x, y)`, x, y))
	if err != nil {
		return nil
	}
	return wrapElement(el)
}

func (w *window) ActiveElement() output.Element {
	el, err := w.page.ElementByJS(rod.Eval(`() => document.activeElement`))
	if err != nil {
		return nil
	}
	return wrapElement(el)
}

func (w *window) Viewport() entity.ViewportDetails {
	obj, err := w.page.Eval(`() => ({
		width: window.innerWidth,
		height: window.innerHeight,
		scrollX: window.scrollX,
		scrollY: window.scrollY,
		scrollWidth: document.documentElement.scrollWidth,
		scrollHeight: document.documentElement.scrollHeight,
	})`)
	if err != nil {
		return entity.ViewportDetails{}
	}
	return viewportFromJSON(obj.Value)
}

func viewportFromJSON(v gson.JSON) entity.ViewportDetails {
	return entity.ViewportDetails{
		Width:        v.Get("width").Num(),
		Height:       v.Get("height").Num(),
		ScrollX:      v.Get("scrollX").Num(),
		ScrollY:      v.Get("scrollY").Num(),
		ScrollWidth:  v.Get("scrollWidth").Num(),
		ScrollHeight: v.Get("scrollHeight").Num(),
	}
}

func (w *window) ScrollBy(dx, dy float64) error {
	_, err := w.page.Eval(`(dx, dy) => window.scrollBy(dx, dy)`, dx, dy)
	if err != nil {
		return fmt.Errorf("scroll by (%v, %v): %w", dx, dy, err)
	}
	return nil
}

func (w *window) WaitFrame(ctx context.Context) error {
	_, err := w.page.Context(ctx).Evaluate(
		rod.Eval(`() => new Promise(r => requestAnimationFrame(r))`).ByPromise())
	if err != nil {
		return fmt.Errorf("wait animation frame: %w", err)
	}
	return nil
}

func (w *window) URL() string {
	info, err := w.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}
