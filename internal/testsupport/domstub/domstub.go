// Package domstub is an in-memory implementation of the DOM facade ports,
// used by the engine tests so the core logic runs without a browser.
package domstub

import (
	"context"
	"strings"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

// Element implements output.Element over plain fields.
type Element struct {
	Tag             string
	Attrs           map[string]string
	OwnTextVal      string
	TextContentVal  string
	RenderedTextVal string
	ValueVal        string
	ContentEditable bool
	DisabledVal     bool
	Rect            entity.Rect
	Styles          map[string]string
	PseudoStyles    map[string]map[string]string
	Inline          map[string]string
	Shadow          *Element
	Frame           *Window
	FrameErr        error
	Options         []entity.SelectOption
	XPathVal        string

	ClickCount  int
	FocusCount  int
	ScrollCount int
	SetValueErr error
	OnSetValue  func(string)

	children []*Element
	parent   *Element
	owner    *Window
}

// Window implements output.Window.
type Window struct {
	IDVal       string
	Doc         *Element
	ViewportVal entity.ViewportDetails
	URLVal      string
	Active      *Element
	// Hit resolves ElementFromPoint; nil means nothing is hit anywhere.
	Hit func(x, y float64) *Element

	ScrollCalls []entity.Point
	FrameWaits  int
}

// NewElement builds an element with sane defaults.
func NewElement(tag string) *Element {
	return &Element{
		Tag:          strings.ToLower(tag),
		Attrs:        map[string]string{},
		Styles:       map[string]string{},
		PseudoStyles: map[string]map[string]string{},
		Inline:       map[string]string{},
	}
}

// Append attaches children.
func (e *Element) Append(kids ...*Element) *Element {
	for _, k := range kids {
		k.parent = e
		e.children = append(e.children, k)
	}
	return e
}

// NewWindow wires a window around a document root and propagates ownership.
func NewWindow(id string, doc *Element) *Window {
	w := &Window{IDVal: id, Doc: doc, ViewportVal: entity.ViewportDetails{Width: 1280, Height: 800}}
	adopt(doc, w)
	return w
}

func adopt(e *Element, w *Window) {
	if e == nil {
		return
	}
	e.owner = w
	for _, c := range e.children {
		adopt(c, w)
	}
	if e.Shadow != nil {
		e.Shadow.parent = e
		adopt(e.Shadow, w)
	}
}

// -- output.Element --

func (e *Element) TagName() string { return e.Tag }

func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) OwnText() string      { return e.OwnTextVal }
func (e *Element) TextContent() string  { return e.TextContentVal }
func (e *Element) RenderedText() string { return e.RenderedTextVal }
func (e *Element) Value() string        { return e.ValueVal }

func (e *Element) SetValue(v string) error {
	if e.SetValueErr != nil {
		return e.SetValueErr
	}
	if e.ContentEditable {
		e.TextContentVal = v
		e.RenderedTextVal = v
	} else {
		e.ValueVal = v
	}
	if e.OnSetValue != nil {
		e.OnSetValue(v)
	}
	return nil
}

func (e *Element) IsContentEditable() bool { return e.ContentEditable }
func (e *Element) Disabled() bool          { return e.DisabledVal }

func (e *Element) BoundingRect() entity.Rect { return e.Rect }

func (e *Element) ComputedStyle(prop string) string { return e.Styles[prop] }

func (e *Element) PseudoStyle(pseudo, prop string) string {
	if m, ok := e.PseudoStyles[pseudo]; ok {
		return m[prop]
	}
	return ""
}

func (e *Element) SetStyle(prop, value string) error {
	e.Inline[prop] = value
	if e.Styles == nil {
		e.Styles = map[string]string{}
	}
	e.Styles[prop] = value
	return nil
}

func (e *Element) InlineStyle(prop string) string { return e.Inline[prop] }

// QuerySelectorAll walks the subtree once and yields matches in document
// order, the same ordering a browser returns for a selector list.
func (e *Element) QuerySelectorAll(selector string) []output.Element {
	parts := strings.Split(selector, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	var out []output.Element
	e.walk(func(c *Element) {
		for _, part := range parts {
			if matches(c, part) {
				out = append(out, c)
				return
			}
		}
	})
	return out
}

// walk visits the subtree below e, not crossing shadow or frame boundaries.
func (e *Element) walk(fn func(*Element)) {
	for _, c := range e.children {
		fn(c)
		c.walk(fn)
	}
}

func (e *Element) ShadowRoot() output.Element {
	if e.Shadow == nil {
		return nil
	}
	return e.Shadow
}

func (e *Element) Parent() output.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) FirstElementChild() output.Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

func (e *Element) ContentWindow() (output.Window, error) {
	if e.FrameErr != nil {
		return nil, e.FrameErr
	}
	if e.Frame == nil {
		return nil, output.ErrFrameAccess
	}
	return e.Frame, nil
}

func (e *Element) OwnerWindow() output.Window {
	if e.owner == nil {
		return nil
	}
	return e.owner
}

func (e *Element) Same(other output.Element) bool {
	o, ok := other.(*Element)
	return ok && o == e
}

func (e *Element) Contains(other output.Element) bool {
	o, ok := other.(*Element)
	if !ok {
		return false
	}
	// Shadow roots carry a parent link to their host, so the walk crosses
	// shadow boundaries the way composed containment does.
	for cur := o; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

func (e *Element) XPath() string { return e.XPathVal }

func (e *Element) Click() error { e.ClickCount++; return nil }

func (e *Element) Focus() error {
	e.FocusCount++
	if e.owner != nil {
		e.owner.Active = e
	}
	return nil
}

func (e *Element) ScrollIntoView() error { e.ScrollCount++; return nil }

func (e *Element) SelectOptions() []entity.SelectOption { return e.Options }

func (e *Element) SelectByIndex(i int) error {
	for j := range e.Options {
		e.Options[j].Selected = j == i
	}
	if i >= 0 && i < len(e.Options) {
		e.ValueVal = e.Options[i].Value
	}
	return nil
}

// -- output.Window --

func (w *Window) ID() string               { return w.IDVal }
func (w *Window) Document() output.Element { return w.Doc }

func (w *Window) ElementFromPoint(x, y float64) output.Element {
	if w.Hit == nil {
		return nil
	}
	if el := w.Hit(x, y); el != nil {
		return el
	}
	return nil
}

func (w *Window) ActiveElement() output.Element {
	if w.Active == nil {
		return nil
	}
	return w.Active
}

func (w *Window) Viewport() entity.ViewportDetails { return w.ViewportVal }

func (w *Window) ScrollBy(dx, dy float64) error {
	w.ScrollCalls = append(w.ScrollCalls, entity.Point{X: dx, Y: dy})
	w.ViewportVal.ScrollX += dx
	w.ViewportVal.ScrollY += dy
	return nil
}

func (w *Window) WaitFrame(ctx context.Context) error {
	w.FrameWaits++
	return ctx.Err()
}

func (w *Window) URL() string { return w.URLVal }

// matches implements the small selector subset the engine uses: a leading tag
// name, [attr], [attr="v"], and :not([attr="v"]) steps.
func matches(e *Element, sel string) bool {
	if sel == "" {
		return false
	}
	rest := sel
	if rest[0] != '[' && rest[0] != ':' {
		end := strings.IndexAny(rest, "[:")
		tag := rest
		if end >= 0 {
			tag = rest[:end]
			rest = rest[end:]
		} else {
			rest = ""
		}
		if tag != "*" && e.Tag != strings.ToLower(tag) {
			return false
		}
	}
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, ":not("):
			end := strings.Index(rest, ")")
			if end < 0 {
				return false
			}
			if matchAttr(e, rest[5:end]) {
				return false
			}
			rest = rest[end+1:]
		case rest[0] == '[':
			end := strings.Index(rest, "]")
			if end < 0 {
				return false
			}
			if !matchAttr(e, rest[:end+1]) {
				return false
			}
			rest = rest[end+1:]
		default:
			return false
		}
	}
	return true
}

func matchAttr(e *Element, sel string) bool {
	sel = strings.TrimSuffix(strings.TrimPrefix(sel, "["), "]")
	name, want, hasVal := strings.Cut(sel, "=")
	v, present := e.Attrs[name]
	if !hasVal {
		return present
	}
	want = strings.Trim(want, `"'`)
	return present && v == want
}
