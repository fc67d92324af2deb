package output

import (
	"context"
	"errors"

	"page-pilot/internal/domain/entity"
)

// ErrFrameAccess is returned by Element.ContentWindow when a frame's content
// document is not reachable (cross-origin). It is the only reliable signal;
// callers must never try to infer accessibility from the frame URL.
var ErrFrameAccess = errors.New("frame content not accessible")

// Element is a handle to one live DOM element inside some browsing context.
// Geometry is always frame-local viewport coordinates; translation to
// top-viewport space is the caller's job.
type Element interface {
	// TagName returns the lower-cased tag name.
	TagName() string
	// Attribute returns the attribute value and whether it is present.
	Attribute(name string) (string, bool)

	// OwnText returns the concatenated direct text nodes of the element.
	OwnText() string
	// TextContent returns the full subtree text (textContent).
	TextContent() string
	// RenderedText returns the layout-aware text (innerText).
	RenderedText() string

	// Value reads the current value for input/textarea/select elements.
	Value() string
	// SetValue writes the value property (or text content for
	// contenteditable hosts) and fires the input/change events.
	SetValue(v string) error
	IsContentEditable() bool
	// Disabled reflects the native disabled property.
	Disabled() bool

	BoundingRect() entity.Rect
	ComputedStyle(prop string) string
	// PseudoStyle resolves a computed style property for a pseudo-element
	// such as "::before".
	PseudoStyle(pseudo, prop string) string
	// SetStyle sets an inline style property with !important priority.
	SetStyle(prop, value string) error
	// InlineStyle reads the current inline style value for prop ("" if unset).
	InlineStyle(prop string) string

	QuerySelectorAll(selector string) []Element
	// ShadowRoot returns the open shadow root as a queryable container, or
	// nil when the element hosts none.
	ShadowRoot() Element
	Parent() Element
	FirstElementChild() Element

	// ContentWindow returns the browsing context hosted by an iframe
	// element. Cross-origin content yields ErrFrameAccess.
	ContentWindow() (Window, error)
	// OwnerWindow returns the browsing context the element itself lives in.
	OwnerWindow() Window

	// Same reports identity with another element handle.
	Same(other Element) bool
	// Contains reports whether other is the element itself or a descendant.
	Contains(other Element) bool

	XPath() string

	Click() error
	Focus() error
	ScrollIntoView() error

	// SelectOptions lists the options of a <select> element.
	SelectOptions() []entity.SelectOption
	// SelectByIndex picks option i of a <select> and fires change.
	SelectByIndex(i int) error
}

// Window is one browsing context: the top page or one iframe's content.
type Window interface {
	// ID identifies the context stably for the lifetime of one extraction
	// cycle (frame id).
	ID() string
	// Document returns the context's root element for querying.
	Document() Element
	// ElementFromPoint resolves the topmost element at a frame-local point,
	// or nil when the point hits nothing.
	ElementFromPoint(x, y float64) Element
	// ActiveElement returns the focused element, or nil.
	ActiveElement() Element
	Viewport() entity.ViewportDetails
	ScrollBy(dx, dy float64) error
	// WaitFrame resolves after one animation frame in this context.
	WaitFrame(ctx context.Context) error
	URL() string
}
