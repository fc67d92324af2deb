package entity

import "math"

// Point is a pixel position. Unless stated otherwise, points held by the
// entities in this package are in top-viewport space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of two rectangles and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.Right(), o.Right())
	y2 := math.Min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}, false
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// ElementRecord is the canonical description of one interactive element,
// produced by an extraction cycle. Coordinates and the bounding box are always
// in top-viewport space; translation out of nested frame space happens exactly
// once, at extraction time.
type ElementRecord struct {
	Index        int     `json:"index"`
	Center       Point   `json:"center"`
	Description  string  `json:"description"`
	TagSignature string  `json:"tag_signature"`
	Box          Rect    `json:"box"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	TagName      string  `json:"tag_name"`
	XPath        string  `json:"xpath"`

	// Handle is the live element behind the record. It is owned by the
	// extraction cycle that produced the record and never crosses the
	// channel boundary.
	Handle any `json:"-"`
}

// SelectOption is one <select> option as seen at extraction or action time.
type SelectOption struct {
	Text     string `json:"text"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// ViewportDetails is a snapshot of the top window's viewport and scroll
// geometry, not a live handle.
type ViewportDetails struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	ScrollX      float64 `json:"scroll_x"`
	ScrollY      float64 `json:"scroll_y"`
	ScrollWidth  float64 `json:"scroll_width"`
	ScrollHeight float64 `json:"scroll_height"`
}

// PageState is the extraction payload posted to the background channel.
type PageState struct {
	InteractiveElements []ElementRecord `json:"interactive_elements"`
	Viewport            ViewportDetails `json:"viewport_info"`
	URL                 string          `json:"url"`
	CleanedHTML         string          `json:"cleaned_html,omitempty"`
}
