package extraction

import (
	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

// Judge decides which of two overlapping elements is actually rendered on
// top, and whether an element is buried under others entirely. Both tests
// point-sample the page with hit-tests, descending through same-origin iframe
// boundaries by translating the point into each frame's local space.
type Judge struct {
	top output.Window
	log output.LoggerPort
}

func NewJudge(top output.Window, log output.LoggerPort) *Judge {
	return &Judge{top: top, log: log}
}

// resolveAt returns the deepest element rendered at a top-viewport point.
func (j *Judge) resolveAt(p entity.Point) output.Element {
	win := j.top
	x, y := p.X, p.Y
	var hit output.Element
	for {
		el := win.ElementFromPoint(x, y)
		if el == nil {
			return hit
		}
		hit = el
		if el.TagName() != "iframe" {
			return hit
		}
		sub, err := el.ContentWindow()
		if err != nil {
			// Cross-origin content stays opaque; the frame element
			// itself is the deepest thing we can see.
			return hit
		}
		rect := el.BoundingRect()
		x -= rect.X
		y -= rect.Y
		win = sub
	}
}

// samplePoints yields the four corners and center of a box.
func samplePoints(box entity.Rect) []entity.Point {
	return []entity.Point{
		{X: box.X, Y: box.Y},
		{X: box.Right(), Y: box.Y},
		{X: box.X, Y: box.Bottom()},
		{X: box.Right(), Y: box.Bottom()},
		box.Center(),
	}
}

// Buried reports whether el, occupying box in top-viewport space, is fully
// covered by other content: sample points resolve to foreign elements and
// none resolves to el or one of its descendants. Points that hit nothing
// (scrolled outside the viewport) carry no occlusion evidence.
func (j *Judge) Buried(el output.Element, box entity.Rect) bool {
	foreign := 0
	for _, p := range samplePoints(box) {
		hit := j.resolveAt(p)
		if hit == nil {
			continue
		}
		if el.Contains(hit) {
			return false
		}
		foreign++
	}
	return foreign > 0
}

// Compare scores two specific overlapping elements by how many sample points
// of their overlap rectangle resolve to each. Disjoint boxes sample nothing
// and score 0-0. The sampled count is returned for diagnostics.
func (j *Judge) Compare(a, b output.Element, boxA, boxB entity.Rect) (scoreA, scoreB, sampled int) {
	overlap, ok := boxA.Intersect(boxB)
	if !ok {
		return 0, 0, 0
	}
	points := []entity.Point{
		{X: overlap.X, Y: overlap.Y},
		{X: overlap.Right(), Y: overlap.Y},
		{X: overlap.X, Y: overlap.Bottom()},
		{X: overlap.Right(), Y: overlap.Bottom()},
	}
	// Each element's own center joins the sample only when it falls inside
	// the overlap.
	for _, c := range []entity.Point{boxA.Center(), boxB.Center()} {
		if overlap.Contains(c) {
			points = append(points, c)
		}
	}
	for _, p := range points {
		hit := j.resolveAt(p)
		if hit == nil {
			continue
		}
		switch {
		case a.Contains(hit):
			scoreA++
		case b.Contains(hit):
			scoreB++
		}
	}
	return scoreA, scoreB, len(points)
}

// Foreground returns whichever of the two elements wins the comparison, or
// nil when the score is tied (logged as ambiguous).
func (j *Judge) Foreground(a, b output.Element, boxA, boxB entity.Rect) output.Element {
	scoreA, scoreB, sampled := j.Compare(a, b, boxA, boxB)
	switch {
	case scoreA > scoreB:
		return a
	case scoreB > scoreA:
		return b
	}
	j.log.Info("occlusion comparison ambiguous",
		"score", scoreA, "sampled", sampled,
		"a", a.TagName(), "b", b.TagName())
	return nil
}
