// Package extraction turns a live page into the flat list of interactive
// element records the rest of the system acts on. One extraction cycle builds
// the browsing-context tree, searches every context and shadow root, filters
// hidden and disabled elements, and emits records whose geometry is already
// translated into top-viewport space.
package extraction

import (
	"strings"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
	"page-pilot/internal/usecase/contexttree"
)

// Extractor runs extraction cycles against the top browsing context.
type Extractor struct {
	log output.LoggerPort
}

func New(log output.LoggerPort) *Extractor {
	return &Extractor{log: log}
}

// Result is one extraction cycle's output. Records are owned by the cycle
// that produced them; the tree is kept alongside so collaborators (the
// highlighter) can resolve frame contexts without rebuilding it.
type Result struct {
	Records  []entity.ElementRecord
	Viewport entity.ViewportDetails
	URL      string
	Tree     *contexttree.Tree
}

// candidate pairs an element with the context node it was found in, so its
// geometry can be translated exactly once.
type candidate struct {
	el   output.Element
	node *contexttree.Node
}

// Extract performs one full cycle. The context tree is rebuilt from scratch
// every time; staleness is a bigger correctness risk than the rebuild cost.
func (x *Extractor) Extract(top output.Window) *Result {
	tree := contexttree.Build(top, x.log)
	judge := NewJudge(top, x.log)

	var candidates []candidate
	seen := make(map[string][]output.Element)
	tree.Walk(func(n *contexttree.Node) {
		x.collectFromRoot(n, n.Window.Document(), seen, &candidates)
	})

	records := make([]entity.ElementRecord, 0, len(candidates))
	for _, c := range candidates {
		if x.isDisabled(c.el) {
			continue
		}
		rect := c.el.BoundingRect()
		box := rect.Translate(c.node.Offset.X, c.node.Offset.Y)
		if x.isHidden(c.el, rect) || judge.Buried(c.el, box) {
			continue
		}
		desc, ok := Describe(c.el, x.log)
		if !ok {
			continue
		}
		records = append(records, entity.ElementRecord{
			Index:        len(records),
			Center:       box.Center(),
			Description:  desc,
			TagSignature: TagSignature(c.el),
			Box:          box,
			Width:        rect.Width,
			Height:       rect.Height,
			TagName:      c.el.TagName(),
			XPath:        x.qualifiedXPath(tree, c.el),
			Handle:       c.el,
		})
	}

	x.log.Debug("extraction cycle finished",
		"candidates", len(candidates), "records", len(records))
	return &Result{
		Records:  records,
		Viewport: top.Viewport(),
		URL:      top.URL(),
		Tree:     tree,
	}
}

// collectFromRoot runs the selector set against one query root (a document or
// a shadow root), dedups by identity, then recurses into shadow roots found
// below it. Child iframes are handled by the tree walk, not here.
func (x *Extractor) collectFromRoot(n *contexttree.Node, root output.Element, seen map[string][]output.Element, out *[]candidate) {
	if root == nil {
		return
	}
	for _, el := range root.QuerySelectorAll(InteractiveSelector()) {
		if el.TagName() == "iframe" {
			continue
		}
		key := n.Window.ID()
		dup := false
		for _, known := range seen[key] {
			if known.Same(el) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[key] = append(seen[key], el)
		*out = append(*out, candidate{el: el, node: n})
	}
	for _, host := range root.QuerySelectorAll("*") {
		if sr := host.ShadowRoot(); sr != nil {
			x.collectFromRoot(n, sr, seen, out)
		}
	}
}

// isHidden applies the CSS and geometry visibility filters. Occlusion is
// checked separately because it needs top-space coordinates.
func (x *Extractor) isHidden(el output.Element, rect entity.Rect) bool {
	if rect.Width <= 1 || rect.Height <= 1 {
		return true
	}
	if _, ok := el.Attribute("hidden"); ok {
		return true
	}
	if el.ComputedStyle("display") == "none" ||
		el.ComputedStyle("visibility") == "hidden" ||
		el.ComputedStyle("opacity") == "0" {
		return true
	}
	return x.clippedByOverflow(el, rect)
}

// clippedByOverflow walks ancestors with overflow hidden; an element whose
// box no longer intersects such an ancestor is scrolled out of rendered
// existence.
func (x *Extractor) clippedByOverflow(el output.Element, rect entity.Rect) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		overflow := p.ComputedStyle("overflow")
		if overflow != "hidden" && overflow != "clip" {
			continue
		}
		if _, ok := rect.Intersect(p.BoundingRect()); !ok {
			return true
		}
	}
	return false
}

// isDisabled excludes elements regardless of visibility.
func (x *Extractor) isDisabled(el output.Element) bool {
	if el.Disabled() {
		return true
	}
	if v, ok := el.Attribute("aria-disabled"); ok && strings.EqualFold(v, "true") {
		return true
	}
	if _, ok := el.Attribute("disabled"); ok {
		return true
	}
	if _, ok := el.Attribute("readonly"); ok && isTextEntry(el) {
		return true
	}
	return false
}

// qualifiedXPath prefixes an element's xpath with the xpaths of its hosting
// iframe chain, so it stays meaningful from the top document.
func (x *Extractor) qualifiedXPath(tree *contexttree.Tree, el output.Element) string {
	var parts []string
	for _, n := range tree.PathTo(el) {
		if n.FrameElement != nil {
			parts = append(parts, n.FrameElement.XPath())
		}
	}
	parts = append(parts, el.XPath())
	return strings.Join(parts, " >> ")
}
