// Package contexttree mirrors a page's nested browsing contexts: the top
// document plus every reachable same-origin iframe. Each node carries the
// cumulative pixel offset of its viewport from the top-level viewport, so
// frame-local geometry can be translated into top-viewport space by a single
// addition.
package contexttree

import (
	"errors"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

// Node is one browsing context. FrameElement is the hosting iframe element,
// nil for the root.
type Node struct {
	FrameElement output.Element
	Window       output.Window
	Offset       entity.Point
	Children     []*Node
	Parent       *Node
}

// Tree is built once per extraction cycle and discarded with it. It is an
// explicit value passed to the routines that need it, never ambient state.
type Tree struct {
	root    *Node
	byFrame map[string]*Node
}

// Build walks the frame hierarchy starting at the top window. Frames whose
// content cannot be reached are pruned and logged at low severity; they are
// invisible to the rest of the system, never a fatal condition.
func Build(top output.Window, log output.LoggerPort) *Tree {
	t := &Tree{
		root:    &Node{Window: top},
		byFrame: make(map[string]*Node),
	}
	t.byFrame[top.ID()] = t.root
	t.discover(t.root, log)
	return t
}

// discover attaches children of n, fixing each child's offset at attach time
// before recursing into it. Offsets compose strictly downward, so the order
// attach-then-recurse must not change.
func (t *Tree) discover(n *Node, log output.LoggerPort) {
	for _, frame := range n.Window.Document().QuerySelectorAll("iframe") {
		win, err := frame.ContentWindow()
		if err != nil {
			if errors.Is(err, output.ErrFrameAccess) {
				log.Debug("skipping inaccessible frame", "parent", n.Window.URL())
			} else {
				log.Debug("frame lookup failed", "error", err)
			}
			continue
		}
		rect := frame.BoundingRect()
		child := &Node{
			FrameElement: frame,
			Window:       win,
			Offset:       entity.Point{X: n.Offset.X + rect.X, Y: n.Offset.Y + rect.Y},
			Parent:       n,
		}
		n.Children = append(n.Children, child)
		t.byFrame[win.ID()] = child
		t.discover(child, log)
	}
}

// Root returns the node for the top window.
func (t *Tree) Root() *Node { return t.root }

// NodeForWindow returns the node owning a window, or nil when the window was
// pruned or never discovered.
func (t *Tree) NodeForWindow(win output.Window) *Node {
	if win == nil {
		return nil
	}
	return t.byFrame[win.ID()]
}

// NodeForElement locates the node whose document owns el by walking the
// element's owner window up through the registered contexts.
func (t *Tree) NodeForElement(el output.Element) *Node {
	return t.NodeForWindow(el.OwnerWindow())
}

// NodeForFrame returns the node hosted by an iframe element, or nil. Browser
// adapters hand out a fresh handle value per query for the same DOM node, so
// frames cannot be keyed by handle identity; the scan over the few registered
// contexts matches with Same instead.
func (t *Tree) NodeForFrame(frame output.Element) *Node {
	for _, n := range t.byFrame {
		if n.FrameElement != nil && n.FrameElement.Same(frame) {
			return n
		}
	}
	return nil
}

// PathTo returns the ordered chain of nodes from the root down to the node
// containing el. Used to build qualified locator strings for elements nested
// in frames.
func (t *Tree) PathTo(el output.Element) []*Node {
	n := t.NodeForElement(el)
	if n == nil {
		return nil
	}
	var path []*Node
	for ; n != nil; n = n.Parent {
		path = append([]*Node{n}, path...)
	}
	return path
}

// Walk visits every node depth-first, parents before children.
func (t *Tree) Walk(fn func(*Node)) {
	var visit func(*Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.root)
}
