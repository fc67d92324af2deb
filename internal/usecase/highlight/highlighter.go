// Package highlight temporarily outlines a chosen element in a color that
// contrasts with its background, for operator and audit confirmation. The
// outline never alters page layout.
package highlight

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/usecase/contexttree"
	"page-pilot/internal/usecase/extraction"
)

const (
	outlineWidth = "3px"
	// renderSettle is the fixed delay after the animation-frame waits
	// before the outline change is verified.
	renderSettle = 100 * time.Millisecond
	// holdDuration is how long a successful highlight stays up before the
	// automatic revert.
	holdDuration = 2500 * time.Millisecond
	// unchangedThreshold: computed-outline similarity above this means the
	// style change never rendered (a competing stylesheet rule won).
	unchangedThreshold = 0.95
)

// pseudoElements that occupy space; an element carrying one of these with
// rendered content is risky to outline directly.
var pseudoElements = []string{
	"::before", "::after", "::marker", "::placeholder", "::file-selector-button",
}

// Highlighter applies and reverts element outlines. At most one highlight is
// active at a time; a new request synchronously reverts the previous one.
type Highlighter struct {
	log   output.LoggerPort
	sleep func(ctx context.Context, d time.Duration) error
	sim   *metrics.SorensenDice

	mu     sync.Mutex
	active *activeHighlight
}

type activeHighlight struct {
	el         output.Element
	prevInline string
	timer      *time.Timer
}

func New(log output.LoggerPort) *Highlighter {
	return &Highlighter{
		log:   log,
		sleep: sleepCtx,
		sim:   metrics.NewSorensenDice(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Highlight outlines el (or, under the pseudo-element guard, its parent) and
// verifies the change actually rendered. The tree is the current extraction
// cycle's context tree; it supplies the frame-local animation timing.
func (h *Highlighter) Highlight(ctx context.Context, tree *contexttree.Tree, el output.Element) error {
	h.Revert()

	// An outline on an off-screen element is invisible to the operator;
	// failure to scroll is not fatal, the outline still applies.
	if err := el.ScrollIntoView(); err != nil {
		h.log.Debug("scroll into view failed", "tag", el.TagName(), "error", err)
	}

	target, onParent := h.chooseTarget(el)
	ok, err := h.attempt(ctx, tree, target)
	if err != nil {
		return err
	}
	if !ok && onParent {
		// Already on the parent; nothing further to fall back to.
		return fmt.Errorf("highlight did not render on parent of %s", el.TagName())
	}
	if !ok {
		parent := el.Parent()
		if parent == nil || h.parentAmbiguous(parent, el) {
			return fmt.Errorf("highlight did not render on %s and parent is not usable", el.TagName())
		}
		if ok, err = h.attempt(ctx, tree, parent); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("highlight did not render on %s or its parent", el.TagName())
		}
	}
	return nil
}

// chooseTarget prefers the parent when el carries space-occupying pseudo
// content, unless the parent hosts enough other interactive elements that the
// ambiguity outweighs the pseudo-element risk. The second return reports
// that the parent was chosen.
func (h *Highlighter) chooseTarget(el output.Element) (output.Element, bool) {
	if !hasPseudoContent(el) {
		return el, false
	}
	parent := el.Parent()
	if parent == nil || h.parentAmbiguous(parent, el) {
		return el, false
	}
	return parent, true
}

// parentAmbiguous reports whether parent contains more than one interactive
// element besides el.
func (h *Highlighter) parentAmbiguous(parent, el output.Element) bool {
	others := 0
	for _, candidate := range parent.QuerySelectorAll(extraction.InteractiveSelector()) {
		if !candidate.Same(el) {
			others++
		}
	}
	return others > 1
}

// attempt applies the outline to target and verifies it took effect. The
// second return is false when the computed outline stayed fuzzy-identical to
// its pre-change value.
func (h *Highlighter) attempt(ctx context.Context, tree *contexttree.Tree, target output.Element) (bool, error) {
	before := target.ComputedStyle("outline")
	prevInline := target.InlineStyle("outline")

	color := ContrastColor(EffectiveBackground(target))
	outline := fmt.Sprintf("%s solid %s", outlineWidth, CSS(color))
	if err := target.SetStyle("outline", outline); err != nil {
		return false, fmt.Errorf("apply outline: %w", err)
	}

	if err := h.waitRender(ctx, tree, target); err != nil {
		return false, err
	}

	after := target.ComputedStyle("outline")
	if h.unchanged(before, after) {
		h.log.Debug("outline change did not render",
			"tag", target.TagName(), "outline", outline)
		h.restore(target, prevInline)
		return false, nil
	}

	h.arm(target, prevInline)
	return true, nil
}

// waitRender waits one animation frame in the target's own frame context,
// one more in the hosting frame's context when the target lives inside an
// iframe, then the fixed render-settle delay.
func (h *Highlighter) waitRender(ctx context.Context, tree *contexttree.Tree, target output.Element) error {
	node := tree.NodeForElement(target)
	if node == nil {
		node = tree.Root()
	}
	if err := node.Window.WaitFrame(ctx); err != nil {
		return err
	}
	if node.Parent != nil {
		if err := node.Parent.Window.WaitFrame(ctx); err != nil {
			return err
		}
	}
	return h.sleep(ctx, renderSettle)
}

// unchanged compares pre/post computed outlines by fuzzy string similarity.
func (h *Highlighter) unchanged(before, after string) bool {
	if strings.TrimSpace(before) == strings.TrimSpace(after) {
		return true
	}
	return strutil.Similarity(before, after, h.sim) >= unchangedThreshold
}

// arm registers the highlight as active and schedules the automatic revert.
func (h *Highlighter) arm(target output.Element, prevInline string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state := &activeHighlight{el: target, prevInline: prevInline}
	state.timer = time.AfterFunc(holdDuration, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.active == state {
			h.restore(state.el, state.prevInline)
			h.active = nil
		}
	})
	h.active = state
}

// Revert synchronously removes any still-active highlight.
func (h *Highlighter) Revert() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return
	}
	h.active.timer.Stop()
	h.restore(h.active.el, h.active.prevInline)
	h.active = nil
}

func (h *Highlighter) restore(el output.Element, prevInline string) {
	if err := el.SetStyle("outline", prevInline); err != nil {
		h.log.Error("failed to restore outline", "error", err)
	}
}

// hasPseudoContent reports whether any space-occupying pseudo-element of el
// renders non-empty content.
func hasPseudoContent(el output.Element) bool {
	for _, ps := range pseudoElements {
		switch el.PseudoStyle(ps, "content") {
		case "", "none", "normal", `""`, "''":
		default:
			return true
		}
	}
	return false
}
