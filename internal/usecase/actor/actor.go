// Package actor executes actions against the most recent extraction snapshot
// and waits for page stability before reporting. A snapshot-guard state
// machine enforces that at most one extraction's worth of element records is
// ever held: acting on records from a previous DOM generation is the one
// mistake this layer exists to prevent.
package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
	"page-pilot/internal/usecase/contexttree"
	"page-pilot/internal/usecase/extraction"
	"page-pilot/internal/usecase/highlight"
)

var (
	// ErrSnapshotHeld signals an extraction request while a snapshot is
	// already held; the caller must act on or discard it first.
	ErrSnapshotHeld = errors.New("extraction requested while a snapshot is held")
	// ErrNoSnapshot signals an action request with no snapshot held.
	ErrNoSnapshot = errors.New("action requested with no snapshot held")
	// ErrBadTarget signals a target index outside the held snapshot.
	ErrBadTarget = errors.New("action target index out of range")
)

// Config carries the fixed delays of the action path.
type Config struct {
	// FocusSettle is the pause between focusing a target and dispatching
	// the privileged Enter keystroke.
	FocusSettle time.Duration
	// StabilityInitialDelay runs once before polling starts.
	StabilityInitialDelay time.Duration
	// StabilityPollInterval is both the polling tick and the quiet period
	// that defines stability.
	StabilityPollInterval time.Duration
	// StabilityCeiling bounds the whole wait.
	StabilityCeiling time.Duration
	// ScrollFraction of the viewport height moved per scroll action.
	ScrollFraction float64
}

func DefaultConfig() Config {
	return Config{
		FocusSettle:           150 * time.Millisecond,
		StabilityInitialDelay: 500 * time.Millisecond,
		StabilityPollInterval: 500 * time.Millisecond,
		StabilityCeiling:      15 * time.Second,
		ScrollFraction:        0.9,
	}
}

// Actor is the action-execution state machine. It is driven sequentially;
// only one extraction or action is ever in flight per page.
type Actor struct {
	top       output.Window
	monitor   output.PageMonitor
	input     output.PrivilegedInput
	channel   output.Channel
	log       output.LoggerPort
	extractor *extraction.Extractor
	marker    *highlight.Highlighter
	cfg       Config

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	// snapshot is nil in the idle state. tree accompanies it for frame
	// lookups and dies with it.
	snapshot []entity.ElementRecord
	tree     *contexttree.Tree
}

func New(top output.Window, monitor output.PageMonitor, input output.PrivilegedInput,
	channel output.Channel, log output.LoggerPort, cfg Config) *Actor {
	return &Actor{
		top:       top,
		monitor:   monitor,
		input:     input,
		channel:   channel,
		log:       log,
		extractor: extraction.New(log),
		marker:    highlight.New(log),
		cfg:       cfg,
		sleep:     sleepCtx,
		now:       time.Now,
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

// Extract runs one extraction cycle and posts the page state. A second
// extraction without an intervening action or discard is a protocol
// violation reported as a terminal payload; the held snapshot stays intact.
func (a *Actor) Extract(ctx context.Context) error {
	if a.snapshot != nil {
		a.terminal(ctx, "extraction requested while a snapshot is held")
		return ErrSnapshotHeld
	}
	result := a.extractor.Extract(a.top)
	a.snapshot = result.Records
	a.tree = result.Tree

	state := &entity.PageState{
		InteractiveElements: stripHandles(result.Records),
		Viewport:            result.Viewport,
		URL:                 result.URL,
	}
	a.post(func() error { return a.channel.PostPageState(ctx, state) }, "page state")
	return nil
}

// Discard drops the held snapshot without acting on it.
func (a *Actor) Discard() {
	a.snapshot = nil
	a.tree = nil
}

// Snapshot exposes the held records (read-only by convention).
func (a *Actor) Snapshot() []entity.ElementRecord {
	return a.snapshot
}

// Perform dispatches one action against the held snapshot, waits for the
// page to settle, clears the snapshot, and posts the outcome. The snapshot is
// always cleared before reporting, success or not, so the double-extraction
// guard re-arms.
func (a *Actor) Perform(ctx context.Context, req entity.ActionRequest) error {
	if a.snapshot == nil {
		a.terminal(ctx, "action requested with no snapshot held")
		return ErrNoSnapshot
	}

	outcome := &entity.ActionOutcome{Success: true}
	var target output.Element
	if req.Kind.NeedsTarget() {
		if req.Target < 0 || req.Target >= len(a.snapshot) {
			a.Discard()
			a.terminal(ctx, fmt.Sprintf("invalid action target %d", req.Target))
			return ErrBadTarget
		}
		target = a.snapshot[req.Target].Handle.(output.Element)
	}

	a.dispatch(ctx, req, target, outcome)

	if err := a.awaitStability(ctx); err != nil {
		if errors.Is(err, ErrWaitAborted) {
			// The page is going away and the channel with it. Nothing
			// is reported; tearing down silently is the contract.
			a.Discard()
			a.log.Debug("stability wait aborted, skipping report")
			return nil
		}
		a.Discard()
		return err
	}

	a.Discard()
	a.post(func() error { return a.channel.PostActionResult(ctx, outcome) }, "action result")
	return nil
}

// Highlight outlines the element at index in the held snapshot.
func (a *Actor) Highlight(ctx context.Context, index int) error {
	if a.snapshot == nil {
		return ErrNoSnapshot
	}
	if index < 0 || index >= len(a.snapshot) {
		return ErrBadTarget
	}
	el := a.snapshot[index].Handle.(output.Element)
	return a.marker.Highlight(ctx, a.tree, el)
}

func (a *Actor) dispatch(ctx context.Context, req entity.ActionRequest, target output.Element, outcome *entity.ActionOutcome) {
	switch req.Kind {
	case entity.ActionClick:
		// A dispatched click is always reported as a success; click
		// failure detection is a known, accepted gap.
		if err := target.Click(); err != nil {
			a.log.Error("click dispatch failed", "error", err)
		}
		outcome.Note("clicked element.")
	case entity.ActionType:
		a.typeInto(target, req.Value, outcome)
	case entity.ActionSelect:
		a.selectOption(target, req.Value, outcome)
	case entity.ActionPressEnter:
		a.pressEnterOn(ctx, target, outcome)
	case entity.ActionHover:
		a.hover(ctx, target, outcome)
	case entity.ActionScrollUp:
		a.scroll(-1, outcome)
	case entity.ActionScrollDown:
		a.scroll(1, outcome)
	case entity.ActionPressEnterFocused:
		if err := a.input.PressEnter(ctx); err != nil {
			outcome.Fail(fmt.Sprintf("failed to press enter: %v.", err))
			return
		}
		outcome.Note("pressed enter on the focused element.")
	default:
		outcome.Fail(fmt.Sprintf("unknown action %q.", req.Kind))
	}
}

func (a *Actor) pressEnterOn(ctx context.Context, target output.Element, outcome *entity.ActionOutcome) {
	// A target that already holds focus skips the refocus and its settle
	// pause.
	if !a.holdsFocus(target) {
		if err := target.Focus(); err != nil {
			outcome.Fail(fmt.Sprintf("failed to focus target: %v.", err))
			return
		}
		if err := a.sleep(ctx, a.cfg.FocusSettle); err != nil {
			outcome.Fail("interrupted before enter dispatch.")
			return
		}
	}
	if err := a.input.PressEnter(ctx); err != nil {
		outcome.Fail(fmt.Sprintf("failed to press enter: %v.", err))
		return
	}
	outcome.Note("pressed enter on element.")
}

// holdsFocus reports whether target is the active element of its own window.
func (a *Actor) holdsFocus(target output.Element) bool {
	win := target.OwnerWindow()
	if win == nil {
		return false
	}
	active := win.ActiveElement()
	return active != nil && target.Same(active)
}

func (a *Actor) hover(ctx context.Context, target output.Element, outcome *entity.ActionOutcome) {
	center := a.recordFor(target).Center
	if err := a.input.MovePointer(ctx, center.X, center.Y); err != nil {
		outcome.Fail(fmt.Sprintf("hover failed: %v.", err))
		return
	}
	outcome.Note("hovered over element.")
}

func (a *Actor) scroll(direction float64, outcome *entity.ActionOutcome) {
	height := a.top.Viewport().Height
	if err := a.top.ScrollBy(0, direction*a.cfg.ScrollFraction*height); err != nil {
		outcome.Fail(fmt.Sprintf("scroll failed: %v.", err))
		return
	}
	if direction < 0 {
		outcome.Note("scrolled up.")
	} else {
		outcome.Note("scrolled down.")
	}
}

// recordFor finds the snapshot record owning a handle; dispatch always passes
// a handle taken from the snapshot, so the lookup cannot miss.
func (a *Actor) recordFor(target output.Element) entity.ElementRecord {
	for _, r := range a.snapshot {
		if el, ok := r.Handle.(output.Element); ok && el.Same(target) {
			return r
		}
	}
	return entity.ElementRecord{}
}

// post delivers a payload and treats a closed channel as expected, silent
// termination.
func (a *Actor) post(send func() error, what string) {
	if err := send(); err != nil {
		if errors.Is(err, output.ErrChannelClosed) {
			a.log.Info("channel closed while posting", "payload", what)
			return
		}
		a.log.Error("failed to post payload", "payload", what, "error", err)
	}
}

func (a *Actor) terminal(ctx context.Context, reason string) {
	a.log.Warn("terminal condition", "reason", reason)
	a.post(func() error {
		return a.channel.PostTerminal(ctx, &entity.TerminalPayload{Reason: reason})
	}, "terminal")
}

// stripHandles copies records for the channel boundary with the live-element
// ownership handle removed; every other field passes through unchanged.
func stripHandles(records []entity.ElementRecord) []entity.ElementRecord {
	out := make([]entity.ElementRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i].Handle = nil
	}
	return out
}
