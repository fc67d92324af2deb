package rod

import (
	"time"

	"github.com/go-rod/rod"

	"page-pilot/internal/application/port/output"
)

var _ output.PageMonitor = (*Monitor)(nil)

// monitorScript installs the page-side observation state before any document
// script runs. One MutationObserver stamps the last mutation time; the
// pagehide listener raises the unload flag.
const monitorScript = `() => {
	const state = {lastMutation: Date.now(), unloaded: false};
	window.__pagePilotMonitor = state;
	const observe = () => {
		new MutationObserver(() => { state.lastMutation = Date.now(); })
			.observe(document.documentElement, {
				childList: true,
				subtree: true,
				attributes: true,
				characterData: true,
			});
	};
	if (document.documentElement) {
		observe();
	} else {
		document.addEventListener("DOMContentLoaded", observe, {once: true});
	}
	window.addEventListener("pagehide", () => { state.unloaded = true; });
}`

// Monitor reads the observation state out of the live page. A page that stops
// answering eval calls is reported as unloaded and invisible; that is exactly
// the teardown signal the stability wait needs.
type Monitor struct {
	page *rod.Page
}

// NewMonitor arms the monitor script on the page and every future document it
// navigates to.
func NewMonitor(page *rod.Page) (*Monitor, error) {
	if _, err := page.EvalOnNewDocument("(" + monitorScript + ")()"); err != nil {
		return nil, err
	}
	// The current document predates the on-new-document hook.
	if _, err := page.Eval(monitorScript); err != nil {
		return nil, err
	}
	return &Monitor{page: page}, nil
}

func (m *Monitor) LastMutationAt() time.Time {
	obj, err := m.page.Eval(`() => window.__pagePilotMonitor?.lastMutation ?? 0`)
	if err != nil {
		return time.Time{}
	}
	ms := int64(obj.Value.Num())
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func (m *Monitor) Unloaded() bool {
	obj, err := m.page.Eval(`() => window.__pagePilotMonitor?.unloaded === true`)
	if err != nil {
		return true
	}
	return obj.Value.Bool()
}

func (m *Monitor) DocumentVisible() bool {
	obj, err := m.page.Eval(`() => document.visibilityState === "visible"`)
	if err != nil {
		return false
	}
	return obj.Value.Bool()
}
