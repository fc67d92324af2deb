package entity

import "strings"

// ActionKind names one of the actions the page actor can perform.
type ActionKind string

const (
	ActionClick             ActionKind = "CLICK"
	ActionType              ActionKind = "TYPE"
	ActionSelect            ActionKind = "SELECT"
	ActionPressEnter        ActionKind = "PRESS_ENTER"
	ActionHover             ActionKind = "HOVER"
	ActionScrollUp          ActionKind = "SCROLL_UP"
	ActionScrollDown        ActionKind = "SCROLL_DOWN"
	ActionPressEnterFocused ActionKind = "PRESS_ENTER_FOCUSED"
)

// NeedsTarget reports whether the action addresses a specific element index.
func (k ActionKind) NeedsTarget() bool {
	switch k {
	case ActionScrollUp, ActionScrollDown, ActionPressEnterFocused:
		return false
	}
	return true
}

// ActionRequest is one action order from the background orchestrator.
type ActionRequest struct {
	Kind   ActionKind `json:"action"`
	Target int        `json:"target,omitempty"`
	Value  string     `json:"value,omitempty"`
}

// ActionOutcome accumulates the result of one action attempt. It is passed by
// reference through the action's helper calls so each helper can append
// diagnostic detail without the caller re-threading state.
type ActionOutcome struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

// Note appends a diagnostic fragment to the outcome's result text.
func (o *ActionOutcome) Note(msg string) {
	if o.Result == "" {
		o.Result = msg
		return
	}
	o.Result += " " + msg
}

// Fail marks the outcome failed and appends msg.
func (o *ActionOutcome) Fail(msg string) {
	o.Success = false
	o.Note(msg)
}

// TerminalPayload signals an unrecoverable local condition to the
// orchestrator. It is a report, never a thrown error.
type TerminalPayload struct {
	Reason string `json:"reason"`
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims
// the ends. Descriptions and typed-text comparisons both rely on it.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
