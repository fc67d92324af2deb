package actor

import (
	"fmt"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

// typeInto writes value into a field and verifies the result, reporting
// ground truth rather than intent when the write goes sideways.
func (a *Actor) typeInto(target output.Element, value string, outcome *entity.ActionOutcome) {
	if value == "" {
		outcome.Note("no value supplied, typing an empty string instead.")
	}

	before := fieldText(target)
	if before == value {
		outcome.Note("field already holds the desired text.")
		return
	}

	if !typable(target) {
		if err := target.Click(); err != nil {
			a.log.Error("fallback click failed", "error", err)
		}
		outcome.Fail(fmt.Sprintf("cannot type into a %s element, clicked it instead.", target.TagName()))
		return
	}

	if err := target.SetValue(value); err != nil {
		outcome.Fail(fmt.Sprintf("failed to write into field: %v.", err))
		return
	}

	// Re-focus explicitly, then re-read: some widgets rewrite their value
	// on focus transitions and the report must show what actually stuck.
	if err := target.Focus(); err != nil {
		a.log.Debug("re-focus after typing failed", "error", err)
	}
	after := fieldText(target)
	switch {
	case after == before:
		outcome.Fail(fmt.Sprintf("field text did not change; it still reads %q.", after))
	case after != value:
		outcome.Fail(fmt.Sprintf("field text changed but does not match; it now reads %q.", after))
	default:
		outcome.Note("typed the value into the field.")
	}
}

// typable reports whether the element has a writable text representation.
func typable(el output.Element) bool {
	switch el.TagName() {
	case "input", "textarea":
		return true
	}
	return el.IsContentEditable()
}

// fieldText reads the current text of a field through the property
// appropriate for its kind.
func fieldText(el output.Element) string {
	switch el.TagName() {
	case "input", "textarea":
		return el.Value()
	}
	if el.IsContentEditable() {
		return el.TextContent()
	}
	return el.RenderedText()
}
