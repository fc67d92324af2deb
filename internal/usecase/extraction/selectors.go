package extraction

import "strings"

// interactiveSelectors is the fixed allow-list that defines an interactive
// element for action targeting. The "tab" entry covers the custom tab control
// some property pages ship instead of role=tab markup.
var interactiveSelectors = []string{
	"a",
	"button",
	"input",
	"select",
	"textarea",
	"tab",
	`[role="button"]`,
	`[role="radio"]`,
	`[role="option"]`,
	`[role="combobox"]`,
	`[role="textbox"]`,
	`[role="listbox"]`,
	`[role="menu"]`,
	`[role="link"]`,
	`[tabindex]:not([tabindex="-1"])`,
	`[contenteditable]:not([contenteditable="false"])`,
	"[onclick]",
	"[onkeydown]",
	"[onkeyup]",
	`[aria-disabled="false"]`,
}

// InteractiveSelector returns the combined selector for one query pass.
func InteractiveSelector() string {
	return strings.Join(interactiveSelectors, ", ")
}
