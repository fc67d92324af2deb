package extraction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

const (
	// maxOwnTextLen is the cutoff, in runes, between the short-text and
	// long-text description branches.
	maxOwnTextLen = 80
	// maxParentTokens bounds the parent-text fallback without a hard
	// character cap that could cut mid-word.
	maxParentTokens = 8
)

// descriptionAttrs is the fixed attribute allow-list used by the attribute
// fallback branches, in output order.
var descriptionAttrs = []string{
	"label", "name", "value", "aria-label", "aria-describedby",
	"placeholder", "title", "alt",
}

// descStrategy is one branch of the description heuristic. Branches are tried
// in a fixed order and the first success wins; keeping them as an explicit
// list preserves the tie-break order and keeps each branch testable alone.
type descStrategy struct {
	name string
	fn   func(el output.Element) (string, bool)
}

var descStrategies = []descStrategy{
	{"select-options", describeSelect},
	{"own-text", describeOwnText},
	{"rendered-text", describeRenderedText},
	{"own-attributes", describeOwnAttributes},
	{"child-attributes", describeChildAttributes},
}

// Describe derives the short textual label for an element. The second return
// is false when no branch produced anything; such elements carry no usable
// description and are dropped from the result set.
func Describe(el output.Element, log output.LoggerPort) (string, bool) {
	for _, s := range descStrategies {
		if desc, ok := s.fn(el); ok {
			return desc, true
		}
	}
	log.Info("element has no usable description",
		"tag", el.TagName(), "xpath", el.XPath())
	return "", false
}

// describeSelect handles <select> elements: the currently selected option text
// plus the pipe-joined list of every option, prefixed with the parent context
// label. Selects whose options carry no resolvable text fall through to the
// generic branches.
func describeSelect(el output.Element) (string, bool) {
	if el.TagName() != "select" {
		return "", false
	}
	opts := el.SelectOptions()
	var texts []string
	selected := ""
	for _, o := range opts {
		t := entity.NormalizeWhitespace(o.Text)
		if t == "" {
			continue
		}
		texts = append(texts, t)
		if o.Selected {
			selected = t
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	var parts []string
	if p := parentFirstLine(el); p != "" {
		parts = append(parts, p)
	}
	if selected != "" {
		parts = append(parts, "selected: "+selected)
	}
	parts = append(parts, "options: "+strings.Join(texts, " | "))
	return strings.Join(parts, " "), true
}

// describeOwnText uses the element's own text when it is short enough,
// prefixed with the current value for text-entry fields.
func describeOwnText(el output.Element) (string, bool) {
	text := entity.NormalizeWhitespace(el.OwnText())
	if text == "" || utf8.RuneCountInString(text) > maxOwnTextLen {
		return "", false
	}
	if isTextEntry(el) {
		if v := entity.NormalizeWhitespace(el.Value()); v != "" {
			return v + " " + text, true
		}
	}
	return text, true
}

// describeRenderedText covers over-long own text: the rendered, layout-aware
// text replaces it when non-empty.
func describeRenderedText(el output.Element) (string, bool) {
	if utf8.RuneCountInString(entity.NormalizeWhitespace(el.OwnText())) <= maxOwnTextLen {
		return "", false
	}
	rendered := entity.NormalizeWhitespace(el.RenderedText())
	if rendered == "" {
		return "", false
	}
	return rendered, true
}

func describeOwnAttributes(el output.Element) (string, bool) {
	return describeByAttributes(el, el)
}

// describeChildAttributes applies the same attribute allow-list to the first
// element child instead.
func describeChildAttributes(el output.Element) (string, bool) {
	child := el.FirstElementChild()
	if child == nil {
		return "", false
	}
	return describeByAttributes(el, child)
}

func describeByAttributes(el, source output.Element) (string, bool) {
	var parts []string
	for _, name := range descriptionAttrs {
		if v, ok := source.Attribute(name); ok {
			if v = entity.NormalizeWhitespace(v); v != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", name, v))
			}
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	desc := strings.Join(parts, "; ")
	if p := parentFirstLine(el); p != "" {
		desc = p + " " + desc
	}
	return desc, true
}

// parentFirstLine returns the first line of the parent's rendered text,
// truncated to maxParentTokens whitespace-separated tokens with an ellipsis
// marker when truncated.
func parentFirstLine(el output.Element) string {
	parent := el.Parent()
	if parent == nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(parent.RenderedText()), "\n")
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > maxParentTokens {
		return strings.Join(tokens[:maxParentTokens], " ") + "..."
	}
	return strings.Join(tokens, " ")
}

// isTextEntry reports whether el is a field whose current value should prefix
// its description.
func isTextEntry(el output.Element) bool {
	switch el.TagName() {
	case "textarea":
		return true
	case "input":
		typ, ok := el.Attribute("type")
		if !ok {
			return true
		}
		switch strings.ToLower(typ) {
		case "", "text", "search", "email", "url", "tel", "password", "number":
			return true
		}
	}
	return false
}

// TagSignature builds the compact tag descriptor carried by each record: the
// tag name plus the role/type attributes that matter downstream.
func TagSignature(el output.Element) string {
	sig := el.TagName()
	if typ, ok := el.Attribute("type"); ok && typ != "" {
		sig += fmt.Sprintf(" type=%q", typ)
	}
	if role, ok := el.Attribute("role"); ok && role != "" {
		sig += fmt.Sprintf(" role=%q", role)
	}
	return sig
}
