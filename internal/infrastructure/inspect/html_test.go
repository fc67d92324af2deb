package inspect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func compact(t *testing.T, raw string) string {
	t.Helper()
	return NewCompactor(DefaultCompactConfig()).Compact(raw)
}

func TestCompact_RemovesScriptAndStyle(t *testing.T) {
	out := compact(t, `
<body>
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<style")
	assert.Contains(t, out, `id="main"`)
}

func TestCompact_RemovesComments(t *testing.T) {
	out := compact(t, `
<body>
    <!-- internal note -->
    <div>Text</div>
</body>`)

	assert.NotContains(t, out, "internal note")
	assert.Contains(t, out, "<div>Text</div>")
}

func TestCompact_FiltersAttributes(t *testing.T) {
	out := compact(t, `
<body>
    <a href="https://example.com" class="link" id="x" data-x="1" aria-hidden="true" onclick="go()" style="color:red">Go</a>
</body>`)

	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `class="link"`)
	assert.Contains(t, out, `id="x"`)
	assert.NotContains(t, out, "data-x")
	assert.NotContains(t, out, "aria-hidden")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "style=")
}

func TestCompact_TruncatesLargeOutput(t *testing.T) {
	cfg := DefaultCompactConfig()
	cfg.MaxBytes = 100
	out := NewCompactor(cfg).Compact("<body><p>" + strings.Repeat("word ", 200) + "</p></body>")

	assert.LessOrEqual(t, len(out), 100+len("\n<!-- truncated -->"))
	assert.Contains(t, out, "<!-- truncated -->")
}

func TestCompact_PlainTextSurvives(t *testing.T) {
	// The parser normalizes bare text into a document; the text itself is
	// never lost.
	assert.Contains(t, compact(t, "just text, no markup"), "just text, no markup")
}
