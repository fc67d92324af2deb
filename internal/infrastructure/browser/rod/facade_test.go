package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pilot/internal/testsupport/domstub"
)

const facadeTestHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="save" aria-label="Save draft" style="width:80px;height:24px">Save</button>
	<input id="email" type="text" placeholder="Email" />
	<select id="dept">
		<option value="hr">Human Resources</option>
		<option value="fin" selected>Finance</option>
	</select>
	<div id="editor" contenteditable="true">draft</div>
</body>
</html>`

// launchTest boots a headless browser against a local test page. Skipped in
// short mode; needs a Chromium binary.
func launchTest(t *testing.T) *Browser {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, facadeTestHTML)
	}))
	t.Cleanup(server.Close)

	cfg := DefaultBrowserConfig()
	cfg.Headless = true
	browser, err := Launch(cfg, domstub.NewLogger())
	require.NoError(t, err)
	t.Cleanup(browser.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	require.NoError(t, browser.Navigate(ctx, server.URL))
	return browser
}

func TestFacade_ElementReads(t *testing.T) {
	b := launchTest(t)
	doc := b.Top().Document()
	require.NotNil(t, doc)

	buttons := doc.QuerySelectorAll("#save")
	require.Len(t, buttons, 1)
	btn := buttons[0]

	assert.Equal(t, "button", btn.TagName())
	assert.Equal(t, "Save", btn.OwnText())
	label, ok := btn.Attribute("aria-label")
	assert.True(t, ok)
	assert.Equal(t, "Save draft", label)
	_, ok = btn.Attribute("missing")
	assert.False(t, ok)

	rect := btn.BoundingRect()
	assert.InDelta(t, 80, rect.Width, 1)
	assert.InDelta(t, 24, rect.Height, 1)
	assert.NotEmpty(t, btn.XPath())
	assert.True(t, btn.Same(btn))
	assert.True(t, doc.Contains(btn))
	assert.False(t, btn.Contains(doc))
}

func TestFacade_ValueRoundTrip(t *testing.T) {
	b := launchTest(t)
	doc := b.Top().Document()

	field := doc.QuerySelectorAll("#email")[0]
	require.NoError(t, field.SetValue("a@b.test"))
	assert.Equal(t, "a@b.test", field.Value())

	editor := doc.QuerySelectorAll("#editor")[0]
	assert.True(t, editor.IsContentEditable())
	require.NoError(t, editor.SetValue("rewritten"))
	assert.Equal(t, "rewritten", editor.TextContent())
}

func TestFacade_SelectOptions(t *testing.T) {
	b := launchTest(t)
	doc := b.Top().Document()

	combo := doc.QuerySelectorAll("#dept")[0]
	opts := combo.SelectOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, "Human Resources", opts[0].Text)
	assert.True(t, opts[1].Selected)

	require.NoError(t, combo.SelectByIndex(0))
	assert.Equal(t, "hr", combo.Value())
}

func TestFacade_StyleAndWindow(t *testing.T) {
	b := launchTest(t)
	top := b.Top()
	doc := top.Document()

	btn := doc.QuerySelectorAll("#save")[0]
	require.NoError(t, btn.SetStyle("outline", "3px solid rgb(255, 0, 0)"))
	assert.Equal(t, "3px solid rgb(255, 0, 0)", btn.InlineStyle("outline"))
	assert.Contains(t, btn.ComputedStyle("outline"), "rgb(255, 0, 0)")

	vp := top.Viewport()
	assert.Greater(t, vp.Width, float64(0))
	assert.Greater(t, vp.Height, float64(0))
	require.NoError(t, top.ScrollBy(0, 10))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, top.WaitFrame(ctx))
	assert.NotEmpty(t, top.ID())
}

func TestMonitor_TracksMutationsAndVisibility(t *testing.T) {
	b := launchTest(t)
	mon := b.Monitor()

	assert.True(t, mon.DocumentVisible())
	assert.False(t, mon.Unloaded())

	before := mon.LastMutationAt()
	doc := b.Top().Document()
	btn := doc.QuerySelectorAll("#save")[0]
	require.NoError(t, btn.SetStyle("color", "blue"))
	time.Sleep(100 * time.Millisecond)
	assert.True(t, mon.LastMutationAt().After(before) || mon.LastMutationAt().Equal(before))
}
