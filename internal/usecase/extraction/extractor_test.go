package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pilot/internal/domain/entity"
	"page-pilot/internal/testsupport/domstub"
)

// visible makes an element pass the geometry filter.
func visible(el *domstub.Element, x, y float64) *domstub.Element {
	el.Rect = entity.Rect{X: x, Y: y, Width: 80, Height: 24}
	return el
}

func TestExtract_BasicRecords(t *testing.T) {
	btn := visible(domstub.NewElement("button"), 10, 10)
	btn.OwnTextVal = "Save"
	btn.XPathVal = "/html/body/button"
	link := visible(domstub.NewElement("a"), 10, 50)
	link.OwnTextVal = "Home"
	plain := visible(domstub.NewElement("div"), 10, 90) // not interactive

	top := domstub.NewWindow("top", domstub.NewElement("html").Append(btn, link, plain))
	result := New(domstub.NewLogger()).Extract(top)

	require.Len(t, result.Records, 2)
	assert.Equal(t, 0, result.Records[0].Index)
	assert.Equal(t, "Save", result.Records[0].Description)
	assert.Equal(t, "button", result.Records[0].TagName)
	assert.Equal(t, entity.Point{X: 50, Y: 22}, result.Records[0].Center)
	assert.Equal(t, "/html/body/button", result.Records[0].XPath)
	assert.Same(t, btn, result.Records[0].Handle)
	assert.Equal(t, 1, result.Records[1].Index)
}

func TestExtract_CoordinateCompositionAcrossFrames(t *testing.T) {
	btn := visible(domstub.NewElement("button"), 10, 20)
	btn.OwnTextVal = "Deep"
	innerWin := domstub.NewWindow("inner", domstub.NewElement("html").Append(btn))

	innerFrame := domstub.NewElement("iframe")
	innerFrame.Rect = entity.Rect{X: 5, Y: 15, Width: 400, Height: 300}
	innerFrame.Frame = innerWin
	midWin := domstub.NewWindow("mid", domstub.NewElement("html").Append(innerFrame))

	midFrame := domstub.NewElement("iframe")
	midFrame.Rect = entity.Rect{X: 100, Y: 200, Width: 800, Height: 600}
	midFrame.Frame = midWin
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(midFrame))

	result := New(domstub.NewLogger()).Extract(top)

	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	// Local rect offset plus every hosting iframe's offset, each measured
	// in its own parent frame.
	assert.Equal(t, entity.Rect{X: 115, Y: 235, Width: 80, Height: 24}, rec.Box)
	assert.Equal(t, entity.Point{X: 155, Y: 247}, rec.Center)
}

func TestExtract_ShadowRootsSearched(t *testing.T) {
	shadowBtn := visible(domstub.NewElement("button"), 30, 30)
	shadowBtn.OwnTextVal = "Inside shadow"

	host := visible(domstub.NewElement("div"), 0, 0)
	host.Shadow = domstub.NewElement("shadow-root")
	host.Shadow.Append(shadowBtn)

	top := domstub.NewWindow("top", domstub.NewElement("html").Append(host))
	result := New(domstub.NewLogger()).Extract(top)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "Inside shadow", result.Records[0].Description)
}

func TestExtract_HiddenAndDisabledFiltered(t *testing.T) {
	tiny := visible(domstub.NewElement("button"), 0, 0)
	tiny.Rect.Height = 1
	tiny.OwnTextVal = "tiny"

	noDisplay := visible(domstub.NewElement("button"), 0, 40)
	noDisplay.Styles["display"] = "none"
	noDisplay.OwnTextVal = "invisible"

	hiddenAttr := visible(domstub.NewElement("button"), 0, 80)
	hiddenAttr.Attrs["hidden"] = ""
	hiddenAttr.OwnTextVal = "hidden attr"

	ariaDisabled := visible(domstub.NewElement("button"), 0, 120)
	ariaDisabled.Attrs["aria-disabled"] = "true"
	ariaDisabled.OwnTextVal = "aria disabled"

	nativeDisabled := visible(domstub.NewElement("button"), 0, 160)
	nativeDisabled.DisabledVal = true
	nativeDisabled.OwnTextVal = "native disabled"

	readonlyField := visible(domstub.NewElement("input"), 0, 200)
	readonlyField.Attrs["type"] = "text"
	readonlyField.Attrs["readonly"] = ""
	readonlyField.Attrs["aria-label"] = "frozen"

	alive := visible(domstub.NewElement("button"), 0, 240)
	alive.OwnTextVal = "alive"

	top := domstub.NewWindow("top", domstub.NewElement("html").Append(
		tiny, noDisplay, hiddenAttr, ariaDisabled, nativeDisabled, readonlyField, alive))
	result := New(domstub.NewLogger()).Extract(top)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "alive", result.Records[0].Description)
}

func TestExtract_OverflowClipped(t *testing.T) {
	clipped := visible(domstub.NewElement("button"), 500, 0)
	clipped.OwnTextVal = "scrolled away"

	box := domstub.NewElement("div")
	box.Styles["overflow"] = "hidden"
	box.Rect = entity.Rect{X: 0, Y: 0, Width: 200, Height: 100}
	box.Append(clipped)

	top := domstub.NewWindow("top", domstub.NewElement("html").Append(box))
	result := New(domstub.NewLogger()).Extract(top)

	assert.Empty(t, result.Records)
}

func TestExtract_OccludedDropped(t *testing.T) {
	covered := visible(domstub.NewElement("button"), 10, 10)
	covered.OwnTextVal = "covered"
	overlay := domstub.NewElement("div")
	overlay.Rect = entity.Rect{X: 0, Y: 0, Width: 500, Height: 500}

	top := domstub.NewWindow("top", domstub.NewElement("html").Append(covered, overlay))
	top.Hit = func(x, y float64) *domstub.Element { return overlay }
	result := New(domstub.NewLogger()).Extract(top)

	assert.Empty(t, result.Records)
}

func TestExtract_UndescribableDropped(t *testing.T) {
	mute := visible(domstub.NewElement("button"), 10, 10)

	log := domstub.NewLogger()
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(mute))
	result := New(log).Extract(top)

	assert.Empty(t, result.Records)
	assert.True(t, log.Contains("no usable description"))
}

func TestExtract_DedupAcrossSelectors(t *testing.T) {
	// Matches both the tag selector and the role selector; must appear once.
	a := visible(domstub.NewElement("a"), 10, 10)
	a.Attrs["role"] = "link"
	a.OwnTextVal = "Home"

	top := domstub.NewWindow("top", domstub.NewElement("html").Append(a))
	result := New(domstub.NewLogger()).Extract(top)

	assert.Len(t, result.Records, 1)
}

func TestExtract_QualifiedXPathThroughFrames(t *testing.T) {
	btn := visible(domstub.NewElement("button"), 0, 0)
	btn.OwnTextVal = "Deep"
	btn.XPathVal = "/html/body/button"
	innerWin := domstub.NewWindow("inner", domstub.NewElement("html").Append(btn))

	frame := domstub.NewElement("iframe")
	frame.XPathVal = "/html/body/iframe"
	frame.Frame = innerWin
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(frame))

	result := New(domstub.NewLogger()).Extract(top)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "/html/body/iframe >> /html/body/button", result.Records[0].XPath)
}

func TestInteractiveSelectorCoversRolesAndHandlers(t *testing.T) {
	sel := InteractiveSelector()
	for _, part := range []string{
		"select", "textarea", `[role="combobox"]`,
		`[tabindex]:not([tabindex="-1"])`, "[onclick]", `[aria-disabled="false"]`,
	} {
		assert.Contains(t, sel, part)
	}
}
