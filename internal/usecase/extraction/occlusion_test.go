package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"page-pilot/internal/domain/entity"
	"page-pilot/internal/testsupport/domstub"
)

func TestCompare_DisjointBoxesScoreNothing(t *testing.T) {
	a := domstub.NewElement("button")
	b := domstub.NewElement("button")
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(a, b))
	judge := NewJudge(top, domstub.NewLogger())

	scoreA, scoreB, sampled := judge.Compare(a, b,
		entity.Rect{X: 0, Y: 0, Width: 10, Height: 10},
		entity.Rect{X: 100, Y: 100, Width: 10, Height: 10})

	assert.Zero(t, scoreA)
	assert.Zero(t, scoreB)
	assert.Zero(t, sampled)
}

func TestCompare_TopmostWins(t *testing.T) {
	under := domstub.NewElement("button")
	over := domstub.NewElement("div")
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(under, over))
	// Everything in the shared region resolves to the overlay.
	top.Hit = func(x, y float64) *domstub.Element { return over }
	judge := NewJudge(top, domstub.NewLogger())

	box := entity.Rect{X: 0, Y: 0, Width: 50, Height: 50}
	winner := judge.Foreground(under, over, box, box)
	assert.Same(t, over, winner)
}

func TestForeground_TieIsAmbiguous(t *testing.T) {
	a := domstub.NewElement("button")
	b := domstub.NewElement("button")
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(a, b))
	top.Hit = func(x, y float64) *domstub.Element { return nil }
	log := domstub.NewLogger()
	judge := NewJudge(top, log)

	box := entity.Rect{X: 0, Y: 0, Width: 50, Height: 50}
	assert.Nil(t, judge.Foreground(a, b, box, box))
	assert.True(t, log.Contains("ambiguous"))
}

func TestBuried(t *testing.T) {
	buried := domstub.NewElement("button")
	lid := domstub.NewElement("div")
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(buried, lid))
	top.Hit = func(x, y float64) *domstub.Element { return lid }
	judge := NewJudge(top, domstub.NewLogger())

	box := entity.Rect{X: 10, Y: 10, Width: 30, Height: 30}
	assert.True(t, judge.Buried(buried, box))

	// One sample point reaching a descendant rescues the element.
	child := domstub.NewElement("span")
	buried.Append(child)
	top.Hit = func(x, y float64) *domstub.Element {
		if x == 25 && y == 25 { // box center
			return child
		}
		return lid
	}
	assert.False(t, judge.Buried(buried, box))
}

func TestResolveAt_DescendsThroughFrames(t *testing.T) {
	inner := domstub.NewElement("button")
	innerDoc := domstub.NewElement("html").Append(inner)
	innerWin := domstub.NewWindow("inner", innerDoc)
	innerWin.Hit = func(x, y float64) *domstub.Element {
		// The frame is at (100, 100) in the top viewport; the button
		// answers at frame-local (20, 20).
		if x == 20 && y == 20 {
			return inner
		}
		return nil
	}

	frame := domstub.NewElement("iframe")
	frame.Rect = entity.Rect{X: 100, Y: 100, Width: 300, Height: 300}
	frame.Frame = innerWin
	top := domstub.NewWindow("top", domstub.NewElement("html").Append(frame))
	top.Hit = func(x, y float64) *domstub.Element { return frame }

	judge := NewJudge(top, domstub.NewLogger())
	box := entity.Rect{X: 115, Y: 115, Width: 10, Height: 10} // center (120, 120)
	assert.False(t, judge.Buried(inner, box))
}
