package contexttree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pilot/internal/domain/entity"
	"page-pilot/internal/testsupport/domstub"
	"page-pilot/internal/usecase/contexttree"
)

// nestedPage builds a top window hosting an iframe which hosts another
// iframe, with a button in the innermost document.
func nestedPage() (top *domstub.Window, inner *domstub.Window, button *domstub.Element) {
	button = domstub.NewElement("button")
	button.Rect = entity.Rect{X: 10, Y: 20, Width: 100, Height: 30}

	innerDoc := domstub.NewElement("html").Append(button)
	inner = domstub.NewWindow("inner", innerDoc)

	innerFrame := domstub.NewElement("iframe")
	innerFrame.Rect = entity.Rect{X: 5, Y: 15, Width: 400, Height: 300}
	innerFrame.Frame = inner

	midDoc := domstub.NewElement("html").Append(innerFrame)
	mid := domstub.NewWindow("mid", midDoc)

	midFrame := domstub.NewElement("iframe")
	midFrame.Rect = entity.Rect{X: 100, Y: 200, Width: 800, Height: 600}
	midFrame.Frame = mid

	topDoc := domstub.NewElement("html").Append(midFrame)
	top = domstub.NewWindow("top", topDoc)
	return top, inner, button
}

func TestBuild_OffsetsComposeDownward(t *testing.T) {
	top, inner, _ := nestedPage()
	tree := contexttree.Build(top, domstub.NewLogger())

	root := tree.Root()
	require.Len(t, root.Children, 1)
	mid := root.Children[0]
	require.Len(t, mid.Children, 1)
	deepest := mid.Children[0]

	assert.Equal(t, entity.Point{}, root.Offset)
	assert.Equal(t, entity.Point{X: 100, Y: 200}, mid.Offset)
	assert.Equal(t, entity.Point{X: 105, Y: 215}, deepest.Offset)
	assert.Same(t, deepest, tree.NodeForWindow(inner))
}

func TestBuild_PrunesInaccessibleFrames(t *testing.T) {
	crossOrigin := domstub.NewElement("iframe")
	// No Frame attached: ContentWindow yields the access fault.
	topDoc := domstub.NewElement("html").Append(crossOrigin)
	top := domstub.NewWindow("top", topDoc)

	log := domstub.NewLogger()
	tree := contexttree.Build(top, log)

	assert.Empty(t, tree.Root().Children)
	assert.True(t, log.Contains("skipping inaccessible frame"))
}

func TestNodeForElement_WalksOwnerWindow(t *testing.T) {
	top, _, button := nestedPage()
	tree := contexttree.Build(top, domstub.NewLogger())

	node := tree.NodeForElement(button)
	require.NotNil(t, node)
	assert.Equal(t, "inner", node.Window.ID())
}

func TestPathTo_OrdersRootFirst(t *testing.T) {
	top, _, button := nestedPage()
	tree := contexttree.Build(top, domstub.NewLogger())

	path := tree.PathTo(button)
	require.Len(t, path, 3)
	assert.Equal(t, "top", path[0].Window.ID())
	assert.Equal(t, "mid", path[1].Window.ID())
	assert.Equal(t, "inner", path[2].Window.ID())
}

func TestNodeForFrame(t *testing.T) {
	top, _, _ := nestedPage()
	tree := contexttree.Build(top, domstub.NewLogger())

	frame := tree.Root().Children[0].FrameElement
	node := tree.NodeForFrame(frame)
	require.NotNil(t, node)
	assert.Equal(t, "mid", node.Window.ID())

	orphan := domstub.NewElement("iframe")
	assert.Nil(t, tree.NodeForFrame(orphan))
}
