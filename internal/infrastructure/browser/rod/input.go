package rod

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"page-pilot/internal/application/port/output"
)

var _ output.PrivilegedInput = (*Input)(nil)

// Input dispatches trusted synthetic input through the devtools protocol.
// Page scripts cannot tell these events from a real keyboard or mouse, which
// is what Enter-to-submit handlers and hover menus require.
type Input struct {
	page *rod.Page
}

func NewInput(page *rod.Page) *Input {
	return &Input{page: page}
}

func (i *Input) PressEnter(ctx context.Context) error {
	return i.page.Context(ctx).Keyboard.Press(input.Enter)
}

func (i *Input) MovePointer(ctx context.Context, x, y float64) error {
	return i.page.Context(ctx).Mouse.MoveTo(proto.Point{X: x, Y: y})
}
