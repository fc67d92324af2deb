package output

import (
	"context"
	"errors"

	"page-pilot/internal/domain/entity"
)

// ErrChannelClosed is returned by every Channel call once the remote side has
// torn the channel down. It is an expected condition during normal task
// termination, never an error to escalate.
var ErrChannelClosed = errors.New("background channel closed")

// Channel is the engine's side of the bidirectional message channel to the
// background orchestrator. The engine only ever posts one of three payloads;
// raw errors never cross this boundary.
type Channel interface {
	PostPageState(ctx context.Context, state *entity.PageState) error
	PostActionResult(ctx context.Context, outcome *entity.ActionOutcome) error
	PostTerminal(ctx context.Context, payload *entity.TerminalPayload) error
}
