package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

func TestPipe_DeliversInOrder(t *testing.T) {
	p := NewPipe(4)
	ctx := context.Background()

	require.NoError(t, p.PostPageState(ctx, &entity.PageState{URL: "https://a.test"}))
	require.NoError(t, p.PostActionResult(ctx, &entity.ActionOutcome{Success: true, Result: "clicked element."}))
	require.NoError(t, p.PostTerminal(ctx, &entity.TerminalPayload{Reason: "done"}))

	m := <-p.Messages()
	assert.Equal(t, KindPageState, m.Kind)
	assert.Equal(t, "https://a.test", m.PageState.URL)

	m = <-p.Messages()
	assert.Equal(t, KindActionResult, m.Kind)
	assert.True(t, m.ActionResult.Success)

	m = <-p.Messages()
	assert.Equal(t, KindTerminal, m.Kind)
	assert.Equal(t, "done", m.Terminal.Reason)
}

func TestPipe_ClosedPostFailsSoft(t *testing.T) {
	p := NewPipe(1)
	p.Close()
	p.Close() // idempotent

	err := p.PostPageState(context.Background(), &entity.PageState{})
	assert.ErrorIs(t, err, output.ErrChannelClosed)
}

func TestPipe_CloseUnblocksPendingPost(t *testing.T) {
	p := NewPipe(0)
	errs := make(chan error, 1)
	go func() {
		errs <- p.PostTerminal(context.Background(), &entity.TerminalPayload{Reason: "late"})
	}()

	time.Sleep(10 * time.Millisecond)
	p.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, output.ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("post did not unblock on close")
	}
}

func TestPipe_ContextCancelUnblocksPost(t *testing.T) {
	p := NewPipe(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PostPageState(ctx, &entity.PageState{})
	assert.ErrorIs(t, err, context.Canceled)
}
