// Package channel carries the engine's payloads to the in-process consumer.
// It stands where a real deployment would put an IPC or websocket transport;
// the engine only ever sees the Channel port.
package channel

import (
	"context"
	"sync"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

var _ output.Channel = (*Pipe)(nil)

// Kind tags one pipe message.
type Kind string

const (
	KindPageState    Kind = "page_state"
	KindActionResult Kind = "action_result"
	KindTerminal     Kind = "terminal"
)

// Message is one payload in flight. Exactly one of the pointer fields is set,
// matching Kind.
type Message struct {
	Kind         Kind
	PageState    *entity.PageState
	ActionResult *entity.ActionOutcome
	Terminal     *entity.TerminalPayload
}

// Pipe is a closable one-way message queue. Posting to a closed pipe returns
// ErrChannelClosed, never panics; the consumer closes the pipe when the task
// ends and in-flight posts must fail soft.
type Pipe struct {
	msgs chan Message
	done chan struct{}
	once sync.Once
}

func NewPipe(buffer int) *Pipe {
	return &Pipe{
		msgs: make(chan Message, buffer),
		done: make(chan struct{}),
	}
}

func (p *Pipe) PostPageState(ctx context.Context, state *entity.PageState) error {
	return p.post(ctx, Message{Kind: KindPageState, PageState: state})
}

func (p *Pipe) PostActionResult(ctx context.Context, outcome *entity.ActionOutcome) error {
	return p.post(ctx, Message{Kind: KindActionResult, ActionResult: outcome})
}

func (p *Pipe) PostTerminal(ctx context.Context, payload *entity.TerminalPayload) error {
	return p.post(ctx, Message{Kind: KindTerminal, Terminal: payload})
}

func (p *Pipe) post(ctx context.Context, m Message) error {
	select {
	case <-p.done:
		return output.ErrChannelClosed
	default:
	}
	select {
	case p.msgs <- m:
		return nil
	case <-p.done:
		return output.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages is the consumer's receive side.
func (p *Pipe) Messages() <-chan Message {
	return p.msgs
}

// Close tears the pipe down. Idempotent; pending and future posts fail with
// ErrChannelClosed.
func (p *Pipe) Close() {
	p.once.Do(func() { close(p.done) })
}
