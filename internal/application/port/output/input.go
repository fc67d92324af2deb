package output

import "context"

// PrivilegedInput is the synthetic-input capability the page engine does not
// itself possess. Both calls are asynchronous round-trips to the hosting
// process.
type PrivilegedInput interface {
	// PressEnter dispatches an Enter keystroke to whatever element holds
	// focus.
	PressEnter(ctx context.Context) error
	// MovePointer dispatches a pointer move to a top-viewport coordinate.
	MovePointer(ctx context.Context, x, y float64) error
}
