package input

import "context"

// SessionDriver runs one interactive page session until the operator quits or
// the context ends.
type SessionDriver interface {
	Run(ctx context.Context) error
}
