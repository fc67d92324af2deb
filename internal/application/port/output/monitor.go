package output

import "time"

// PageMonitor is the passive page-observation surface used by the stability
// wait. Implementations keep a single timestamp updated from a mutation
// listener; readers only ever observe it, so no synchronization beyond plain
// read/write is expected of callers.
type PageMonitor interface {
	// LastMutationAt returns the time of the most recent observed DOM
	// mutation (zero before any mutation).
	LastMutationAt() time.Time
	// Unloaded reports whether an unload signal has been observed.
	Unloaded() bool
	// DocumentVisible reports whether the document is still visible. A page
	// that is gone reports false.
	DocumentVisible() bool
}
