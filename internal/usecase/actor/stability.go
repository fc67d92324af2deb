package actor

import (
	"context"
	"errors"
)

// ErrWaitAborted tells the caller the page is going away: no result may be
// posted, the channel is being or has been torn down.
var ErrWaitAborted = errors.New("stability wait aborted, page going away")

// awaitStability blocks until the page has produced no observed DOM mutation
// for at least one polling interval, bounded by the configured ceiling. An
// observed unload gets one extra delay-and-recheck cycle to absorb spurious
// unload events (a download link fires unload without navigating away); a
// document confirmed no longer visible afterwards aborts the wait.
func (a *Actor) awaitStability(ctx context.Context) error {
	if err := a.sleep(ctx, a.cfg.StabilityInitialDelay); err != nil {
		return err
	}

	deadline := a.now().Add(a.cfg.StabilityCeiling)
	unloadChecked := false
	for {
		if a.monitor.Unloaded() && !unloadChecked {
			if err := a.sleep(ctx, a.cfg.StabilityInitialDelay); err != nil {
				return err
			}
			if !a.monitor.DocumentVisible() {
				return ErrWaitAborted
			}
			unloadChecked = true
		}

		last := a.monitor.LastMutationAt()
		if a.now().Sub(last) > a.cfg.StabilityPollInterval {
			return nil
		}
		if a.now().After(deadline) {
			// The page never went quiet. Proceeding with the report
			// beats holding the caller hostage.
			a.log.Warn("stability ceiling reached, proceeding")
			return nil
		}
		if err := a.sleep(ctx, a.cfg.StabilityPollInterval); err != nil {
			return err
		}
	}
}
