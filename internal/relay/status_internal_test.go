package relay

import (
	"errors"
	"testing"
	"time"
)

// A reset callback can fire and then sit blocked on the mutex while a new
// outcome is recorded. By the time it runs its generation is stale and it
// must leave the fresh badge alone.
func TestTracker_StaleResetLeavesFreshBadge(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	tracker.Written()
	tracker.mu.Lock()
	stale := tracker.gen
	tracker.mu.Unlock()

	// A second outcome bumps the generation, invalidating the first arm
	tracker.Errored(errors.New("store down"))
	tracker.reset(stale)

	if got := tracker.Snapshot(); got.State != StateError {
		t.Errorf("State = %q, want error after stale reset", got.State)
	}

	// The current generation still resets normally
	tracker.mu.Lock()
	current := tracker.gen
	tracker.mu.Unlock()
	tracker.reset(current)

	if got := tracker.Snapshot(); got.State != StateIdle {
		t.Errorf("State = %q, want idle after current reset", got.State)
	}
}

func TestTracker_StopInvalidatesFiredReset(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)

	tracker.Written()
	tracker.mu.Lock()
	stale := tracker.gen
	tracker.mu.Unlock()

	// Stop cannot recall a callback already past the timer; the generation
	// bump makes it a no-op instead
	tracker.Stop()
	tracker.reset(stale)

	if got := tracker.Snapshot(); got.State != StateWritten {
		t.Errorf("State = %q, want written to survive a post-Stop reset", got.State)
	}
}
