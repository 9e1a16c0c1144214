package relay

import (
	"sync"
	"time"
)

// Badge states published after each message outcome.
const (
	StateIdle    = "idle"
	StateWritten = "written"
	StateError   = "error"
)

// defaultResetDelay is used when the configured reset delay is not positive.
const defaultResetDelay = 3 * time.Second

// Status is a snapshot of the relay's write-status badge and counters.
type Status struct {
	State     string    `json:"state"`
	Written   uint64    `json:"written"`
	Failed    uint64    `json:"failed"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker maintains the write-status badge.
//
// The badge shows the outcome of the most recent message ("written" or
// "error") and falls back to "idle" after the reset delay. One timer is
// reused across outcomes: a new outcome rearms it, so the badge always
// reflects the latest message and resets exactly once after the last one.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	state     string
	written   uint64
	failed    uint64
	lastError string
	updatedAt time.Time

	delay time.Duration
	timer *time.Timer

	// gen counts badge outcomes. Each rearm captures the current value; a
	// reset callback whose generation is stale by the time it acquires the
	// mutex was superseded and does nothing.
	gen uint64

	// publish is invoked with a snapshot on every state change, including
	// the automatic reset to idle. May be nil.
	publish func(Status)
}

// NewTracker creates a tracker in the idle state.
//
// Parameters:
//   - delay: How long a written/error badge is shown before resetting to
//     idle. Non-positive values fall back to 3 seconds.
//   - publish: Callback invoked on every state change (may be nil)
func NewTracker(delay time.Duration, publish func(Status)) *Tracker {
	if delay <= 0 {
		delay = defaultResetDelay
	}
	return &Tracker{
		state:     StateIdle,
		updatedAt: time.Now().UTC(),
		delay:     delay,
		publish:   publish,
	}
}

// Written records a successful write and shows the "written" badge.
func (t *Tracker) Written() {
	t.transition(StateWritten, "")
}

// Errored records a failed message and shows the "error" badge.
func (t *Tracker) Errored(err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	t.transition(StateError, reason)
}

// transition applies a new outcome and rearms the reset timer.
func (t *Tracker) transition(state, reason string) {
	t.mu.Lock()

	t.state = state
	t.updatedAt = time.Now().UTC()
	switch state {
	case StateWritten:
		t.written++
		t.lastError = ""
	case StateError:
		t.failed++
		t.lastError = reason
	}

	// Rearm the single reset timer. Stop cannot recall a callback that has
	// already fired and is waiting on the mutex, so each arm carries the
	// current generation and reset ignores stale ones.
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() { t.reset(gen) })

	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snapshot)
}

// reset returns the badge to idle once the delay elapses. A stale generation
// means a newer outcome or Stop superseded this callback while it was in
// flight.
func (t *Tracker) reset(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.state = StateIdle
	t.updatedAt = time.Now().UTC()
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snapshot)
}

// Stop cancels any pending reset, including a callback that has already
// fired and not yet run. Used on shutdown.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Snapshot returns the current badge state and counters.
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// snapshotLocked builds a Status. Caller holds the mutex.
func (t *Tracker) snapshotLocked() Status {
	return Status{
		State:     t.state,
		Written:   t.written,
		Failed:    t.failed,
		LastError: t.lastError,
		UpdatedAt: t.updatedAt,
	}
}

// notify delivers a snapshot to the publish callback, if set.
func (t *Tracker) notify(s Status) {
	if t.publish != nil {
		t.publish(s)
	}
}
