package recording

import "time"

const (
	backoffFloor   = time.Second
	backoffCeiling = 30 * time.Second
)

// backoff tracks the retry delay between failed capture attempts. The delay
// starts at the floor, doubles on every consecutive failure, never exceeds
// the ceiling, and resets to the floor after any accepted segment.
type backoff struct {
	current time.Duration
}

func newBackoff() backoff {
	return backoff{current: backoffFloor}
}

// Next returns the delay to apply for the current failure and advances the
// doubling sequence.
func (b *backoff) Next() time.Duration {
	delay := b.current
	if delay > backoffCeiling {
		delay = backoffCeiling
	}
	next := b.current * 2
	if next > backoffCeiling {
		next = backoffCeiling
	}
	b.current = next
	return delay
}

// Reset returns the delay to the floor.
func (b *backoff) Reset() {
	b.current = backoffFloor
}
