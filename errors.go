package synth

import "errors"

// Error taxonomy for the control thread. None of these propagates out of the
// realtime audio thread: the driver discards any error ops.Apply returns
// while it drains the op ring there, and a capacity or contention condition
// there is either short-circuited to silence or treated as a debug
// assertion, per the propagation policy.
var (
	// ErrCapacityExceeded is returned when a chain reaches MAX_PLUGINS or a
	// timeline reaches MAX_TRACKS. Never fatal; the caller keeps running
	// with the topology unchanged.
	ErrCapacityExceeded = errors.New("synth: capacity exceeded")

	// ErrInvalidArgument marks a programming error: a delay installed with
	// delay_samples >= buffer_len, or a plugin index out of range.
	ErrInvalidArgument = errors.New("synth: invalid argument")

	// ErrContention names the ring-full condition. SpscRing.TryPush reports
	// that condition as a false return, not as this error; callers choose to
	// spin, drop, or propagate.
	ErrContention = errors.New("synth: ring full")
)
