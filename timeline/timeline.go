// Package timeline implements the master mixer over a fixed-capacity set of
// tracks.
package timeline

import (
	"sync"
	"sync/atomic"

	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/track"
	"github.com/wang-edward/synth/voice"
)

// MaxTracks is the timeline's fixed track capacity.
const MaxTracks = 8

// Timeline owns MaxTracks pre-constructed Track slots across two mirrored
// buffers addressed through an atomically swapped active index, the same
// swap protocol track.Track uses for its plugin chains. AddTrack and
// RemoveTrack mutate the inactive buffer and then publish it, so the
// realtime audio thread — which only ever does an acquire load of `active`
// and indexes into the named buffer — never observes a half-rotated array
// or a count that disagrees with the slots it names.
type Timeline struct {
	buffers [2][MaxTracks]*track.Track
	counts  [2]int
	active  atomic.Uint32

	// mu serializes control-thread mutations (AddTrack, RemoveTrack) against
	// each other. Never taken by the realtime audio thread.
	mu sync.Mutex
}

// New creates a Timeline with all MaxTracks slots pre-constructed (each with
// its own synth of numVoices voices), none of them live. Both buffers start
// as mirrors of the same pre-constructed slots.
func New(sampleRate float64, numVoices int, params voice.Params) *Timeline {
	tl := &Timeline{}
	var slots [MaxTracks]*track.Track
	for i := range slots {
		slots[i] = track.New(numVoices, sampleRate, params)
	}
	tl.buffers[0] = slots
	tl.buffers[1] = slots
	return tl
}

// TrackCount reports how many of the pre-constructed slots are currently
// live. Safe to call from either thread: a single acquire load.
func (tl *Timeline) TrackCount() int {
	return tl.counts[tl.active.Load()]
}

// Track returns the live track at index i. Panics if i is out of
// [0, TrackCount()) — an out-of-range track index is a programming error,
// not a runtime condition to recover from. Safe to call from either thread:
// a single acquire load selects which buffer to index.
func (tl *Timeline) Track(i int) *track.Track {
	b := tl.active.Load()
	if i < 0 || i >= tl.counts[b] {
		panic("timeline: track index out of range")
	}
	return tl.buffers[b][i]
}

// AddTrack activates the next pre-constructed empty slot, following the
// same swap protocol as track.Track.AddPlugin: copy the active buffer into
// the inactive one, extend it by one live slot, then publish by flipping
// `active`. No allocation happens here beyond what New already did.
func (tl *Timeline) AddTrack() (*track.Track, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	active := tl.active.Load()
	inactive := active ^ 1
	count := tl.counts[active]
	if count >= MaxTracks {
		return nil, synth.ErrCapacityExceeded
	}

	buf := tl.buffers[active] // array value copy
	tl.buffers[inactive] = buf
	tl.counts[inactive] = count + 1
	t := tl.buffers[inactive][count]

	tl.active.Store(inactive) // release: T_a reads this buffer from the next block on

	return t, nil
}

// RemoveTrack clears track i and rotates the remaining live tracks leftward
// so active tracks stay contiguous in [0, TrackCount()), preserving the
// pre-allocated trailing empty slots. The rotation happens entirely in the
// inactive buffer, which is only published — and the removed track only
// cleared — after the swap, so the audio thread never indexes a buffer
// mid-rotation.
func (tl *Timeline) RemoveTrack(i int) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	active := tl.active.Load()
	inactive := active ^ 1
	count := tl.counts[active]
	if i < 0 || i >= count {
		return synth.ErrInvalidArgument
	}

	buf := tl.buffers[active] // array value copy
	removed := buf[i]
	for j := i; j < count-1; j++ {
		buf[j] = buf[j+1]
	}
	buf[count-1] = removed
	tl.buffers[inactive] = buf
	tl.counts[inactive] = count - 1

	tl.active.Store(inactive) // release

	removed.Clear() // safe: no longer reachable from the published buffer
	return nil
}

// Process sums every live track's output into out — the master mix.
func (tl *Timeline) Process(ctx *synth.Context, out []synth.Sample) {
	for i := range out {
		out[i] = 0
	}
	b := tl.active.Load()
	buf := tl.buffers[b]
	for i := 0; i < tl.counts[b]; i++ {
		synth.Accumulate(ctx, out, buf[i])
	}
}
