package track

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/scheduler"
	"github.com/wang-edward/synth/voice"
)

// Track owns a synth, its note player, and two mirrored effect chains
// addressed through an atomically swapped active index. Mutating a chain's
// topology never blocks or tears audio: the realtime audio thread only ever
// reads `active` with an acquire load and processes whichever chain it
// names.
type Track struct {
	ID uuid.UUID

	Synth     *voice.Synth
	Scheduler *scheduler.Scheduler

	sampleRate float64
	chains     [2]*Chain
	active     atomic.Uint32

	// mu serializes control-thread mutations against each other. It is
	// never taken by the realtime audio thread, which only does an atomic
	// load of `active` and a pointer-follow into the selected chain.
	mu sync.Mutex
}

// New creates a Track wrapping a freshly constructed Synth. Both chains
// start empty, with the synth as their shared input.
func New(numVoices int, sampleRate float64, params voice.Params) *Track {
	syn := voice.New(numVoices, sampleRate, params)
	t := &Track{
		ID:         uuid.New(),
		Synth:      syn,
		Scheduler:  scheduler.New(),
		sampleRate: sampleRate,
	}
	t.chains[0] = newChain(syn)
	t.chains[1] = newChain(syn)
	return t
}

// ActiveChain returns the chain the realtime audio thread should process
// this block. Safe to call from the audio thread: a single acquire load.
func (t *Track) ActiveChain() *Chain {
	return t.chains[t.active.Load()]
}

// Process pulls the active chain's output for this block. This is the
// track's contribution to the timeline's master mix.
func (t *Track) Process(ctx *synth.Context, out []synth.Sample) {
	t.ActiveChain().Output().Process(ctx, out)
}

// AddPlugin installs a new plugin of the given kind at the end of the
// chain, following the five-step swap protocol: build the new topology into
// the inactive chain, publish it by flipping `active`, then apply the same
// structural change to the now-inactive (formerly active) chain so both
// copies agree again. Returns synth.ErrCapacityExceeded if the chain is
// already at MaxPlugins.
func (t *Track) AddPlugin(kind Kind) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.chains[0].plugins) >= MaxPlugins {
		return uuid.Nil, synth.ErrCapacityExceeded
	}

	p := newPlugin(kind, t.sampleRate)

	active := t.active.Load()
	inactive := active ^ 1

	t.chains[inactive].plugins = cloneWithAppended(t.chains[inactive].plugins, p)
	t.chains[inactive].relink()

	t.active.Store(inactive) // release: T_a reads this chain from the next block on

	t.chains[active].plugins = cloneWithAppended(t.chains[active].plugins, p)
	t.chains[active].relink()

	return p.id, nil
}

// RemovePlugin removes the plugin with the given id from both chains, via
// the same swap protocol: remove from the inactive chain, publish, then
// remove from the now-inactive chain so both agree again. Once this
// returns, no chain references the plugin's state and it is eligible for
// garbage collection (the core has no manual memory management; the
// two-step removal is what proves no in-flight audio block can still
// observe the removed state, not what frees it).
func (t *Track) RemovePlugin(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := t.active.Load()
	idx := -1
	for i, p := range t.chains[active].plugins {
		if p.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return synth.ErrInvalidArgument
	}

	inactive := active ^ 1
	t.chains[inactive].plugins = cloneWithoutIndex(t.chains[inactive].plugins, idx)
	t.chains[inactive].relink()

	t.active.Store(inactive) // release

	t.chains[active].plugins = cloneWithoutIndex(t.chains[active].plugins, idx)
	t.chains[active].relink()

	return nil
}

// ChainsAgree reports whether both chain copies currently hold an
// identical tag sequence and identical state pointers slot-for-slot — the
// chain invariant, exposed for tests.
func (t *Track) ChainsAgree() bool {
	a, b := t.chains[0], t.chains[1]
	if len(a.plugins) != len(b.plugins) {
		return false
	}
	for i := range a.plugins {
		if a.plugins[i] != b.plugins[i] {
			return false
		}
	}
	return true
}

// Clear quiesces notes and drops both chains back to empty, dropping any
// reference to installed plugin state.
func (t *Track) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Synth.AllNotesOff()
	t.Scheduler.Clear()
	t.chains[0] = newChain(t.Synth)
	t.chains[1] = newChain(t.Synth)
	t.active.Store(0)
}
