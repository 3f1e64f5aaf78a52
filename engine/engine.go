// Package engine implements the realtime driver: the per-block routine the
// host audio callback runs on the realtime thread T_a. It drains the note
// and op rings, applies the pending ops, snapshots every track's synth
// parameters, pulls the timeline's master mix, and advances playback,
// using only the lock-free ring/snapshot/atomic-swap machinery elsewhere in
// this module, since T_a must never block.
package engine

import (
	"sync/atomic"

	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/internal/ring"
	"github.com/wang-edward/synth/ops"
	"github.com/wang-edward/synth/scheduler"
	"github.com/wang-edward/synth/timeline"
)

// NoteEvent is the cross-thread payload for interactive note input: the
// control thread pushes these into the note ring, addressed by track index
// since the UI picks which track is "armed" for playing/recording.
type NoteEvent struct {
	TrackIndex int
	Note       synth.NoteNumber
	On         bool
}

// RecordedNote is the cross-thread payload for a closed recording: T_a
// pushes one of these into RecordRing when a note-off closes a held record,
// instead of inserting into the track's scheduler itself. Scheduler.Add
// appends and re-sorts, which is fine on the control thread but is not a
// bounded, allocation-free operation — it must never run on T_a.
type RecordedNote struct {
	TrackIndex int
	Record     scheduler.NoteRecord
}

// Driver owns the rings, the transport state, and the per-note record-start
// memory needed to turn interactive note events into NoteRecords while
// recording. ProcessBlock and the drain steps it runs execute exclusively on
// T_a. The control thread pushes into NoteRing/OpRing, sets Shutdown, calls
// DrainRecordings (which pops RecordRing and inserts into track schedulers),
// reads Transport, and changes track and plugin topology through Timeline's
// and Track's own swap-protected methods.
type Driver struct {
	Timeline   *timeline.Timeline
	NoteRing   *ring.SpscRing[NoteEvent]
	OpRing     *ring.SpscRing[ops.Op]
	RecordRing *ring.SpscRing[RecordedNote]
	Shutdown   atomic.Bool

	ctx       *synth.Context
	transport ops.Transport

	// recordStart is fixed-size record-start memory, indexed by track and
	// note number: a held note's On remembers its start frame here until the
	// matching Off closes it. Sized to avoid any map growth (and the
	// allocation that comes with it) on T_a.
	recordStart [timeline.MaxTracks][256]synth.Frame
	recordHeld  [timeline.MaxTracks][256]bool

	events []scheduler.Event
}

// New creates a Driver over tl, with note, op, and recording-capture rings
// of the given capacities.
func New(tl *timeline.Timeline, sampleRate, bpm float64, noteRingCap, opRingCap, recordRingCap int) *Driver {
	return &Driver{
		Timeline:   tl,
		NoteRing:   ring.New[NoteEvent](noteRingCap),
		OpRing:     ring.New[ops.Op](opRingCap),
		RecordRing: ring.New[RecordedNote](recordRingCap),
		ctx:        synth.NewContext(sampleRate, bpm),
	}
}

// DrainRecordings pops every pending captured note from RecordRing and
// inserts it into its track's scheduler. Scheduler.Add sorts on every
// insert, so this must only ever be called from the control thread, on a
// cadence of its choosing (e.g. a periodic poll) — never from ProcessBlock.
func (d *Driver) DrainRecordings() {
	for {
		rec, ok := d.RecordRing.TryPop()
		if !ok {
			return
		}
		if rec.TrackIndex < 0 || rec.TrackIndex >= d.Timeline.TrackCount() {
			continue
		}
		_ = d.Timeline.Track(rec.TrackIndex).Scheduler.Add(rec.Record)
	}
}

// Transport returns a copy of the current playback/record state, for the UI
// thread to read back (e.g. to render a transport indicator). The control
// thread must treat this as a snapshot, not a handle: Transport is
// exclusively mutated by T_a per the concurrency model.
func (d *Driver) Transport() ops.Transport {
	return d.transport
}

// ProcessBlock runs one full callback: steps 1-8 of the realtime driver.
// out's length is the block's frame count; the driver writes the mono mix
// into it. Safe to call only from the single realtime audio thread.
func (d *Driver) ProcessBlock(out []synth.Sample) {
	if d.Shutdown.Load() {
		for i := range out {
			out[i] = 0
		}
		return
	}

	d.ctx.BeginBlock()

	d.drainNotes()
	d.drainOps()

	for i := 0; i < d.Timeline.TrackCount(); i++ {
		d.Timeline.Track(i).Synth.ApplyBlockParams()
	}

	d.Timeline.Process(d.ctx, out)

	if d.transport.Playing {
		blockLen := synth.Frame(len(out))
		start, end := d.transport.Playhead, d.transport.Playhead+blockLen
		for i := 0; i < d.Timeline.TrackCount(); i++ {
			tr := d.Timeline.Track(i)
			d.events = tr.Scheduler.Schedule(start, end, d.events[:0])
			for _, ev := range d.events {
				if ev.Kind == scheduler.NoteOn {
					tr.Synth.NoteOn(ev.Note)
				} else {
					tr.Synth.NoteOff(ev.Note)
				}
			}
		}
		d.transport.Playhead = end
	}
}

// drainNotes applies every pending interactive note event to its track's
// synth. While a track is armed to record, an On remembers the playhead as
// the note's start; the matching Off hands the closed [start, playhead)
// NoteRecord to RecordRing for the control thread to insert into that
// track's scheduler. The ring push is non-blocking and allocation-free; a
// full ring drops the capture rather than stalling T_a.
func (d *Driver) drainNotes() {
	for {
		ev, ok := d.NoteRing.TryPop()
		if !ok {
			return
		}
		if ev.TrackIndex < 0 || ev.TrackIndex >= d.Timeline.TrackCount() {
			continue
		}
		tr := d.Timeline.Track(ev.TrackIndex)

		if ev.On {
			tr.Synth.NoteOn(ev.Note)
			if d.transport.Record[ev.TrackIndex] {
				d.recordStart[ev.TrackIndex][ev.Note] = d.transport.Playhead
				d.recordHeld[ev.TrackIndex][ev.Note] = true
			}
			continue
		}

		tr.Synth.NoteOff(ev.Note)
		if d.recordHeld[ev.TrackIndex][ev.Note] {
			d.recordHeld[ev.TrackIndex][ev.Note] = false
			start := d.recordStart[ev.TrackIndex][ev.Note]
			d.RecordRing.TryPush(RecordedNote{
				TrackIndex: ev.TrackIndex,
				Record:     scheduler.NoteRecord{Start: start, End: d.transport.Playhead, Note: ev.Note},
			})
		}
	}
}

// drainOps applies every pending control op. Ops that fail validation (an
// out-of-range track index, an unknown plugin/param) are silently dropped:
// the op protocol has no acknowledgement channel back to the control
// thread, matching the "drop on contention" choice spec.md leaves to the
// harness for non-critical ops.
func (d *Driver) drainOps() {
	for {
		op, ok := d.OpRing.TryPop()
		if !ok {
			return
		}
		_ = ops.Apply(op, d.Timeline, &d.transport)
	}
}
