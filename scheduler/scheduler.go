// Package scheduler converts a sorted sequence of frame-indexed note
// records and a playhead window into On/Off events for one audio block.
// Frame-indexing (rather than accumulator-indexing) is what makes seeking
// the playhead a constant-time operation: the UI thread can jump the
// playhead to any frame without walking accumulated state.
package scheduler

import (
	"sort"

	"github.com/wang-edward/synth"
)

// EventKind distinguishes a note turning on from a note turning off.
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
)

// Event is one On/Off message produced for a block.
type Event struct {
	Kind EventKind
	Note synth.NoteNumber
}

// NoteRecord is a single scheduled note, spanning [Start, End) frames.
type NoteRecord struct {
	Start, End synth.Frame
	Note       synth.NoteNumber
}

// Scheduler holds a note player's sorted (by Start) sequence of records and
// converts a block window into events.
type Scheduler struct {
	records []NoteRecord
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Add inserts r into the scheduler, keeping records sorted by Start.
// Returns synth.ErrInvalidArgument if r.Start > r.End.
func (s *Scheduler) Add(r NoteRecord) error {
	if r.Start > r.End {
		return synth.ErrInvalidArgument
	}
	s.records = append(s.records, r)
	sort.Slice(s.records, func(i, j int) bool { return s.records[i].Start < s.records[j].Start })
	return nil
}

// Clear removes every scheduled record.
func (s *Scheduler) Clear() {
	s.records = s.records[:0]
}

// Records returns the scheduler's current note records. Callers must not
// mutate the returned slice.
func (s *Scheduler) Records() []NoteRecord {
	return s.records
}

// Schedule appends to out the On event for every record whose Start lies in
// [start, end), then the Off event for every record whose End lies in
// [start, end). Both boundaries are half-open on the upper end. Events
// within each scan preserve record order; no coalescing is performed, so a
// record entirely inside one block emits both an On and an Off.
func (s *Scheduler) Schedule(start, end synth.Frame, out []Event) []Event {
	for _, r := range s.records {
		if r.Start >= start && r.Start < end {
			out = append(out, Event{Kind: NoteOn, Note: r.Note})
		}
	}
	for _, r := range s.records {
		if r.End >= start && r.End < end {
			out = append(out, Event{Kind: NoteOff, Note: r.Note})
		}
	}
	return out
}
