package timeline

import (
	"errors"
	"testing"

	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/voice"
)

func TestAddTrackActivatesPreconstructedSlots(t *testing.T) {
	tl := New(48000, 4, voice.DefaultParams())
	if tl.TrackCount() != 0 {
		t.Fatalf("TrackCount = %d, want 0", tl.TrackCount())
	}
	for i := 0; i < MaxTracks; i++ {
		tr, err := tl.AddTrack()
		if err != nil {
			t.Fatalf("unexpected error at track %d: %v", i, err)
		}
		if tr == nil {
			t.Fatal("AddTrack returned nil track")
		}
	}
	if tl.TrackCount() != MaxTracks {
		t.Fatalf("TrackCount = %d, want %d", tl.TrackCount(), MaxTracks)
	}
	if _, err := tl.AddTrack(); !errors.Is(err, synth.ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
}

func TestRemoveTrackKeepsLiveTracksContiguous(t *testing.T) {
	tl := New(48000, 2, voice.DefaultParams())
	var ids [4]string
	for i := 0; i < 4; i++ {
		tr, _ := tl.AddTrack()
		ids[i] = tr.ID.String()
	}

	if err := tl.RemoveTrack(1); err != nil {
		t.Fatal(err)
	}
	if tl.TrackCount() != 3 {
		t.Fatalf("TrackCount = %d, want 3", tl.TrackCount())
	}
	// Track that was at index 2 should have rotated into index 1.
	if tl.Track(1).ID.String() != ids[2] {
		t.Fatal("remaining tracks did not rotate left to stay contiguous")
	}
	if tl.Track(2).ID.String() != ids[3] {
		t.Fatal("remaining tracks did not rotate left to stay contiguous")
	}

	// The freed slot should still be usable by a subsequent AddTrack, proving
	// no slot was lost from the fixed-capacity array.
	for tl.TrackCount() < MaxTracks {
		if _, err := tl.AddTrack(); err != nil {
			t.Fatal(err)
		}
	}
	if tl.TrackCount() != MaxTracks {
		t.Fatalf("TrackCount = %d, want %d after refilling", tl.TrackCount(), MaxTracks)
	}
}

func TestRemoveTrackOutOfRangeIsInvalidArgument(t *testing.T) {
	tl := New(48000, 2, voice.DefaultParams())
	tl.AddTrack()
	if err := tl.RemoveTrack(1); !errors.Is(err, synth.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if err := tl.RemoveTrack(-1); !errors.Is(err, synth.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestProcessSumsOnlyLiveTracks(t *testing.T) {
	tl := New(48000, 2, voice.DefaultParams())
	tr, _ := tl.AddTrack()
	tr.Synth.NoteOn(69)

	ctx := synth.NewContext(48000, 120)
	ctx.BeginBlock()
	out := make([]synth.Sample, 256)
	tl.Process(ctx, out)

	nonzero := false
	for _, s := range out {
		if s != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Fatal("expected nonzero output from the single live track's held note")
	}
}
