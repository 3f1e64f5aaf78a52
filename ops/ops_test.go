package ops

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/dsp"
	"github.com/wang-edward/synth/timeline"
	"github.com/wang-edward/synth/track"
	"github.com/wang-edward/synth/voice"
)

func TestTogglePlayFlipsPlaying(t *testing.T) {
	tl := timeline.New(48000, 1, voice.DefaultParams())
	var tr Transport
	if err := Apply(TogglePlay(), tl, &tr); err != nil {
		t.Fatal(err)
	}
	if !tr.Playing {
		t.Fatal("expected Playing = true after first toggle")
	}
	if err := Apply(TogglePlay(), tl, &tr); err != nil {
		t.Fatal(err)
	}
	if tr.Playing {
		t.Fatal("expected Playing = false after second toggle")
	}
}

func TestResetStopsAndRewinds(t *testing.T) {
	tl := timeline.New(48000, 1, voice.DefaultParams())
	tr := Transport{Playing: true, Playhead: 12345}
	if err := Apply(Reset(), tl, &tr); err != nil {
		t.Fatal(err)
	}
	if tr.Playing || tr.Playhead != 0 {
		t.Fatalf("tr = %+v, want stopped and rewound", tr)
	}
}

func TestSeekMovesPlayheadWithoutTouchingPlaying(t *testing.T) {
	tl := timeline.New(48000, 1, voice.DefaultParams())
	tr := Transport{Playing: true}
	if err := Apply(Seek(9000), tl, &tr); err != nil {
		t.Fatal(err)
	}
	if tr.Playhead != 9000 || !tr.Playing {
		t.Fatalf("tr = %+v, want Playhead=9000 and Playing unchanged", tr)
	}
}

func TestToggleRecordOutOfRangeIsInvalidArgument(t *testing.T) {
	tl := timeline.New(48000, 1, voice.DefaultParams())
	var tr Transport
	if err := Apply(ToggleRecord(timeline.MaxTracks), tl, &tr); !errors.Is(err, synth.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestParamMutatesInstalledPluginOnLiveTrack(t *testing.T) {
	tl := timeline.New(48000, 1, voice.DefaultParams())
	tl.AddTrack()
	tr0 := tl.Track(0)
	id, err := tr0.AddPlugin(track.KindLpf)
	if err != nil {
		t.Fatal(err)
	}

	var tr Transport
	op := Param(id, "cutoff", 1234.5)
	if err := Apply(op, tl, &tr); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, p := range tr0.ActiveChain().Plugins() {
		if p.ID() == id {
			found = true
			lpf := p.Node().(*dsp.Lpf)
			if lpf.Cutoff != 1234.5 {
				t.Fatalf("Cutoff = %v, want 1234.5", lpf.Cutoff)
			}
		}
	}
	if !found {
		t.Fatal("plugin not found on active chain after Param op")
	}
}

func TestParamUnknownPluginIsInvalidArgument(t *testing.T) {
	tl := timeline.New(48000, 1, voice.DefaultParams())
	tl.AddTrack()

	var tr Transport
	if err := Apply(Param(uuid.New(), "cutoff", 1.0), tl, &tr); !errors.Is(err, synth.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
