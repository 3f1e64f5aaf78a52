package track

import (
	"errors"
	"math"
	"testing"

	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/voice"
)

const sr = 48000.0

func TestAddPluginKeepsChainsAgreeing(t *testing.T) {
	tr := New(4, sr, voice.DefaultParams())
	if !tr.ChainsAgree() {
		t.Fatal("empty chains must agree")
	}
	id, err := tr.AddPlugin(KindLpf)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.ChainsAgree() {
		t.Fatal("chains disagree after AddPlugin")
	}
	if tr.chains[0].plugins[0].id != id || tr.chains[1].plugins[0].id != id {
		t.Fatal("both chains must reference the identical plugin state")
	}
}

func TestRemovePluginKeepsChainsAgreeing(t *testing.T) {
	tr := New(4, sr, voice.DefaultParams())
	id, _ := tr.AddPlugin(KindDistortion)
	tr.AddPlugin(KindGate)
	if err := tr.RemovePlugin(id); err != nil {
		t.Fatal(err)
	}
	if !tr.ChainsAgree() {
		t.Fatal("chains disagree after RemovePlugin")
	}
	for _, c := range tr.chains {
		for _, p := range c.plugins {
			if p.id == id {
				t.Fatal("removed plugin still referenced")
			}
		}
	}
}

func TestAddPluginRejectsOverCapacity(t *testing.T) {
	tr := New(1, sr, voice.DefaultParams())
	for i := 0; i < MaxPlugins; i++ {
		if _, err := tr.AddPlugin(KindGain); err != nil {
			t.Fatalf("unexpected error at plugin %d: %v", i, err)
		}
	}
	if _, err := tr.AddPlugin(KindGain); !errors.Is(err, synth.ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
}

func TestRemoveUnknownPluginIsInvalidArgument(t *testing.T) {
	tr := New(1, sr, voice.DefaultParams())
	if err := tr.RemovePlugin([16]byte{}); !errors.Is(err, synth.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestChainSwapPreservesFilterStateAcrossToggle(t *testing.T) {
	tr := New(2, sr, voice.DefaultParams())
	tr.Synth.NoteOn(69)

	ctx := synth.NewContext(sr, 120)
	ctx.BeginBlock()
	before := make([]synth.Sample, 4096)
	tr.Process(ctx, before)

	id, err := tr.AddPlugin(KindLpf)
	if err != nil {
		t.Fatal(err)
	}
	if tr.chains[0].plugins[0].id != id {
		t.Fatal("unexpected plugin at slot 0")
	}

	ctx.BeginBlock()
	across := make([]synth.Sample, 4096)
	tr.Process(ctx, across)

	ctx.BeginBlock()
	after := make([]synth.Sample, 4096)
	tr.Process(ctx, after)

	for _, s := range append(append(before, across...), after...) {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			t.Fatalf("non-finite sample: %v", s)
		}
	}
	// Continuity: the sample immediately after the swap should be close to
	// the one immediately before it (filter state carried across, no reset
	// discontinuity), well under full scale.
	delta := math.Abs(float64(across[0]) - float64(before[len(before)-1]))
	if delta > 1.0 {
		t.Fatalf("discontinuity at swap boundary: %v", delta)
	}
}
