package dsp

import (
	"math"
	"testing"

	"github.com/wang-edward/synth"
)

func newCtx(sr float64) *synth.Context {
	return synth.NewContext(sr, 120)
}

func TestOscPhaseStaysInUnitRange(t *testing.T) {
	ctx := newCtx(48000)
	o := &Osc{Wave: Saw, Freq: 5000}
	out := make([]synth.Sample, 1)
	ctx.BeginBlock()
	// Process one sample at a time so the oscillator's own phase can be
	// checked after every sample.
	for i := 0; i < 48000; i++ {
		o.Process(ctx, out)
		if o.phase < 0 || o.phase >= 1 {
			t.Fatalf("phase out of [0,1) at sample %d: %v", i, o.phase)
		}
	}
}

func TestOscSawMatchesPhaseFormula(t *testing.T) {
	ctx := newCtx(48000)
	o := &Osc{Wave: Saw, Freq: 440}
	out := make([]synth.Sample, 100)
	ctx.BeginBlock()
	o.Process(ctx, out)

	phase := 0.0
	inc := 440.0 / 48000.0
	for i := 0; i < 100; i++ {
		want := 2*phase - 1
		if math.Abs(float64(out[i])-want) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, out[i], want)
		}
		phase += inc
		for phase >= 1 {
			phase -= 1
		}
	}
}

func TestAdsrGateScenario(t *testing.T) {
	const sr = 48000.0
	ctx := newCtx(sr)
	e := &Adsr{AttackTime: 0.01, DecayTime: 0.1, SustainLvl: 0.5, ReleaseTime: 0.2}
	e.Input = constNode(1.0)
	e.NoteOn(sr)

	buf := make([]synth.Sample, 20000)
	ctx.BeginBlock()
	e.Process(ctx, buf)

	if buf[0] != 0 {
		t.Fatalf("sample 0 = %v, want 0", buf[0])
	}
	if math.Abs(float64(buf[480])-1.0) > 0.01 {
		t.Fatalf("sample 480 = %v, want ~1.0", buf[480])
	}
	if math.Abs(float64(buf[480+4800])-0.5) > 0.01 {
		t.Fatalf("sample 5280 = %v, want ~0.5", buf[480+4800])
	}

	e.NoteOff(sr)
	rest := make([]synth.Sample, 9600+100)
	e.Process(ctx, rest)
	if math.Abs(float64(rest[9600])) > 0.01 {
		t.Fatalf("sample 9600 after release = %v, want ~0", rest[9600])
	}
	if e.State() != Idle {
		t.Fatalf("state after full release = %v, want Idle", e.State())
	}
}

func TestAdsrIdleShortCircuitsWithoutPullingUpstream(t *testing.T) {
	e := &Adsr{AttackTime: 0.01, DecayTime: 0.1, SustainLvl: 0.5, ReleaseTime: 0.2}
	e.Input = panicNode{}
	ctx := newCtx(48000)
	ctx.BeginBlock()
	out := make([]synth.Sample, 128)
	e.Process(ctx, out) // must not panic: Idle never pulls Input
	for _, s := range out {
		if s != 0 {
			t.Fatalf("idle envelope produced nonzero sample: %v", s)
		}
	}
}

func TestDelayWrapsAndMixes(t *testing.T) {
	ctx := newCtx(48000)
	d := NewDelay(8)
	if err := d.SetDelaySamples(4); err != nil {
		t.Fatal(err)
	}
	d.Feedback = 0
	d.Mix = 1
	d.Input = impulseNode{}

	out := make([]synth.Sample, 10)
	ctx.BeginBlock()
	d.Process(ctx, out)
	if out[4] != 1 {
		t.Fatalf("out[4] = %v, want 1 (delayed impulse)", out[4])
	}
	for i, s := range out {
		if i != 4 && s != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, s)
		}
	}
}

func TestDelayRejectsOversizedDelay(t *testing.T) {
	d := NewDelay(8)
	if err := d.SetDelaySamples(8); err == nil {
		t.Fatal("expected error for delaySamples == bufferLen")
	}
}

func TestDistortionHardClamp(t *testing.T) {
	ctx := newCtx(48000)
	d := &Distortion{Mode: Hard, Drive: 4, Mix: 1, Input: constNode(1.0)}
	out := make([]synth.Sample, 4)
	ctx.BeginBlock()
	d.Process(ctx, out)
	for _, s := range out {
		if math.Abs(float64(s)-0.25) > 1e-6 { // clamp(4,1)=1, /drive(4) = 0.25
			t.Fatalf("got %v, want 0.25", s)
		}
	}
}

func TestGateClosedSkipsUpstream(t *testing.T) {
	ctx := newCtx(48000)
	g := &Gate{Open: false, Input: panicNode{}}
	out := make([]synth.Sample, 16)
	ctx.BeginBlock()
	g.Process(ctx, out)
	for _, s := range out {
		if s != 0 {
			t.Fatalf("closed gate produced nonzero sample: %v", s)
		}
	}
}

type constNode float64

func (c constNode) Process(ctx *synth.Context, out []synth.Sample) {
	for i := range out {
		out[i] = synth.Sample(c)
	}
}

type panicNode struct{}

func (panicNode) Process(ctx *synth.Context, out []synth.Sample) {
	panic("upstream pulled when it should have been skipped")
}

type impulseNode struct{}

func (impulseNode) Process(ctx *synth.Context, out []synth.Sample) {
	for i := range out {
		if i == 0 {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
}
