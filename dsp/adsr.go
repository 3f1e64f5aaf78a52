package dsp

import "github.com/wang-edward/synth"

// Stage is an ADSR envelope stage.
type Stage int

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

// Adsr is a linear-segment attack/decay/sustain/release envelope applied by
// multiplying its upstream input. An idle envelope short-circuits the whole
// block to silence without pulling upstream, so idle voices cost a
// constant-time check.
type Adsr struct {
	AttackTime  float64 // seconds
	DecayTime   float64 // seconds
	SustainLvl  float64 // 0..1
	ReleaseTime float64 // seconds

	Input synth.Node

	value float64
	stage Stage

	attackRate  float64
	decayRate   float64
	releaseRate float64
}

// NoteOn (re)triggers the envelope from Attack with phase at 0, regardless
// of the stage it was previously in.
func (e *Adsr) NoteOn(sampleRate float64) {
	e.value = 0
	e.stage = Attack
	e.attackRate = 1.0 / (e.AttackTime * sampleRate)
	e.decayRate = (1.0 - e.SustainLvl) / (e.DecayTime * sampleRate)
}

// NoteOff moves the envelope to Release from any non-Idle stage. The
// release rate is derived from the value held at the moment of release so
// that a full release always takes ReleaseTime seconds, whatever level it
// started from.
func (e *Adsr) NoteOff(sampleRate float64) {
	if e.stage == Idle {
		return
	}
	e.stage = Release
	e.releaseRate = e.value / (e.ReleaseTime * sampleRate)
}

// State reports the envelope's current stage.
func (e *Adsr) State() Stage {
	return e.stage
}

// next returns the envelope's value for the sample about to be produced,
// then advances the state machine for the following call. Output-then-step
// (rather than step-then-output) is what makes the sample immediately after
// NoteOn exactly 0, which the gate invariant depends on.
func (e *Adsr) next() float64 {
	out := e.value
	switch e.stage {
	case Idle:
		return 0
	case Attack:
		e.value += e.attackRate
		if e.value >= 1 {
			e.value = 1
			if e.DecayTime > 0 {
				e.stage = Decay
			} else {
				e.stage = Sustain
			}
		}
	case Decay:
		e.value -= e.decayRate
		if e.value <= e.SustainLvl {
			e.value = e.SustainLvl
			e.stage = Sustain
		}
	case Sustain:
		e.value = e.SustainLvl
	case Release:
		e.value -= e.releaseRate
		if e.value <= 0 {
			e.value = 0
			e.stage = Idle
		}
	}
	return out
}

// Process multiplies the pulled input by the envelope's value at each
// sample. When Idle, it writes silence and never pulls Input.
func (e *Adsr) Process(ctx *synth.Context, out []synth.Sample) {
	if e.stage == Idle {
		for i := range out {
			out[i] = 0
		}
		return
	}
	in := synth.PullInto(ctx, e.Input, len(out))
	for i := range out {
		out[i] = synth.Sample(float64(in[i]) * e.next())
	}
}
