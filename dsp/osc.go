// Package dsp implements the concrete DSP nodes: oscillator, Moog-ladder
// low-pass filter, ADSR envelope, gain, mixer, distortion, gate, and delay.
// Each satisfies synth.Node — one Process call per block, no per-sample
// virtual dispatch.
package dsp

import (
	"math"

	"github.com/wang-edward/synth"
)

// Waveform selects an oscillator's shape.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Pwm
	Sub
)

// Osc is a phase-accumulator oscillator. Phase always stays in [0, 1).
type Osc struct {
	Wave  Waveform
	Freq  float64
	Duty  float64 // used by Pwm and Sub, in (0, 1)
	Offst float64 // semitone offset used by Sub

	phase float64
}

// ResetPhase sets phase to 0, used for phase coherence on note-on.
func (o *Osc) ResetPhase() {
	o.phase = 0
}

// Process advances the oscillator by len(out) samples and writes its
// waveform into out.
func (o *Osc) Process(ctx *synth.Context, out []synth.Sample) {
	inc := o.Freq / ctx.SampleRate
	if o.Wave == Sub {
		inc *= math.Pow(2, o.Offst/12.0)
	}
	for i := range out {
		out[i] = synth.Sample(o.sample(o.phase))
		o.phase += inc
		for o.phase >= 1 {
			o.phase -= 1
		}
	}
}

func (o *Osc) sample(phase float64) float64 {
	switch o.Wave {
	case Sine:
		return math.Sin(2 * math.Pi * phase)
	case Saw:
		return 2*phase - 1
	case Pwm:
		if phase < o.Duty {
			return 1
		}
		return -1
	case Sub:
		if phase < o.Duty {
			return 1
		}
		return -1
	default:
		return 0
	}
}
