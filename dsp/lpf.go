package dsp

import (
	"math"

	"github.com/wang-edward/synth"
)

// thermalVoltage is the transistor thermal voltage used by the
// D'Angelo-Valimaki Moog-ladder formulation.
const thermalVoltage = 0.312

// Lpf is a four-stage Moog-ladder low-pass filter (D'Angelo-Valimaki). Its
// state (V, dV, tV) must persist across a plugin chain topology swap, which
// is why Lpf is a plain struct shared by pointer between both chain copies
// rather than recreated on swap.
type Lpf struct {
	Cutoff    float64 // Hz, updated at block boundaries only
	Drive     float64
	Resonance float64

	Input synth.Node

	v, dv, tv [4]float64
}

// SetInput rewires the filter's upstream source, used when relinking a
// plugin chain after a topology mutation.
func (f *Lpf) SetInput(n synth.Node) { f.Input = n }

// Process runs the four-stage cascade one sample at a time over the pulled
// input, per the D'Angelo-Valimaki discretization.
func (f *Lpf) Process(ctx *synth.Context, out []synth.Sample) {
	in := synth.PullInto(ctx, f.Input, len(out))

	x := math.Pi * f.Cutoff / ctx.SampleRate
	g := 4 * math.Pi * thermalVoltage * f.Cutoff * (1 - x) / (1 + x)
	sr := ctx.SampleRate

	for n := range out {
		stageIn := f.Drive*float64(in[n]) + f.Resonance*f.v[3]
		for k := 0; k < 4; k++ {
			var newDV float64
			if k == 0 {
				newDV = -g * (math.Tanh(stageIn/(2*thermalVoltage)) + f.tv[0])
			} else {
				newDV = g * (f.tv[k-1] - f.tv[k])
			}
			f.v[k] += (newDV + f.dv[k]) * 0.5 / sr
			f.dv[k] = newDV
			f.tv[k] = math.Tanh(f.v[k] / (2 * thermalVoltage))
		}
		out[n] = synth.Sample(f.v[3])
	}
}
