package dsp

import "github.com/wang-edward/synth"

// MixerInput pairs an upstream node with a linear gain applied before
// summing.
type MixerInput struct {
	Node synth.Node
	Gain float64
}

// Mixer sums N upstream pulls, each scaled by its own gain. Headroom is the
// caller's responsibility: the sum is not limited.
type Mixer struct {
	Inputs []MixerInput
}

func (m *Mixer) Process(ctx *synth.Context, out []synth.Sample) {
	for i := range out {
		out[i] = 0
	}
	for _, in := range m.Inputs {
		tmp := synth.PullInto(ctx, in.Node, len(out))
		for i := range out {
			out[i] += synth.Sample(float64(tmp[i]) * in.Gain)
		}
	}
}
