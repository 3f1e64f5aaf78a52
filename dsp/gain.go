package dsp

import "github.com/wang-edward/synth"

// Gain multiplies its upstream input by a scalar.
type Gain struct {
	Value float64
	Input synth.Node
}

// SetInput rewires the gain's upstream source, used when relinking a plugin
// chain after a topology mutation.
func (g *Gain) SetInput(n synth.Node) { g.Input = n }

func (g *Gain) Process(ctx *synth.Context, out []synth.Sample) {
	in := synth.PullInto(ctx, g.Input, len(out))
	for i := range out {
		out[i] = synth.Sample(float64(in[i]) * g.Value)
	}
}
