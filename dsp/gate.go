package dsp

import "github.com/wang-edward/synth"

// Gate passes its upstream input through unchanged when open, or writes
// silence without pulling upstream when closed.
type Gate struct {
	Open  bool
	Input synth.Node
}

// SetInput rewires the gate's upstream source, used when relinking a plugin
// chain after a topology mutation.
func (g *Gate) SetInput(n synth.Node) { g.Input = n }

func (g *Gate) Process(ctx *synth.Context, out []synth.Sample) {
	if !g.Open {
		for i := range out {
			out[i] = 0
		}
		return
	}
	in := synth.PullInto(ctx, g.Input, len(out))
	copy(out, in)
}
