package dsp

import (
	"math"

	"github.com/wang-edward/synth"
)

// DistortionMode selects the waveshaping function.
type DistortionMode int

const (
	Hard DistortionMode = iota
	Soft
	Tanh
)

// Distortion waveshapes its upstream input and blends dry/wet.
type Distortion struct {
	Mode  DistortionMode
	Drive float64
	Mix   float64 // 0..1, dry at 0, fully wet at 1
	Input synth.Node
}

// SetInput rewires the distortion's upstream source, used when relinking a
// plugin chain after a topology mutation.
func (d *Distortion) SetInput(n synth.Node) { d.Input = n }

func (d *Distortion) Process(ctx *synth.Context, out []synth.Sample) {
	in := synth.PullInto(ctx, d.Input, len(out))
	for i, x := range in {
		wet := d.shape(float64(x))
		out[i] = synth.Sample(float64(x) + (wet-float64(x))*d.Mix)
	}
}

func (d *Distortion) shape(x float64) float64 {
	y := d.Drive * x
	switch d.Mode {
	case Hard:
		y = clamp(y, -1, 1)
	case Soft:
		y = y - (y*y*y)/3
	case Tanh:
		y = math.Tanh(y)
	}
	if d.Drive > 1 {
		y /= d.Drive
	}
	return y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
