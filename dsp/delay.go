package dsp

import "github.com/wang-edward/synth"

// Delay is a feedback delay line over a circular buffer sized in samples,
// independent of any power-of-two constraint. The backing buffer is
// allocated once, on install, and must only be freed after the delay is
// removed from both chain copies and any in-flight block has quiesced — see
// the plugin chain swap protocol.
type Delay struct {
	Feedback float64 // updated at block boundaries only
	Mix      float64 // 0..1, dry at 0, fully wet at 1
	Input    synth.Node

	buf          []float64
	delaySamples int
	writePos     int
}

// NewDelay allocates a delay line with a buffer of bufferLen samples.
func NewDelay(bufferLen int) *Delay {
	return &Delay{buf: make([]float64, bufferLen)}
}

// SetDelaySamples installs a new delay time in samples. Returns
// synth.ErrInvalidArgument if delaySamples is not smaller than the backing
// buffer length, per the delay's invariant.
func (d *Delay) SetDelaySamples(n int) error {
	if n < 0 || n >= len(d.buf) {
		return synth.ErrInvalidArgument
	}
	d.delaySamples = n
	return nil
}

// BufferLen reports the backing buffer's capacity in samples.
func (d *Delay) BufferLen() int {
	return len(d.buf)
}

// SetInput rewires the delay's upstream source, used when relinking a
// plugin chain after a topology mutation.
func (d *Delay) SetInput(n synth.Node) { d.Input = n }

func (d *Delay) Process(ctx *synth.Context, out []synth.Sample) {
	in := synth.PullInto(ctx, d.Input, len(out))
	n := len(d.buf)
	for i := range out {
		readPos := (d.writePos - d.delaySamples + n) % n
		delayed := d.buf[readPos]
		dry := float64(in[i])
		d.buf[d.writePos] = dry + d.Feedback*delayed
		out[i] = synth.Sample(dry*(1-d.Mix) + delayed*d.Mix)
		d.writePos = (d.writePos + 1) % n
	}
}
