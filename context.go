package synth

import "github.com/wang-edward/synth/internal/arena"

// Context carries the per-session constants and the per-callback scratch
// arena through a single pull of the graph. A Context is created once at
// stream-open time; its arena is reset once per audio callback by the
// realtime driver before the graph is pulled.
type Context struct {
	SampleRate float64
	BPM        float64
	Arena      *arena.Arena
}

// NewContext creates a Context with its own scratch arena sized to
// arena.DefaultSize.
func NewContext(sampleRate, bpm float64) *Context {
	if sampleRate <= 0 {
		panic("synth: sample rate must be positive")
	}
	if bpm <= 0 {
		panic("synth: bpm must be positive")
	}
	return &Context{
		SampleRate: sampleRate,
		BPM:        bpm,
		Arena:      arena.New(arena.DefaultSize),
	}
}

// Temp rents n samples from the context's arena, valid only until the next
// BeginBlock.
func (c *Context) Temp(n int) []Sample {
	return c.Arena.Samples(n)
}

// BeginBlock resets the context's scratch arena. Called once per audio
// callback, before the graph is pulled.
func (c *Context) BeginBlock() {
	c.Arena.BeginBlock()
}
