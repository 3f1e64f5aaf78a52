// Package track implements the per-track effect chain with a double-
// buffered topology and an atomic swap, plus the Track that owns a synth and
// its note player alongside two mirrored chain copies.
package track

import (
	"github.com/google/uuid"
	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/dsp"
)

// Kind tags which concrete effect a Plugin wraps. A closed set, per the
// core's fixed node kinds.
type Kind int

const (
	KindGain Kind = iota
	KindDistortion
	KindGate
	KindDelay
	KindLpf
)

func (k Kind) String() string {
	switch k {
	case KindGain:
		return "gain"
	case KindDistortion:
		return "distortion"
	case KindGate:
		return "gate"
	case KindDelay:
		return "delay"
	case KindLpf:
		return "lpf"
	default:
		return "unknown"
	}
}

// effectNode is the capability every effect-style DSP node shares: Process
// plus a rewireable Input. This is the "generic virtual node shape" §9
// mentions as an acceptable alternative to the closed tagged variant — used
// here only as the small seam Plugin needs to relink a chain, not as the
// public polymorphism surface (that's Kind).
type effectNode interface {
	synth.Node
	SetInput(synth.Node)
}

// Plugin is a tagged effect instance. Its state (the concrete *dsp.Lpf,
// *dsp.Delay, etc.) is shared by pointer between both of a track's chain
// copies: a Plugin value appearing in chain 0 and chain 1 at the same slot
// wraps the literal same node, so its internal state (e.g. a delay's ring
// buffer and write position) survives a topology swap untouched.
type Plugin struct {
	id   uuid.UUID
	kind Kind
	node effectNode
}

func newPlugin(kind Kind, sampleRate float64) *Plugin {
	var node effectNode
	switch kind {
	case KindGain:
		node = &dsp.Gain{Value: 1}
	case KindDistortion:
		node = &dsp.Distortion{Mode: dsp.Tanh, Drive: 1, Mix: 1}
	case KindGate:
		node = &dsp.Gate{Open: true}
	case KindDelay:
		// 2 seconds of buffer headroom at the given sample rate; delay_time
		// is set separately and validated against this capacity.
		node = dsp.NewDelay(int(sampleRate * 2))
	case KindLpf:
		node = &dsp.Lpf{Cutoff: 8000, Drive: 1, Resonance: 0.1}
	default:
		panic("track: unknown plugin kind")
	}
	return &Plugin{id: uuid.New(), kind: kind, node: node}
}

// ID is the stable handle used by Param ops to address this plugin's
// parameters, independent of its position in the chain.
func (p *Plugin) ID() uuid.UUID { return p.id }

// Kind reports which effect this plugin is.
func (p *Plugin) Kind() Kind { return p.kind }

// Node returns the underlying concrete DSP node, for callers that need to
// set kind-specific parameters (e.g. a type assertion to *dsp.Lpf to set
// Cutoff). Never called from the audio thread's Process path.
func (p *Plugin) Node() any { return p.node }

func (p *Plugin) setInput(n synth.Node) { p.node.SetInput(n) }

// Process satisfies synth.Node by delegating to the wrapped effect node.
func (p *Plugin) Process(ctx *synth.Context, out []synth.Sample) {
	p.node.Process(ctx, out)
}
