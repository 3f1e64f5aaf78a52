// Package ops implements the closed control-message protocol the UI thread
// enqueues into the op ring and the realtime driver drains and applies once
// per block: transport toggles, seeks, record arming, and parameter pokes,
// expressed as a plain tagged union so they cross the SpscRing as data.
package ops

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/dsp"
	"github.com/wang-edward/synth/timeline"
	"github.com/wang-edward/synth/track"
)

// Kind discriminates which variant of Op is populated.
type Kind int

const (
	KindTogglePlay Kind = iota
	KindReset
	KindSeek
	KindToggleRecord
	KindParam
)

// Op is a tagged union of the control messages that cross the op ring from
// the UI thread to the realtime driver. Only the fields relevant to Kind are
// meaningful; this is a plain value type so it copies cleanly through the
// ring the way NoteEvent does.
type Op struct {
	Kind Kind

	SeekFrame  synth.Frame
	TrackIndex int

	PluginID uuid.UUID
	ParamID  string
	Value    float64
}

// TogglePlay builds the TogglePlay op.
func TogglePlay() Op { return Op{Kind: KindTogglePlay} }

// Reset builds the Reset op: stop playback and return the playhead to 0.
func Reset() Op { return Op{Kind: KindReset} }

// Seek builds the Seek op, moving the playhead to frame without starting or
// stopping playback.
func Seek(frame synth.Frame) Op { return Op{Kind: KindSeek, SeekFrame: frame} }

// ToggleRecord builds the ToggleRecord op for the given track index.
func ToggleRecord(trackIndex int) Op {
	return Op{Kind: KindToggleRecord, TrackIndex: trackIndex}
}

// Param builds the optional Param op: a direct parameter poke on an
// installed plugin, addressed by its stable uuid rather than its transient
// chain position.
func Param(pluginID uuid.UUID, paramID string, value float64) Op {
	return Op{Kind: KindParam, PluginID: pluginID, ParamID: paramID, Value: value}
}

// Transport holds the playback/record state the realtime driver advances
// once per block. It is exclusively owned and mutated by the audio thread;
// ops only describe the desired transition, Apply performs it inline on T_a.
type Transport struct {
	Playing  bool
	Playhead synth.Frame
	Record   [timeline.MaxTracks]bool
}

// Apply performs op's effect against tl and tr. Called from the realtime
// driver while draining the op ring, strictly before the block's Timeline
// pull. Returns synth.ErrInvalidArgument for an out-of-range track index or
// an unknown plugin/param id.
func Apply(op Op, tl *timeline.Timeline, tr *Transport) error {
	switch op.Kind {
	case KindTogglePlay:
		tr.Playing = !tr.Playing
		return nil

	case KindReset:
		tr.Playing = false
		tr.Playhead = 0
		return nil

	case KindSeek:
		tr.Playhead = op.SeekFrame
		return nil

	case KindToggleRecord:
		if op.TrackIndex < 0 || op.TrackIndex >= timeline.MaxTracks {
			return synth.ErrInvalidArgument
		}
		tr.Record[op.TrackIndex] = !tr.Record[op.TrackIndex]
		return nil

	case KindParam:
		return applyParam(op, tl)

	default:
		return fmt.Errorf("ops: unknown op kind %d", op.Kind)
	}
}

// applyParam finds the plugin addressed by op.PluginID across every live
// track's active chain and sets the named scalar. Plugins expose a small,
// closed set of mutable parameters per kind; an unrecognized param id (or a
// plugin id that matches nothing live) is synth.ErrInvalidArgument.
func applyParam(op Op, tl *timeline.Timeline) error {
	for i := 0; i < tl.TrackCount(); i++ {
		for _, p := range tl.Track(i).ActiveChain().Plugins() {
			if p.ID() != op.PluginID {
				continue
			}
			return setPluginParam(p, op.ParamID, op.Value)
		}
	}
	return synth.ErrInvalidArgument
}

func setPluginParam(p *track.Plugin, paramID string, value float64) error {
	switch node := p.Node().(type) {
	case *dsp.Gain:
		if paramID == "gain" {
			node.Value = value
			return nil
		}
	case *dsp.Distortion:
		switch paramID {
		case "drive":
			node.Drive = value
			return nil
		case "mix":
			node.Mix = value
			return nil
		}
	case *dsp.Gate:
		if paramID == "open" {
			node.Open = value != 0
			return nil
		}
	case *dsp.Delay:
		switch paramID {
		case "delay_samples":
			return node.SetDelaySamples(int(value))
		case "feedback":
			node.Feedback = value
			return nil
		case "mix":
			node.Mix = value
			return nil
		}
	case *dsp.Lpf:
		switch paramID {
		case "cutoff":
			node.Cutoff = value
			return nil
		case "drive":
			node.Drive = value
			return nil
		case "resonance":
			node.Resonance = value
			return nil
		}
	}
	return synth.ErrInvalidArgument
}
