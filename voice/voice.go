// Package voice implements the polyphonic subtractive synth: a fixed
// per-voice sub-graph ({pwm, saw, sub} -> mixer -> lpf -> adsr) and the
// Synth that allocates/steals across a fixed pool of voices.
package voice

import (
	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/dsp"
	"github.com/wang-edward/synth/internal/param"
)

// Params is the plain-old-data record a Synth's parameters are published
// as, one snapshot per block, the way the realtime driver snapshots every
// track's synth parameters once per callback.
type Params struct {
	Cutoff, Drive, Resonance                       float64
	AttackTime, DecayTime, SustainLvl, ReleaseTime float64
	PwmDuty, SubDuty, SubOffset                    float64
}

// DefaultParams is a reasonable starting voice patch.
func DefaultParams() Params {
	return Params{
		Cutoff:      4000,
		Drive:       1,
		Resonance:   0.1,
		AttackTime:  0.01,
		DecayTime:   0.1,
		SustainLvl:  0.7,
		ReleaseTime: 0.2,
		PwmDuty:     0.5,
		SubDuty:     0.5,
		SubOffset:   -12,
	}
}

// Voice is one polyphonic voice: a fixed subtractive sub-graph driven by a
// single held note.
type Voice struct {
	pwm, saw, sub *dsp.Osc
	mixer         *dsp.Mixer
	lpf           *dsp.Lpf
	adsr          *dsp.Adsr

	note synth.NoteNumber
	held bool
}

func newVoice() *Voice {
	v := &Voice{
		pwm: &dsp.Osc{Wave: dsp.Pwm},
		saw: &dsp.Osc{Wave: dsp.Saw},
		sub: &dsp.Osc{Wave: dsp.Sub},
	}
	v.mixer = &dsp.Mixer{Inputs: []dsp.MixerInput{
		{Node: v.pwm, Gain: 1.0 / 3},
		{Node: v.saw, Gain: 1.0 / 3},
		{Node: v.sub, Gain: 1.0 / 3},
	}}
	v.lpf = &dsp.Lpf{Input: v.mixer}
	v.adsr = &dsp.Adsr{Input: v.lpf}
	return v
}

// NoteOn assigns pitch to this voice: oscillator phases reset for phase
// coherence, parameters loaded from the current snapshot, and the envelope
// retriggered from Attack.
func (v *Voice) NoteOn(n synth.NoteNumber, p Params, sampleRate float64) {
	freq := n.Freq()

	v.pwm.ResetPhase()
	v.pwm.Freq = freq
	v.pwm.Duty = p.PwmDuty

	v.saw.ResetPhase()
	v.saw.Freq = freq

	v.sub.ResetPhase()
	v.sub.Freq = freq
	v.sub.Duty = p.SubDuty
	v.sub.Offst = p.SubOffset

	v.lpf.Cutoff = p.Cutoff
	v.lpf.Drive = p.Drive
	v.lpf.Resonance = p.Resonance

	v.adsr.AttackTime = p.AttackTime
	v.adsr.DecayTime = p.DecayTime
	v.adsr.SustainLvl = p.SustainLvl
	v.adsr.ReleaseTime = p.ReleaseTime
	v.adsr.NoteOn(sampleRate)

	v.note = n
	v.held = true
}

// NoteOff moves the envelope to Release only if this voice is still holding
// exactly n.
func (v *Voice) NoteOff(n synth.NoteNumber, sampleRate float64) {
	if v.held && v.note == n {
		v.adsr.NoteOff(sampleRate)
	}
}

// ForceOff releases the voice regardless of which note it holds, used by
// Synth.AllNotesOff.
func (v *Voice) ForceOff(sampleRate float64) {
	if v.held {
		v.adsr.NoteOff(sampleRate)
	}
}

// Idle reports whether the voice's envelope has fully released. An idle
// voice contributes zero and costs only this constant-time check.
func (v *Voice) Idle() bool {
	if v.adsr.State() == dsp.Idle {
		v.held = false
		return true
	}
	return false
}

// Note reports the note number this voice is currently assigned, valid only
// while the voice is held.
func (v *Voice) Note() synth.NoteNumber {
	return v.note
}

// ApplyBlockParams updates the parameters that are allowed to change at
// block boundaries (filter cutoff/drive/resonance) without retriggering the
// envelope or resetting oscillator phase.
func (v *Voice) ApplyBlockParams(p Params) {
	v.lpf.Cutoff = p.Cutoff
	v.lpf.Drive = p.Drive
	v.lpf.Resonance = p.Resonance
}

// Process pulls the voice's full sub-graph. An idle voice writes silence
// without pulling anything (the Adsr short-circuits).
func (v *Voice) Process(ctx *synth.Context, out []synth.Sample) {
	v.adsr.Process(ctx, out)
}

// Synth owns a fixed pool of voices, allocating free voices first and
// falling back to round-robin stealing.
type Synth struct {
	voices     []*Voice
	nextIdx    int
	params     *param.Snapshot[Params]
	sampleRate float64
}

// New creates a Synth with numVoices voices.
func New(numVoices int, sampleRate float64, initial Params) *Synth {
	if numVoices <= 0 {
		panic("voice: numVoices must be positive")
	}
	voices := make([]*Voice, numVoices)
	for i := range voices {
		voices[i] = newVoice()
	}
	return &Synth{
		voices:     voices,
		params:     param.NewSnapshot(initial),
		sampleRate: sampleRate,
	}
}

// Params returns the synth's parameter snapshot, for the control thread to
// publish updates into.
func (s *Synth) Params() *param.Snapshot[Params] {
	return s.params
}

// NoteOn assigns n to the first free voice, or steals the next voice in
// round-robin order if none are free. Duplicate note-on for the same n is
// permitted and not coalesced: every voice assigned n keeps it, and
// NoteOff(n) releases all of them.
func (s *Synth) NoteOn(n synth.NoteNumber) {
	p := s.params.Load()
	for _, v := range s.voices {
		if v.Idle() {
			v.NoteOn(n, p, s.sampleRate)
			return
		}
	}
	v := s.voices[s.nextIdx]
	s.nextIdx = (s.nextIdx + 1) % len(s.voices)
	v.NoteOn(n, p, s.sampleRate)
}

// NoteOff sends note-off to every voice currently holding n.
func (s *Synth) NoteOff(n synth.NoteNumber) {
	for _, v := range s.voices {
		v.NoteOff(n, s.sampleRate)
	}
}

// AllNotesOff releases every currently held voice.
func (s *Synth) AllNotesOff() {
	for _, v := range s.voices {
		v.ForceOff(s.sampleRate)
	}
}

// ApplyBlockParams pushes the current parameter snapshot into every voice's
// block-rate parameters (filter cutoff/drive/resonance). Called once per
// audio callback by the realtime driver, after the snapshot itself has been
// refreshed from the control thread.
func (s *Synth) ApplyBlockParams() {
	p := s.params.Load()
	for _, v := range s.voices {
		v.ApplyBlockParams(p)
	}
}

// Process sums every active voice's output at equal gain. Idle voices are
// skipped entirely.
func (s *Synth) Process(ctx *synth.Context, out []synth.Sample) {
	for i := range out {
		out[i] = 0
	}
	for _, v := range s.voices {
		if v.Idle() {
			continue
		}
		synth.Accumulate(ctx, out, v)
	}
}
