package synth

import "math"

// Frame is a count of audio samples since time 0.
type Frame uint64

// Sample is a single audio sample, approximately in [-1, 1]. It is an alias
// for float32 (not a distinct type) so that graph buffers interoperate
// directly with the arena's float32 pool and with the host's native sample
// format without conversion.
type Sample = float32

// NoteNumber is a MIDI-style note number; 69 is A440.
type NoteNumber uint8

// FrameForBeats converts a beat position to an absolute frame at the given
// tempo, per the beat<->frame conversion in the data model.
func FrameForBeats(beats, sampleRate, bpm float64) Frame {
	return Frame(roundHalfAwayFromZero(beats * 60 * sampleRate / bpm))
}

func roundHalfAwayFromZero(f float64) float64 {
	if f < 0 {
		return -roundHalfAwayFromZero(-f)
	}
	i := float64(int64(f))
	if f-i >= 0.5 {
		return i + 1
	}
	return i
}

// Freq returns the frequency in Hz for a MIDI note number, tuning A440 (note
// 69) as the reference pitch.
func (n NoteNumber) Freq() float64 {
	return 440.0 * math.Pow(2, (float64(n)-69.0)/12.0)
}
