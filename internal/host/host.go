// Package host wires a realtime driver to the system audio device via
// portaudio: open a default stream at a fixed sample rate/block size,
// drive it from a callback, and fan the core's mono block out to every
// output channel.
package host

import (
	"github.com/gordonklaus/portaudio"
	"github.com/wang-edward/synth"
)

// Block is the minimal surface host needs from a realtime driver: render
// exactly one mono block of output into buf.
type Block interface {
	ProcessBlock(buf []synth.Sample)
}

// Stream owns the portaudio device stream and the scratch mono buffer its
// callback renders into before fanning out to every channel.
type Stream struct {
	stream *portaudio.Stream
	mono   []synth.Sample
}

// Open initializes portaudio and opens the default output stream at
// sampleRate with the given channel count and block size, driven by
// driver.ProcessBlock once per callback.
func Open(driver Block, sampleRate float64, channels, blockSize int) (*Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Stream{mono: make([]synth.Sample, blockSize)}
	callback := func(out [][]float32) {
		driver.ProcessBlock(s.mono)
		for ch := range out {
			for i, v := range s.mono {
				out[ch][i] = float32(v)
			}
		}
	}
	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, blockSize, callback)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

// Start begins the audio callback.
func (s *Stream) Start() error {
	return s.stream.Start()
}

// Close stops the stream and tears down portaudio. Safe to call once the
// driver's shutdown flag has been set and any in-flight callback has
// returned.
func (s *Stream) Close() error {
	if err := s.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
