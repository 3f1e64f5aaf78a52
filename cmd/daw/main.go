// Command daw is the harness: it spawns the realtime driver on the audio
// thread via internal/host and runs a readline command loop on the main
// goroutine that parses dub commands into note events and ops, pushed into
// the driver's rings.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/wang-edward/synth"
	"github.com/wang-edward/synth/dub"
	"github.com/wang-edward/synth/engine"
	"github.com/wang-edward/synth/internal/host"
	"github.com/wang-edward/synth/ops"
	"github.com/wang-edward/synth/timeline"
	"github.com/wang-edward/synth/track"
	"github.com/wang-edward/synth/voice"
	"gitlab.com/gomidi/midi/v2"
)

func main() {
	var (
		sampleRate = flag.Float64("rate", 44100, "sample rate in Hz")
		bpm        = flag.Float64("bpm", 120, "tempo in beats per minute")
		blockSize  = flag.Int("block", 256, "host callback block size in frames")
		channels   = flag.Int("channels", 2, "output channel count")
		numVoices  = flag.Int("voices", 8, "per-track voice count")
	)
	flag.Parse()

	tl := timeline.New(*sampleRate, *numVoices, voice.DefaultParams())
	if _, err := tl.AddTrack(); err != nil {
		log.Fatal(err)
	}

	drv := engine.New(tl, *sampleRate, *bpm, 256, 64, 256)

	stream, err := host.Open(drv, *sampleRate, *channels, *blockSize)
	if err != nil {
		log.Fatal(err)
	}
	if err := stream.Start(); err != nil {
		log.Fatal(err)
	}

	go recordDrainLoop(drv)

	e := &env{driver: drv, activeTrack: 0}
	if err := repl(e); err != nil && err != io.EOF {
		fmt.Println(err)
	}

	drv.Shutdown.Store(true)
	if err := stream.Close(); err != nil {
		log.Println(err)
	}
}

// recordDrainLoop runs on its own control-thread goroutine, polling
// RecordRing for notes T_a captured while recording and inserting them into
// the owning track's scheduler. Scheduler.Add sorts on every insert, which
// is only safe off the realtime audio thread — this loop is that home.
func recordDrainLoop(drv *engine.Driver) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if drv.Shutdown.Load() {
			return
		}
		drv.DrainRecordings()
	}
}

// env holds the UI thread's view of which track is armed for interactive
// note input, and the driver it pushes note events and ops into.
type env struct {
	driver      *engine.Driver
	activeTrack int
}

func repl(e *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return err
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(line) == 0 {
			continue
		}
		cmd, err := dub.Parse(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if err := e.eval(cmd); err != nil {
			fmt.Println(err)
		}
	}
}

// eval dispatches one parsed dub command against the closed set of UI
// actions: transport ops, track management, interactive notes, and
// parameter pokes. Transport, note, and parameter commands push a plain
// value into one of the driver's rings. track-add and plugin-add call
// Timeline.AddTrack and Track.AddPlugin directly on this goroutine (both use
// their own swap protocol), and track-select only changes which track later
// note commands address. This goroutine never touches DSP state or the
// transport directly.
func (e *env) eval(cmd dub.Command) error {
	switch string(cmd.Name) {
	case "play":
		return e.pushOp(ops.TogglePlay())
	case "stop":
		return e.pushOp(ops.TogglePlay())
	case "reset":
		return e.pushOp(ops.Reset())
	case "seek":
		frame, err := intArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		return e.pushOp(ops.Seek(synth.Frame(frame)))
	case "record":
		idx, err := intArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		return e.pushOp(ops.ToggleRecord(idx))
	case "track-add":
		_, err := e.driver.Timeline.AddTrack()
		return err
	case "track-select":
		idx, err := intArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		e.activeTrack = idx
		return nil
	case "plugin-add":
		kind, err := pluginKindArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		tr := e.driver.Timeline.Track(e.activeTrack)
		id, err := tr.AddPlugin(kind)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	case "param":
		id, err := uuidArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		paramID, err := identArg(cmd.Args, 1)
		if err != nil {
			return err
		}
		value, err := floatArg(cmd.Args, 2)
		if err != nil {
			return err
		}
		return e.pushOp(ops.Param(id, paramID, value))
	case "noteon":
		note, err := intArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		return e.pushNote(engine.NoteEvent{TrackIndex: e.activeTrack, Note: synth.NoteNumber(note), On: true})
	case "noteoff":
		note, err := intArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		return e.pushNote(engine.NoteEvent{TrackIndex: e.activeTrack, Note: synth.NoteNumber(note), On: false})
	case "midi":
		channel, err := intArg(cmd.Args, 0)
		if err != nil {
			return err
		}
		key, err := intArg(cmd.Args, 1)
		if err != nil {
			return err
		}
		velocity, err := intArg(cmd.Args, 2)
		if err != nil {
			return err
		}
		return e.pushMIDI(uint8(channel), uint8(key), uint8(velocity))
	default:
		return fmt.Errorf("unknown command: %s", cmd.Name)
	}
}

// pushOp spin-retries on a full op ring, matching the non-critical-but-
// not-droppable choice the harness makes for UI-issued transport changes.
func (e *env) pushOp(op ops.Op) error {
	for !e.driver.OpRing.TryPush(op) {
	}
	return nil
}

// pushNote spin-retries on a full note ring; spec.md explicitly allows
// spin-retry for note events since dropping one produces an audible stuck
// or missing note.
func (e *env) pushNote(ev engine.NoteEvent) error {
	for !e.driver.NoteRing.TryPush(ev) {
	}
	return nil
}

// pushMIDI encodes a note message the way a real MIDI input device would
// (running-status note-on at velocity 0 means note-off), then decodes it
// back with the same library a hardware driver would use, before handing
// the core its plain NoteNumber/NoteEvent. This is the only place
// gitlab.com/gomidi/midi/v2's message vocabulary touches the codebase; the
// core itself never imports it, since decoding runs strictly on this
// control-thread goroutine, never on T_a.
func (e *env) pushMIDI(channel, key, velocity uint8) error {
	var msg midi.Message
	if velocity == 0 {
		msg = midi.NoteOff(channel, key, velocity)
	} else {
		msg = midi.NoteOn(channel, key, velocity)
	}

	var ch, k, v uint8
	if msg.GetNoteOn(&ch, &k, &v) {
		return e.pushNote(engine.NoteEvent{TrackIndex: e.activeTrack, Note: synth.NoteNumber(k), On: true})
	}
	if msg.GetNoteOff(&ch, &k, &v) {
		return e.pushNote(engine.NoteEvent{TrackIndex: e.activeTrack, Note: synth.NoteNumber(k), On: false})
	}
	return fmt.Errorf("midi: not a note message")
}

func intArg(args []dub.Node, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := args[i].(type) {
	case dub.Int:
		return int(v), nil
	case dub.Float:
		return int(v), nil
	default:
		return 0, fmt.Errorf("argument %d: expected a number", i)
	}
}

func floatArg(args []dub.Node, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := args[i].(type) {
	case dub.Float:
		return float64(v), nil
	case dub.Int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("argument %d: expected a number", i)
	}
}

func identArg(args []dub.Node, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %d", i)
	}
	switch v := args[i].(type) {
	case dub.Identifier:
		return string(v), nil
	case dub.String:
		return string(v), nil
	default:
		return "", fmt.Errorf("argument %d: expected an identifier", i)
	}
}

func uuidArg(args []dub.Node, i int) (uuid.UUID, error) {
	s, err := identArg(args, i)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("argument %d: %w", i, err)
	}
	return id, nil
}

func pluginKindArg(args []dub.Node, i int) (track.Kind, error) {
	name, err := identArg(args, i)
	if err != nil {
		return 0, err
	}
	switch name {
	case "gain":
		return track.KindGain, nil
	case "distortion":
		return track.KindDistortion, nil
	case "gate":
		return track.KindGate, nil
	case "delay":
		return track.KindDelay, nil
	case "lpf":
		return track.KindLpf, nil
	default:
		return 0, fmt.Errorf("unknown plugin kind: %s", name)
	}
}
