// Package synth implements the realtime core of a small digital-audio
// workstation: a pull-based audio graph, a polyphonic subtractive
// synthesizer, a per-track effect chain with hot-swappable topology, and the
// cross-thread primitives that connect a control thread to the realtime
// audio thread without blocking or allocating on the audio path.
//
// Everything outside this package (the audio host, the UI/input layer,
// persistence) is a collaborator referenced only through the interfaces in
// this package and its subpackages.
package synth
