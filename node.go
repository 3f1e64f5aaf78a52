package synth

// Node is the uniform contract every DSP node satisfies: process one block
// of length len(out), writing exactly len(out) samples. Dispatch happens
// once per block per node — no per-sample virtual call is required.
//
// A node with a single upstream source rents a temporary buffer from
// ctx.Temp, recursively pulls its upstream into it, and produces into out.
// The graph is a DAG rooted at the timeline's master mixer; process order is
// strictly depth-first. Cycles are a programming error, not something this
// package detects at runtime.
type Node interface {
	Process(ctx *Context, out []Sample)
}

// PullInto rents a temporary buffer the size of out from ctx, pulls src into
// it, and returns the temporary. This is the standard shape a single-input
// node uses to get its upstream signal before producing into its own out
// buffer.
func PullInto(ctx *Context, src Node, n int) []Sample {
	tmp := ctx.Temp(n)
	src.Process(ctx, tmp)
	return tmp
}

// Accumulate adds src into dst in place, after pulling src through ctx. Used
// by mixer-shaped nodes that sum several upstream sources: pull into a temp,
// accumulate into out, repeat per input.
func Accumulate(ctx *Context, dst []Sample, src Node) {
	tmp := PullInto(ctx, src, len(dst))
	for i := range dst {
		dst[i] += tmp[i]
	}
}
