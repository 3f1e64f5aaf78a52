package track

import "github.com/wang-edward/synth"

// MaxPlugins is the per-chain plugin capacity. Exceeding it is rejected with
// synth.ErrCapacityExceeded rather than treated as fatal.
const MaxPlugins = 8

// Chain is an ordered sequence of plugins with a fixed input source. The
// chain's output is its last plugin's output, or its input directly if the
// chain is empty.
type Chain struct {
	Input   synth.Node
	plugins []*Plugin
}

func newChain(input synth.Node) *Chain {
	return &Chain{Input: input}
}

// relink restores the linking invariant after any mutation:
// plugins[0].input = chain.input, plugins[i].input = plugins[i-1].output().
func (c *Chain) relink() {
	var prev synth.Node = c.Input
	for _, p := range c.plugins {
		p.setInput(prev)
		prev = p
	}
}

// Output returns the node downstream consumers should pull from: the last
// plugin, or the chain's input if there are no plugins installed.
func (c *Chain) Output() synth.Node {
	if len(c.plugins) == 0 {
		return c.Input
	}
	return c.plugins[len(c.plugins)-1]
}

// Tags returns the chain's plugin kind sequence, used to check the
// cross-chain agreement invariant.
func (c *Chain) Tags() []Kind {
	tags := make([]Kind, len(c.plugins))
	for i, p := range c.plugins {
		tags[i] = p.kind
	}
	return tags
}

// Plugins returns the chain's plugin sequence. Callers must not mutate the
// returned slice.
func (c *Chain) Plugins() []*Plugin {
	return c.plugins
}

func cloneWithAppended(plugins []*Plugin, p *Plugin) []*Plugin {
	out := make([]*Plugin, len(plugins)+1)
	copy(out, plugins)
	out[len(plugins)] = p
	return out
}

func cloneWithoutIndex(plugins []*Plugin, idx int) []*Plugin {
	out := make([]*Plugin, 0, len(plugins)-1)
	out = append(out, plugins[:idx]...)
	out = append(out, plugins[idx+1:]...)
	return out
}
