package graph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synthstate "github.com/HiceS/synth-state"
	"github.com/HiceS/synth-state/graph"
)

func buildSnapshot(t *testing.T) synthstate.Snapshot {
	t.Helper()
	m := synthstate.New("off hook")
	m.AddPath("off hook", "ringing", "connected")
	m.AddTransition("connected", "off hook")
	require.NoError(t, m.SetStateTimeout("ringing", 30*time.Second, synthstate.ExpireTo("off hook")))
	return m.Snapshot()
}

func TestDot(t *testing.T) {
	out := graph.Dot(buildSnapshot(t))

	assert.Contains(t, out, "digraph {")
	assert.Contains(t, out, "rankdir=\"LR\"")
	assert.Contains(t, out, "\"off hook\" -> \"ringing\"")
	assert.Contains(t, out, "\"ringing\" -> \"connected\"")
	assert.Contains(t, out, "init -> \"off hook\"")
	// Current state is highlighted.
	assert.Contains(t, out, "\"off hook\" [label=\"off hook\", style=\"filled\"];")
	// Timeout auto-transition is a dashed labeled edge.
	assert.Contains(t, out, "\"ringing\" -> \"off hook\" [style=\"dashed\", label=\"30s\"]")
}

func TestDotEscapesLabels(t *testing.T) {
	m := synthstate.New(`sta"te`)
	m.AddTransition(`sta"te`, "other")

	out := graph.Dot(m.Snapshot())

	assert.Contains(t, out, `sta\"te`)
}

func TestMermaid(t *testing.T) {
	out := graph.Mermaid(buildSnapshot(t), graph.LeftToRight)

	assert.Contains(t, out, "stateDiagram-v2")
	assert.Contains(t, out, "direction LR")
	// Names with spaces get sanitized identifiers plus an alias line.
	assert.Contains(t, out, "off_hook : off hook")
	assert.Contains(t, out, "[*] --> off_hook")
	assert.Contains(t, out, "off_hook --> ringing")
	assert.Contains(t, out, "ringing --> connected")
	assert.Contains(t, out, "ringing --> off_hook : after 30s")
}

func TestMermaidDirections(t *testing.T) {
	snap := buildSnapshot(t)

	assert.Contains(t, graph.Mermaid(snap, graph.TopToBottom), "direction TB")
	assert.Contains(t, graph.Mermaid(snap, graph.BottomToTop), "direction BT")
	assert.Contains(t, graph.Mermaid(snap, graph.RightToLeft), "direction RL")
}
