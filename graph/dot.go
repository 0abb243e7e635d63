// Package graph renders machine snapshots as Graphviz DOT and Mermaid
// diagrams.
package graph

import (
	"fmt"
	"slices"
	"strings"

	synthstate "github.com/HiceS/synth-state"
)

// Dot generates a DOT digraph from a machine snapshot. The current state is
// highlighted, the initial state receives an entry arrow, and timeout
// auto-transitions appear as dashed edges labeled with their duration.
func Dot(snap synthstate.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("node [shape=Mrecord]\n")
	sb.WriteString("rankdir=\"LR\"\n")

	names := sortedStateNames(snap)
	for _, name := range names {
		attrs := fmt.Sprintf("label=\"%s\"", EscapeLabel(name))
		if name == snap.Current {
			attrs += ", style=\"filled\""
		}
		sb.WriteString(fmt.Sprintf("\"%s\" [%s];\n", EscapeLabel(name), attrs))
	}

	if _, ok := snap.States[snap.Initial]; ok {
		sb.WriteString("init [label=\"\", shape=point];\n")
		sb.WriteString(fmt.Sprintf("init -> \"%s\"\n", EscapeLabel(snap.Initial)))
	}

	for _, name := range names {
		entry := snap.States[name]
		for _, to := range entry.ToStates {
			sb.WriteString(fmt.Sprintf("\"%s\" -> \"%s\"\n",
				EscapeLabel(name), EscapeLabel(to)))
		}
		if entry.Timeout != nil && entry.Timeout.ExpireTarget != "" {
			sb.WriteString(fmt.Sprintf("\"%s\" -> \"%s\" [style=\"dashed\", label=\"%s\"]\n",
				EscapeLabel(name), EscapeLabel(entry.Timeout.ExpireTarget), entry.Timeout.Duration))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// EscapeLabel escapes quotes and backslashes for use in a DOT label.
func EscapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\\", "\\\\")
	label = strings.ReplaceAll(label, "\"", "\\\"")
	return label
}

func sortedStateNames(snap synthstate.Snapshot) []string {
	names := make([]string, 0, len(snap.States))
	for name := range snap.States {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
