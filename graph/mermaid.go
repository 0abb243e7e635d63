package graph

import (
	"fmt"
	"strings"
	"unicode"

	synthstate "github.com/HiceS/synth-state"
)

// MermaidDirection specifies the flow direction of a Mermaid diagram.
type MermaidDirection int

const (
	// TopToBottom flows from top to bottom.
	TopToBottom MermaidDirection = iota
	// BottomToTop flows from bottom to top.
	BottomToTop
	// LeftToRight flows from left to right.
	LeftToRight
	// RightToLeft flows from right to left.
	RightToLeft
)

// Mermaid generates a stateDiagram-v2 document from a machine snapshot.
// State names are sanitized into Mermaid identifiers, with aliases declared
// for any that change.
func Mermaid(snap synthstate.Snapshot, direction MermaidDirection) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2")
	sb.WriteString(fmt.Sprintf("\n\tdirection %s", directionCode(direction)))

	names := sortedStateNames(snap)
	for _, name := range names {
		if id := sanitizeName(name); id != name {
			sb.WriteString(fmt.Sprintf("\n\t%s : %s", id, name))
		}
	}

	if _, ok := snap.States[snap.Initial]; ok {
		sb.WriteString(fmt.Sprintf("\n[*] --> %s", sanitizeName(snap.Initial)))
	}

	for _, name := range names {
		entry := snap.States[name]
		for _, to := range entry.ToStates {
			sb.WriteString(fmt.Sprintf("\n\t%s --> %s", sanitizeName(name), sanitizeName(to)))
		}
		if entry.Timeout != nil && entry.Timeout.ExpireTarget != "" {
			sb.WriteString(fmt.Sprintf("\n\t%s --> %s : after %s",
				sanitizeName(name), sanitizeName(entry.Timeout.ExpireTarget), entry.Timeout.Duration))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func directionCode(direction MermaidDirection) string {
	switch direction {
	case BottomToTop:
		return "BT"
	case LeftToRight:
		return "LR"
	case RightToLeft:
		return "RL"
	default:
		return "TB"
	}
}

// sanitizeName maps a state name onto a valid Mermaid identifier.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
