package synthstate

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TimeoutSnapshot describes a state's timeout config and live-timer status.
// Expire handlers are not representable as data and appear only as
// HasHandler.
type TimeoutSnapshot struct {
	Duration     time.Duration `json:"duration"`
	ExpireTarget string        `json:"expireTarget,omitempty"`
	HasHandler   bool          `json:"hasCallback"`
	Active       bool          `json:"isActive"`
}

// StateSnapshot describes one state in a Snapshot.
type StateSnapshot struct {
	ToStates      []string         `json:"toStates"`
	FromStates    []string         `json:"fromStates"`
	Timeout       *TimeoutSnapshot `json:"timeout,omitempty"`
	CallbackCount int              `json:"callbackCount"`
}

// Snapshot is the structured, serializable view of a machine's entire
// configuration and live status. States are keyed and listed by their
// string representation.
type Snapshot struct {
	Current  string                   `json:"current"`
	Previous string                   `json:"previous"`
	Initial  string                   `json:"initial"`
	States   map[string]StateSnapshot `json:"states"`

	TotalStates        int `json:"totalStates"`
	TotalTransitions   int `json:"totalTransitions"`
	StatesWithTimeouts int `json:"statesWithTimeouts"`
	ActiveTimers       int `json:"activeTimers"`
}

// Snapshot builds the structured view of the machine: every state the graph
// references, its neighbors, timeout summary and callback count, plus the
// position and summary counters.
func (m *Machine[TState]) Snapshot() Snapshot {
	snap := Snapshot{
		Current:  stateName(m.Current()),
		Previous: stateName(m.Previous()),
		Initial:  stateName(m.Initial()),
		States:   make(map[string]StateSnapshot),
	}

	for _, state := range m.graph.states() {
		entry := StateSnapshot{
			ToStates:      stateNames(m.graph.neighbors(state)),
			FromStates:    stateNames(m.graph.incoming(state)),
			CallbackCount: m.callbacks.count(state),
		}
		if cfg, ok := m.timeouts.config(state); ok {
			ts := &TimeoutSnapshot{
				Duration:   cfg.duration,
				HasHandler: cfg.onExpire != nil,
				Active:     m.timeouts.active(state),
			}
			if cfg.hasTarget {
				ts.ExpireTarget = stateName(cfg.target)
			}
			entry.Timeout = ts
		}
		snap.States[stateName(state)] = entry
		snap.TotalTransitions += len(entry.ToStates)
	}

	snap.TotalStates = len(snap.States)
	snap.StatesWithTimeouts = m.timeouts.configCount()
	snap.ActiveTimers = m.timeouts.activeCount()
	return snap
}

// DisplayString renders the machine for humans: position header, one line
// per state sorted by name with the current state marked, and a trailing
// totals line. The sort is a presentation convenience only; it carries no
// meaning for domains whose values are not naturally string-ordered.
func (m *Machine[TState]) DisplayString() string {
	snap := m.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "current: %s  previous: %s  initial: %s\n",
		snap.Current, snap.Previous, snap.Initial)

	names := make([]string, 0, len(snap.States))
	for name := range snap.States {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		entry := snap.States[name]
		marker := "  "
		if name == snap.Current {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s -> [%s]", marker, name, strings.Join(entry.ToStates, ", "))
		if entry.Timeout != nil {
			fmt.Fprintf(&b, "  timeout %s", entry.Timeout.Duration)
			if entry.Timeout.ExpireTarget != "" {
				fmt.Fprintf(&b, " -> %s", entry.Timeout.ExpireTarget)
			}
			if entry.Timeout.HasHandler {
				b.WriteString(" (custom handler)")
			}
			if entry.Timeout.Active {
				b.WriteString(" ACTIVE")
			}
		}
		if entry.CallbackCount > 0 {
			fmt.Fprintf(&b, "  callbacks: %d", entry.CallbackCount)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "%d states, %d transitions, %d with timeout, %d timers active\n",
		snap.TotalStates, snap.TotalTransitions, snap.StatesWithTimeouts, snap.ActiveTimers)
	return b.String()
}

func stateName[TState comparable](state TState) string {
	return fmt.Sprint(state)
}

func stateNames[TState comparable](states []TState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = stateName(s)
	}
	return out
}
