// Package synthstate provides a generic finite-state-machine engine for Go.
//
// A Machine tracks an application-defined state domain, enforces which
// transitions are legal, notifies entry callbacks, and can expire a state
// after a configurable duration — either by transitioning automatically or
// by handing control to a custom handler. It is meant to be embedded inside
// larger applications (UI flows, game states, connection lifecycles) as a
// correctness primitive.
//
// # Basic Usage
//
// Create a machine positioned at an initial state:
//
//	m := synthstate.New(Idle)
//
// Declare the legal transitions:
//
//	m.AddPath(Idle, Loading, Ready)
//	m.AddTransition(Ready, Idle)
//
// Drive the machine:
//
//	m.Go(Loading)            // silent policy: invalid moves are logged and ignored
//	next, err := m.TryGo(X)  // erroring policy: invalid moves return *InvalidTransitionError
//
// # Entry Callbacks
//
// Handlers registered with On run synchronously each time their state is
// entered, in registration order:
//
//	m.On(Ready, func(from, to State) {
//	    fmt.Printf("%v -> %v\n", from, to)
//	})
//
// # State Timeouts
//
// A state can be configured to expire a fixed duration after it is entered:
//
//	m.SetStateTimeout(Loading, 5*time.Second, synthstate.ExpireTo(Failed))
//
// Leaving the state before the duration elapses cancels the timer. With
// OnExpire instead of ExpireTo, a handler is invoked and decides itself
// whether to transition.
//
// # Introspection
//
// Snapshot returns a structured, serializable view of the whole machine;
// DisplayString renders the same data for humans. The graph subpackage
// turns a Snapshot into Graphviz DOT or Mermaid diagrams.
package synthstate
