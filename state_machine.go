package synthstate

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Logger is the default diagnostic logger used when none is provided.
var Logger = slog.Default()

// Machine is a finite-state machine over an application-defined state
// domain. The state type only needs equality; values are formatted with
// their natural string representation for diagnostics and display.
//
// The machine follows a cooperative single-threaded model: all mutation
// happens synchronously inside Go, TryGo, Reset, SetStateTimeout,
// ClearStateTimeout or a fired timer's expiration handling, and none of
// those block. Entry handlers may reenter the machine; the nested
// transition runs to completion before the outer one finishes its own
// bookkeeping. The machine is not meant to be driven from multiple
// goroutines concurrently, but the timer path (which fires on its own
// goroutine) is safe against cooperative callers.
type Machine[TState comparable] struct {
	mu       sync.RWMutex
	current  TState
	previous TState
	initial  TState

	graph     *transitionGraph[TState]
	callbacks *callbackRegistry[TState]
	timeouts  *timeoutManager[TState]

	logger *slog.Logger
}

// Option configures a Machine during construction.
type Option[TState comparable] func(*Machine[TState])

// WithLogger sets the diagnostic logger for the machine.
func WithLogger[TState comparable](logger *slog.Logger) Option[TState] {
	return func(m *Machine[TState]) {
		m.logger = logger
	}
}

// New creates a machine positioned at initial. Until the first transition,
// Current, Previous and the initial state are all equal.
func New[TState comparable](initial TState, opts ...Option[TState]) *Machine[TState] {
	m := &Machine[TState]{
		current:   initial,
		previous:  initial,
		initial:   initial,
		graph:     newTransitionGraph[TState](),
		callbacks: newCallbackRegistry[TState](),
		timeouts:  newTimeoutManager[TState](),
		logger:    Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// transitionConfig collects the options of AddTransition / AddTransitions.
type transitionConfig struct {
	loop bool
}

// TransitionOption configures transitions added by AddTransition and
// AddTransitions.
type TransitionOption func(*transitionConfig)

// WithLoop inserts the reverse edge alongside each added transition, making
// it traversable in both directions.
func WithLoop() TransitionOption {
	return func(c *transitionConfig) {
		c.loop = true
	}
}

// AddTransition permits moving from one state to another. With WithLoop the
// reverse edge is inserted as well. Adding an edge that already exists is a
// no-op.
func (m *Machine[TState]) AddTransition(from, to TState, opts ...TransitionOption) *Machine[TState] {
	var cfg transitionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	m.graph.addEdge(from, to)
	if cfg.loop {
		m.graph.addEdge(to, from)
	}
	return m
}

// AddTransitions permits moving from one state to each of the listed
// targets. Options apply to every target.
func (m *Machine[TState]) AddTransitions(from TState, targets []TState, opts ...TransitionOption) *Machine[TState] {
	for _, to := range targets {
		m.AddTransition(from, to, opts...)
	}
	return m
}

// AddPath permits moving along the given states in order: an edge is added
// between each consecutive pair, one-way.
func (m *Machine[TState]) AddPath(states ...TState) *Machine[TState] {
	for i := 0; i+1 < len(states); i++ {
		m.graph.addEdge(states[i], states[i+1])
	}
	return m
}

// On registers handler to run each time the machine enters state. Handlers
// run synchronously in registration order, after the transition has
// committed; registering the same function twice for a state keeps a single
// entry.
func (m *Machine[TState]) On(state TState, handler EntryHandler[TState]) *Machine[TState] {
	m.callbacks.register(state, handler)
	return m
}

// Current returns the machine's current state.
func (m *Machine[TState]) Current() TState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the state the machine was in before the last transition.
func (m *Machine[TState]) Previous() TState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// Initial returns the state the machine was created with.
func (m *Machine[TState]) Initial() TState {
	return m.initial
}

// CanTransition reports whether an edge permits moving from the current
// state to target. It is a pure query with no side effects.
func (m *Machine[TState]) CanTransition(target TState) bool {
	return m.graph.hasEdge(m.Current(), target)
}

// ValidTransitions returns the states reachable from the current state in a
// single transition, in the order their edges were added.
func (m *Machine[TState]) ValidTransitions() []TState {
	return m.graph.neighbors(m.Current())
}

// Go attempts a transition to target. When no edge permits it, the machine
// is left untouched: the rejection is reported on the diagnostic logger and
// the unchanged current state is returned. Use TryGo to surface rejections
// as errors instead.
//
// Entry handlers may call Go again; the nested transition completes before
// the outer call arms target's timer. If a handler moved the machine away
// from target, the outer call still arms a timer keyed to target; the
// expiration guard discards it when it fires against a different current
// state.
func (m *Machine[TState]) Go(target TState) TState {
	next, err := m.TryGo(target)
	if err != nil {
		var invalid *InvalidTransitionError
		if errors.As(err, &invalid) {
			m.logger.Debug("transition rejected",
				"from", invalid.From,
				"target", invalid.Target,
				"valid", invalid.ValidTargets)
		}
	}
	return next
}

// TryGo attempts a transition to target, failing with
// *InvalidTransitionError when no edge permits it. On success the commit
// order is fixed: the left state's timer is disarmed, previous/current are
// updated, target's entry handlers run, then target's timer is armed (if
// configured). The returned state is the machine's current state after the
// transition and any nested transitions made by handlers.
//
// A panicking handler propagates to the caller; the transition has already
// committed by then and is not rolled back.
func (m *Machine[TState]) TryGo(target TState) (TState, error) {
	from := m.Current()
	if !m.graph.hasEdge(from, target) {
		return from, &InvalidTransitionError{
			From:         from,
			Target:       target,
			ValidTargets: toAnySlice(m.graph.neighbors(from)),
		}
	}

	m.timeouts.disarm(from)

	m.mu.Lock()
	m.previous = from
	m.current = target
	m.mu.Unlock()

	m.callbacks.dispatch(target, from, target)
	m.armTimer(target)

	return m.Current(), nil
}

// Reset disarms every timer and returns the machine to its initial state,
// arming the initial state's timer when one is configured. The transition
// graph, entry handlers and timeout configs are all kept.
func (m *Machine[TState]) Reset() {
	m.timeouts.disarmAll()

	m.mu.Lock()
	m.previous = m.initial
	m.current = m.initial
	m.mu.Unlock()

	m.armTimer(m.initial)
}

// SetStateTimeout configures state to expire duration after it is entered,
// replacing any previous config for that state. At least one of ExpireTo
// and OnExpire must be given; when both are, the handler wins. If state is
// the current state, its timer is (re)armed immediately.
func (m *Machine[TState]) SetStateTimeout(state TState, duration time.Duration, opts ...TimeoutOption[TState]) error {
	cfg := &timeoutConfig[TState]{duration: duration}
	for _, opt := range opts {
		opt(cfg)
	}
	if duration <= 0 {
		return &InvalidTimeoutError{
			State:    state,
			Duration: duration,
			Reason:   "duration must be positive",
		}
	}
	if !cfg.hasTarget && cfg.onExpire == nil {
		return &InvalidTimeoutError{
			State:    state,
			Duration: duration,
			Reason:   "either an expire target or an expire handler is required",
		}
	}

	m.timeouts.setConfig(state, cfg)
	if m.Current() == state {
		m.armTimer(state)
	}
	return nil
}

// ClearStateTimeout removes state's timeout config and cancels its live
// timer, if any.
func (m *Machine[TState]) ClearStateTimeout(state TState) *Machine[TState] {
	m.timeouts.clearConfig(state)
	return m
}

// armTimer schedules state's expiration if a config exists.
func (m *Machine[TState]) armTimer(state TState) {
	m.timeouts.arm(state, func(cfg *timeoutConfig[TState]) {
		m.handleExpiration(state, cfg)
	})
}

// handleExpiration runs on the timer goroutine after state's configured
// duration elapsed without the timer being disarmed or replaced.
func (m *Machine[TState]) handleExpiration(state TState, cfg *timeoutConfig[TState]) {
	// A timer that outlived its visit must prove the state is still
	// current before having any effect. Under correct disarm discipline
	// this branch is unreachable, but it stays as the defense against a
	// late-firing timer.
	if m.Current() != state {
		m.logger.Debug("discarding stale timer", "state", state, "current", m.Current())
		return
	}

	if cfg.onExpire != nil {
		cfg.onExpire(state)
		return
	}

	if m.CanTransition(cfg.target) {
		m.Go(cfg.target)
		return
	}

	warn := &ExpiredTransitionWarning{State: state, Target: cfg.target}
	m.logger.Warn(warn.Error(), "state", state, "target", cfg.target)
}

func toAnySlice[TState comparable](states []TState) []any {
	out := make([]any, len(states))
	for i, s := range states {
		out[i] = s
	}
	return out
}
