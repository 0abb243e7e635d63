package synthstate

import (
	"sync"
	"time"
)

// timeoutConfig is the stored expiration policy for one state.
type timeoutConfig[TState comparable] struct {
	duration  time.Duration
	target    TState
	hasTarget bool
	onExpire  func(state TState)
}

// TimeoutOption configures a state timeout created by SetStateTimeout.
type TimeoutOption[TState comparable] func(*timeoutConfig[TState])

// ExpireTo makes the machine attempt Go(target) when the timeout elapses.
func ExpireTo[TState comparable](target TState) TimeoutOption[TState] {
	return func(c *timeoutConfig[TState]) {
		c.target = target
		c.hasTarget = true
	}
}

// OnExpire installs a handler invoked when the timeout elapses. The handler
// takes precedence over ExpireTo and decides itself whether and when to
// transition.
func OnExpire[TState comparable](handler func(state TState)) TimeoutOption[TState] {
	return func(c *timeoutConfig[TState]) {
		c.onExpire = handler
	}
}

// activeTimer wraps a live timer handle. Its pointer identity ties a fire
// callback to the arming that scheduled it.
type activeTimer struct {
	timer *time.Timer
}

// timeoutManager owns each state's expiration config plus at most one live
// timer per state. Storage is per machine instance; two machines never
// share timer handles.
type timeoutManager[TState comparable] struct {
	mu      sync.Mutex
	configs map[TState]*timeoutConfig[TState]
	timers  map[TState]*activeTimer
}

func newTimeoutManager[TState comparable]() *timeoutManager[TState] {
	return &timeoutManager[TState]{
		configs: make(map[TState]*timeoutConfig[TState]),
		timers:  make(map[TState]*activeTimer),
	}
}

// setConfig stores cfg for state, replacing any prior config.
func (tm *timeoutManager[TState]) setConfig(state TState, cfg *timeoutConfig[TState]) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.configs[state] = cfg
}

// config returns the stored config for state, if any.
func (tm *timeoutManager[TState]) config(state TState) (*timeoutConfig[TState], bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	cfg, ok := tm.configs[state]
	return cfg, ok
}

// clearConfig removes state's config and cancels its live timer, if any.
func (tm *timeoutManager[TState]) clearConfig(state TState) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.configs, state)
	tm.stopLocked(state)
}

// arm schedules state's timer, canceling any live one first. fire runs on
// the timer goroutine only if the arming is still the registered one at
// fire time, and the entry is removed from the active set before fire runs:
// a rearm during expiration handling is never confused with the firing
// timer. No-op if state has no config.
func (tm *timeoutManager[TState]) arm(state TState, fire func(cfg *timeoutConfig[TState])) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	cfg, ok := tm.configs[state]
	if !ok {
		return
	}
	tm.stopLocked(state)

	entry := &activeTimer{}
	entry.timer = time.AfterFunc(cfg.duration, func() {
		if !tm.claim(state, entry) {
			return
		}
		fire(cfg)
	})
	tm.timers[state] = entry
}

// claim removes state's timer entry if it is still the given one. A false
// return means the timer was disarmed or replaced between scheduling and
// firing, and the fire must be discarded.
func (tm *timeoutManager[TState]) claim(state TState, entry *activeTimer) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.timers[state] != entry {
		return false
	}
	delete(tm.timers, state)
	return true
}

// disarm cancels state's live timer, if any.
func (tm *timeoutManager[TState]) disarm(state TState) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.stopLocked(state)
}

// disarmAll cancels every live timer.
func (tm *timeoutManager[TState]) disarmAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for state, entry := range tm.timers {
		entry.timer.Stop()
		delete(tm.timers, state)
	}
}

func (tm *timeoutManager[TState]) stopLocked(state TState) {
	if entry, ok := tm.timers[state]; ok {
		entry.timer.Stop()
		delete(tm.timers, state)
	}
}

// active reports whether state has a live timer.
func (tm *timeoutManager[TState]) active(state TState) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	_, ok := tm.timers[state]
	return ok
}

// configCount returns the number of states with a timeout config.
func (tm *timeoutManager[TState]) configCount() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.configs)
}

// activeCount returns the number of live timers.
func (tm *timeoutManager[TState]) activeCount() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.timers)
}
