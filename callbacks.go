package synthstate

import (
	"reflect"
	"sync"
)

// EntryHandler is notified after the machine enters the state it is
// registered on. It receives the state that was left and the state that was
// entered.
type EntryHandler[TState comparable] func(from, to TState)

type callbackEntry[TState comparable] struct {
	fn EntryHandler[TState]
	// key identifies the handler's function for idempotent registration.
	key uintptr
}

// callbackRegistry keeps the ordered entry handlers of each state.
type callbackRegistry[TState comparable] struct {
	mu      sync.RWMutex
	entries map[TState][]callbackEntry[TState]
}

func newCallbackRegistry[TState comparable]() *callbackRegistry[TState] {
	return &callbackRegistry[TState]{
		entries: make(map[TState][]callbackEntry[TState]),
	}
}

// register appends handler to the state's list unless the same function is
// already registered for it. Identity is the function's code pointer:
// registering one named function (or one stored closure) twice keeps a
// single entry. Nil handlers are ignored.
func (r *callbackRegistry[TState]) register(state TState, handler EntryHandler[TState]) {
	if handler == nil {
		return
	}
	key := reflect.ValueOf(handler).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries[state] {
		if e.key == key {
			return
		}
	}
	r.entries[state] = append(r.entries[state], callbackEntry[TState]{fn: handler, key: key})
}

// dispatch invokes every handler registered for state synchronously, in
// registration order. Panics in a handler are not recovered. No lock is
// held while handlers run, so a handler may call back into the machine.
func (r *callbackRegistry[TState]) dispatch(state, from, to TState) {
	r.mu.RLock()
	entries := r.entries[state]
	handlers := make([]EntryHandler[TState], len(entries))
	for i, e := range entries {
		handlers[i] = e.fn
	}
	r.mu.RUnlock()

	for _, h := range handlers {
		h(from, to)
	}
}

// count returns the number of handlers registered for state.
func (r *callbackRegistry[TState]) count(state TState) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[state])
}
