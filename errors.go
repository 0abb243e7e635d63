package synthstate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// InvalidTransitionError is returned by TryGo when no edge permits moving
// from the machine's current state to the requested target. It carries the
// valid targets of the current state for diagnostics.
type InvalidTransitionError struct {
	From         any
	Target       any
	ValidTargets []any
}

func (e *InvalidTransitionError) Error() string {
	if len(e.ValidTargets) == 0 {
		return fmt.Sprintf(
			"no transition from state '%v' to '%v'. No leaving transitions are permitted from the state",
			e.From, e.Target)
	}
	targets := make([]string, len(e.ValidTargets))
	for i, t := range e.ValidTargets {
		targets[i] = fmt.Sprintf("%v", t)
	}
	return fmt.Sprintf(
		"no transition from state '%v' to '%v'. Valid targets: %s",
		e.From, e.Target, strings.Join(targets, ", "))
}

// InvalidTimeoutError is returned by SetStateTimeout when the duration is
// not positive, or when neither an expire target nor an expire handler was
// supplied. The machine is not mutated when this is returned.
type InvalidTimeoutError struct {
	State    any
	Duration time.Duration
	Reason   string
}

func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("invalid timeout for state '%v': %s", e.State, e.Reason)
}

// ExpiredTransitionWarning describes a fired state timeout whose expire
// target was not reachable from the expiring state. It is non-fatal: the
// machine stays in place and the warning is emitted on the diagnostic
// logger rather than returned.
type ExpiredTransitionWarning struct {
	State  any
	Target any
}

func (e *ExpiredTransitionWarning) Error() string {
	return fmt.Sprintf(
		"timeout for state '%v' expired but target '%v' is not a valid transition; staying in place",
		e.State, e.Target)
}

// IsInvalidTransition reports whether err is an *InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

// IsInvalidTimeout reports whether err is an *InvalidTimeoutError.
func IsInvalidTimeout(err error) bool {
	var e *InvalidTimeoutError
	return errors.As(err, &e)
}
