// FILE: faultline/src/internal/retry/state.go
package retry

import (
	"fmt"
	"time"
)

// State of one retry invocation.
// PENDING -> ATTEMPTING -> {SUCCEEDED | RETRY_WAIT -> ATTEMPTING | FAILED_TERMINAL}
type State int

const (
	StatePending State = iota
	StateAttempting
	StateRetryWait
	StateSucceeded
	StateFailedTerminal
)

var stateNames = [...]string{
	StatePending:        "PENDING",
	StateAttempting:     "ATTEMPTING",
	StateRetryWait:      "RETRY_WAIT",
	StateSucceeded:      "SUCCEEDED",
	StateFailedTerminal: "FAILED_TERMINAL",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailedTerminal
}

// Transition is reported to Policy.Observer on every state change.
type Transition struct {
	Operation string
	From      State
	To        State
	Attempt   int
	Delay     time.Duration // set when entering RETRY_WAIT
	Err       error         // failure that caused the transition, if any
}
