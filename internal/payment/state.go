package payment

import (
	"fmt"
	"sync"
)

// State is the position of one attempt in the payment state machine.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateSubmitted      State = "submitted"
	StateSettledSuccess State = "settled-success"
	StateSettledFailure State = "settled-failure"
)

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateIdle, StateSubmitted},
	StateSubmitted:  {StateSettledSuccess, StateSettledFailure},
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateSettledSuccess || s == StateSettledFailure
}

// Transaction tracks the state of a single attempt and rejects moves the
// machine does not allow.
type Transaction struct {
	mu      sync.Mutex
	state   State
	history []State
}

// NewTransaction starts a transaction in the idle state.
func NewTransaction() *Transaction {
	return &Transaction{state: StateIdle, history: []State{StateIdle}}
}

// State returns the current state.
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// History returns every state visited, oldest first.
func (t *Transaction) History() []State {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]State, len(t.history))
	copy(out, t.history)
	return out
}

// To moves the transaction to next.
func (t *Transaction) To(next State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, allowed := range transitions[t.state] {
		if allowed == next {
			t.state = next
			t.history = append(t.history, next)
			return nil
		}
	}
	return fmt.Errorf("invalid payment transition %s -> %s", t.state, next)
}
