package stage

import (
	"surveygen/domain/core"
)

// State is a pipeline run state.
type State string

const (
	StateIdle       State = "idle"
	StateAnalyzing  State = "analyzing"
	StatePlanning   State = "planning"
	StateDesigning  State = "designing"
	StateGenerating State = "generating"
	StateValidating State = "validating"
	StateAssembling State = "assembling"
	StateDone       State = "done"

	StateFailed       State = "failed"
	StateFallbackDone State = "fallback_done"
)

// Sequence is the happy-path order of states.
var Sequence = []State{
	StateIdle,
	StateAnalyzing,
	StatePlanning,
	StateDesigning,
	StateGenerating,
	StateValidating,
	StateAssembling,
	StateDone,
}

// transitions lists the allowed successors of each state. Every non-terminal
// happy-path state may also move to failed.
var transitions = map[State][]State{
	StateIdle:       {StateAnalyzing, StateFailed},
	StateAnalyzing:  {StatePlanning, StateFailed},
	StatePlanning:   {StateDesigning, StateFailed},
	StateDesigning:  {StateGenerating, StateFailed},
	StateGenerating: {StateValidating, StateFailed},
	StateValidating: {StateAssembling, StateFailed},
	StateAssembling: {StateDone, StateFailed},
	StateFailed:     {StateFallbackDone},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Transition is one recorded state change.
type Transition struct {
	From State          `json:"from"`
	To   State          `json:"to"`
	At   core.Timestamp `json:"at"`
}

// Machine tracks a single run through the state table. It is not safe for
// concurrent use; the orchestrator owns it for the duration of a run.
type Machine struct {
	current State
	history []Transition
	cause   error
}

// NewMachine starts in idle.
func NewMachine() *Machine {
	return &Machine{current: StateIdle}
}

// Current returns the current state.
func (m *Machine) Current() State {
	return m.current
}

// Advance moves to the next state, rejecting moves outside the table.
func (m *Machine) Advance(to State) error {
	if !CanTransition(m.current, to) {
		return core.NewTransitionError(string(m.current), string(to))
	}
	m.history = append(m.history, Transition{From: m.current, To: to, At: core.Now()})
	m.current = to
	return nil
}

// Fail moves to failed and records the cause. Failing an already failed
// machine keeps the first cause.
func (m *Machine) Fail(cause error) error {
	if m.current == StateFailed {
		return nil
	}
	if err := m.Advance(StateFailed); err != nil {
		return err
	}
	m.cause = cause
	return nil
}

// Cause is the error passed to Fail, if any.
func (m *Machine) Cause() error {
	return m.cause
}

// Failed reports whether the run left the happy path.
func (m *Machine) Failed() bool {
	return m.current == StateFailed || m.current == StateFallbackDone
}

// Path lists every visited state in order, starting with idle.
func (m *Machine) Path() []string {
	path := []string{string(StateIdle)}
	for _, t := range m.history {
		path = append(path, string(t.To))
	}
	return path
}

// History returns a copy of the recorded transitions.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}
