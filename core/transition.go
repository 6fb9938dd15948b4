package core

// Transition represents the outcome of dispatching one customer action to the
// active state handler.
//
// Transition values should only be constructed with the provided factory
// methods: StayTransition, RetryTransition, MoveTransition or FatalTransition.
type Transition struct {
	Outcome string // "stay", "move", or "fatal"
	Next    State  // meaningful for "move" and "fatal"
	Err     error
}

const (
	stayOutcome  = "stay"
	moveOutcome  = "move"
	fatalOutcome = "fatal"
)

// StayTransition creates a Transition indicating the action completed without
// a state change.
func StayTransition() Transition {
	return Transition{Outcome: stayOutcome}
}

// RetryTransition creates a Transition for a locally recovered failure: the
// session stays in its current state and the caller may retry.
func RetryTransition(err error) Transition {
	return Transition{Outcome: stayOutcome, Err: err}
}

// MoveTransition creates a Transition to the given next state.
func MoveTransition(next State) Transition {
	return Transition{Outcome: moveOutcome, Next: next}
}

// FatalTransition creates a Transition for a session-fatal failure: the
// machine routes unconditionally to ExitReturnCard so the card is returned.
func FatalTransition(err error) Transition {
	return Transition{Outcome: fatalOutcome, Next: StateExitReturnCard, Err: err}
}

// ChangesState reports whether the transition leaves the current state.
func (t Transition) ChangesState() bool {
	return t.Outcome != stayOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (t Transition) HasError() error {
	return t.Err
}
