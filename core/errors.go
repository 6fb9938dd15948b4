package core

import "errors"

// The error taxonomy of the session core. These are kinds, not transport
// errors: the state machine classifies every failure into exactly one of them
// with errors.Is and decides the transition from the kind alone.
//
// ErrAccountIndexOutOfRange and ErrActionNotPermitted are recovered locally -
// the session stays in its current state and the caller may retry. Every other
// kind is session-fatal and routes to ExitReturnCard, forcing card return.
var (
	// ErrInvalidAmount is returned for a non-positive deposit or withdrawal
	// amount. Treated as a fatal protocol violation, not a retry.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrPINMismatch is returned when the Bank Authority declines the entered
	// PIN. The card is retained for return, never handed back to Ready.
	ErrPINMismatch = errors.New("pin is not matched")

	// ErrNoAccountsFound is returned when the Bank Authority resolves no
	// accounts for the inserted card.
	ErrNoAccountsFound = errors.New("no accounts found for card")

	// ErrAccountIndexOutOfRange is returned for an account selection outside
	// the fetched account list. Retryable in place.
	ErrAccountIndexOutOfRange = errors.New("selected account index is out of range")

	// ErrAccountInsufficientFunds is returned when a withdrawal would push the
	// account balance below zero.
	ErrAccountInsufficientFunds = errors.New("account does not have enough cash")

	// ErrCashBoxInsufficientFunds is returned when a withdrawal would push the
	// cash box below zero.
	ErrCashBoxInsufficientFunds = errors.New("cash box does not have enough cash")

	// ErrCashBoxOverCapacity is returned when a deposit would push the cash box
	// over its capacity limit.
	ErrCashBoxOverCapacity = errors.New("cash box does not have enough space")

	// ErrActionNotPermitted is returned for any action the current state does
	// not accept. The state is left unchanged and no side effect happens.
	ErrActionNotPermitted = errors.New("action is not permitted in current state")
)

// IsRetryable reports whether the session survives the given error in its
// current state, so the caller may correct the input and try again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrAccountIndexOutOfRange) || errors.Is(err, ErrActionNotPermitted)
}
