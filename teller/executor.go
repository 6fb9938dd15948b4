package teller

import (
	"math"

	"github.com/cashpointd/atm-session-go/core"
)

const (
	logMsgApplied        = "offset applied"
	logMsgApplyRejected  = "offset rejected, fields unchanged"
	logMsgReserved       = "withdrawal amount reserved"
	logMsgDispensed      = "cash dispensed"
	logMsgReleased       = "reserved amount released back to account"
	logAttrOffset        = "offset"
	logAttrAmount        = "amount"
	logAttrCash          = "cash"
	logAttrBalance       = "balance"
	logAttrError         = "error"
	logAttrAccountNumber = "account_number"
)

// Logger interface for operational logging of money movements.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Executor applies balance-affecting operations to a cash box and an account
// with all-or-nothing semantics. It is stateless apart from its configuration,
// so one instance can serve the machine for its whole process lifetime.
type Executor struct {
	logger Logger
}

// Option defines a functional option for configuring an Executor.
type Option func(*Executor)

// WithLogger sets the logger for the Executor.
// Debug level: every applied operation with resulting values.
// Info level: rejected operations with the violated invariant.
func WithLogger(logger Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor with optional configuration.
func NewExecutor(options ...Option) *Executor {
	executor := &Executor{}

	for _, option := range options {
		option(executor)
	}

	return executor
}

// Apply atomically applies a signed cash offset to both the cash box and the
// account. A positive offset is a deposit, a negative offset a withdrawal.
//
// Validation order:
//   - offset > 0: the new cash level must not exceed the cash box limit
//     (core.ErrCashBoxOverCapacity), and the new balance must stay
//     representable (core.ErrInvalidAmount)
//   - offset < 0: the new balance must not go below zero
//     (core.ErrAccountInsufficientFunds), and the new cash level must not go
//     below zero (core.ErrCashBoxInsufficientFunds)
//
// The checks compare the offset against the available headroom instead of
// inspecting tentatively mutated values, so an offset near the int64 bounds
// cannot wrap either field past its invariant. On any violation both fields
// keep their pre-call values and the specific error is returned; callers
// never observe a partial state.
func (e *Executor) Apply(box *core.CashBox, account *core.Account, offset int64) error {
	if err := validate(box, account, offset); err != nil {
		e.logInfo(logMsgApplyRejected,
			logAttrOffset, offset,
			logAttrAccountNumber, account.Number,
			logAttrError, err.Error())

		return err
	}

	box.Cash += offset
	account.Balance += offset

	e.logDebug(logMsgApplied,
		logAttrOffset, offset,
		logAttrAccountNumber, account.Number,
		logAttrCash, box.Cash,
		logAttrBalance, account.Balance)

	return nil
}

// Reserve earmarks a withdrawal amount: it verifies that the cash box can fund
// the amount and then debits the account, leaving the cash box untouched until
// the customer actually takes the notes (Dispense) or walks away (Release).
//
// On failure nothing has been applied, so no compensating action is needed.
func (e *Executor) Reserve(box *core.CashBox, account *core.Account, amount int64) error {
	if amount <= 0 {
		return core.ErrInvalidAmount
	}

	if box.Cash-amount < 0 {
		return core.ErrCashBoxInsufficientFunds
	}

	if account.Balance-amount < 0 {
		return core.ErrAccountInsufficientFunds
	}

	account.Balance -= amount

	e.logDebug(logMsgReserved,
		logAttrAmount, amount,
		logAttrAccountNumber, account.Number,
		logAttrBalance, account.Balance)

	return nil
}

// Dispense hands a previously reserved amount out of the cash box.
// The account was already debited by Reserve, so only the cash box moves.
func (e *Executor) Dispense(box *core.CashBox, amount int64) error {
	if amount <= 0 {
		return core.ErrInvalidAmount
	}

	if box.Cash-amount < 0 {
		return core.ErrCashBoxInsufficientFunds
	}

	box.Cash -= amount

	e.logDebug(logMsgDispensed, logAttrAmount, amount, logAttrCash, box.Cash)

	return nil
}

// Release credits a reserved-but-not-dispensed amount back to the account.
// This is the compensating action for leaving the withdrawal flow after
// Reserve; the cash never left the box, so only the account moves.
func (e *Executor) Release(account *core.Account, amount int64) error {
	if amount <= 0 {
		return core.ErrInvalidAmount
	}

	account.Balance += amount

	e.logDebug(logMsgReleased,
		logAttrAmount, amount,
		logAttrAccountNumber, account.Number,
		logAttrBalance, account.Balance)

	return nil
}

// validate checks the offset against the headroom of both parties. With the
// invariants holding on entry (0 <= Cash <= Limit, Balance >= 0) none of the
// subtractions below can overflow, which keeps the checks sound for offsets
// at the int64 bounds.
func validate(box *core.CashBox, account *core.Account, offset int64) error {
	if offset > 0 {
		if offset > box.Limit-box.Cash {
			return core.ErrCashBoxOverCapacity
		}

		if offset > math.MaxInt64-account.Balance {
			return core.ErrInvalidAmount
		}
	}

	if offset < 0 {
		if offset < -account.Balance {
			return core.ErrAccountInsufficientFunds
		}

		if offset < -box.Cash {
			return core.ErrCashBoxInsufficientFunds
		}
	}

	return nil
}

func (e *Executor) logDebug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Executor) logInfo(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}
