package atm

import (
	"context"
	"errors"
	"time"

	"github.com/cashpointd/atm-session-go/core"
	"github.com/cashpointd/atm-session-go/session"
)

const (
	logMsgActionCompleted = "customer action completed"
	logMsgActionRejected  = "customer action rejected"
	logMsgActionFatal     = "customer action ended the session"
	logAttrAction         = "action"
	logAttrState          = "state"
	logAttrError          = "error"
	logAttrDurationMS     = "duration_ms"

	metricActionDuration = "atm_action_duration"
	metricActionTotal    = "atm_action_total"
	labelAction          = "action"
	labelOutcome         = "outcome"

	outcomeSuccess   = "success"
	outcomeRetryable = "retryable"
	outcomeFatal     = "fatal"
)

// ErrNilMachine is returned when a nil session machine is supplied to New.
var ErrNilMachine = errors.New("session machine must not be nil")

// Logger interface for per-action logging of the facade.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting per-action performance and
// operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ATM decorates a session.Machine with observability per customer action.
type ATM struct {
	machine          *session.Machine
	logger           Logger
	metricsCollector MetricsCollector
}

// Option defines a functional option for configuring an ATM.
type Option func(*ATM)

// WithLogger sets the logger for the facade.
// Debug level: completed and retried actions with timing.
// Info level: session-fatal actions, which force card return.
func WithLogger(logger Logger) Option {
	return func(a *ATM) {
		a.logger = logger
	}
}

// WithMetricsCollector sets the metrics collector for the facade.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(a *ATM) {
		a.metricsCollector = collector
	}
}

// New creates the facade around an existing session machine.
func New(machine *session.Machine, options ...Option) (*ATM, error) {
	if machine == nil {
		return nil, ErrNilMachine
	}

	facade := &ATM{machine: machine}

	for _, option := range options {
		option(facade)
	}

	return facade, nil
}

// InsertCard forwards the insert-card action.
func (a *ATM) InsertCard(ctx context.Context, card core.Card) error {
	return a.instrument(core.ActionInsertCard, func() error {
		return a.machine.InsertCard(ctx, card)
	})
}

// EnterPIN forwards the entered PIN.
func (a *ATM) EnterPIN(ctx context.Context, pin string) error {
	return a.instrument(core.ActionEnterPIN, func() error {
		return a.machine.EnterPIN(ctx, pin)
	})
}

// SelectAccount forwards the account selection.
func (a *ATM) SelectAccount(ctx context.Context, index int) error {
	return a.instrument(core.ActionSelectAccount, func() error {
		return a.machine.SelectAccount(ctx, index)
	})
}

// SelectDeposit forwards the select-deposit menu action.
func (a *ATM) SelectDeposit(ctx context.Context) error {
	return a.instrument(core.ActionSelectDeposit, func() error {
		return a.machine.SelectDeposit(ctx)
	})
}

// SelectWithdraw forwards the select-withdraw menu action.
func (a *ATM) SelectWithdraw(ctx context.Context) error {
	return a.instrument(core.ActionSelectWithdraw, func() error {
		return a.machine.SelectWithdraw(ctx)
	})
}

// SelectBalance forwards the select-balance menu action.
func (a *ATM) SelectBalance(ctx context.Context) error {
	return a.instrument(core.ActionSelectBalance, func() error {
		return a.machine.SelectBalance(ctx)
	})
}

// PutInCash forwards the deposited cash amount.
func (a *ATM) PutInCash(ctx context.Context, amount int64) error {
	return a.instrument(core.ActionPutInCash, func() error {
		return a.machine.PutInCash(ctx, amount)
	})
}

// EnterWithdrawalAmount forwards the requested withdrawal amount.
func (a *ATM) EnterWithdrawalAmount(ctx context.Context, amount int64) error {
	return a.instrument(core.ActionEnterWithdrawalAmount, func() error {
		return a.machine.EnterWithdrawalAmount(ctx, amount)
	})
}

// TakeOutCash forwards the confirmation that the customer took the cash.
func (a *ATM) TakeOutCash(ctx context.Context, amount int64) error {
	return a.instrument(core.ActionTakeOutCash, func() error {
		return a.machine.TakeOutCash(ctx, amount)
	})
}

// Back forwards the back menu action.
func (a *ATM) Back(ctx context.Context) error {
	return a.instrument(core.ActionBack, func() error {
		return a.machine.Back(ctx)
	})
}

// Exit cancels the session; the card is routed to return.
func (a *ATM) Exit(ctx context.Context) error {
	return a.instrument(core.ActionCancel, func() error {
		return a.machine.Exit(ctx)
	})
}

// TakeOutCard forwards the confirmation that the customer took the card.
func (a *ATM) TakeOutCard(ctx context.Context) error {
	return a.instrument(core.ActionTakeOutCard, func() error {
		return a.machine.TakeOutCard(ctx)
	})
}

// CurrentState returns the identifier of the active session state.
func (a *ATM) CurrentState() core.State {
	return a.machine.CurrentState()
}

// SelectedAccount returns a value copy of the selected account.
func (a *ATM) SelectedAccount() (core.Account, bool) {
	return a.machine.SelectedAccount()
}

// InsertedCard returns a value copy of the inserted card.
func (a *ATM) InsertedCard() (core.Card, bool) {
	return a.machine.InsertedCard()
}

// CardHolder returns a value copy of the inserted card's holder.
func (a *ATM) CardHolder() (core.Holder, bool) {
	return a.machine.CardHolder()
}

// DisplayedBalance returns the balance snapshot shown to the customer.
func (a *ATM) DisplayedBalance() int64 {
	return a.machine.DisplayedBalance()
}

// RegisterOnLoad installs the observer callback invoked after every state
// transition with the new state's identifier.
func (a *ATM) RegisterOnLoad(callback func(core.State)) {
	a.machine.RegisterOnLoad(callback)
}

// instrument runs one forwarded action and decorates it with logging and
// metrics; the machine's answer is passed through unchanged.
func (a *ATM) instrument(action core.Action, forward func() error) error {
	start := time.Now()

	err := forward()

	duration := time.Since(start)
	state := a.machine.CurrentState()

	a.recordMetrics(action, err, duration)
	a.logOutcome(action, state, err, duration)

	return err
}

func (a *ATM) recordMetrics(action core.Action, err error, duration time.Duration) {
	if a.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelAction:  action.String(),
		labelOutcome: outcomeFor(err),
	}

	a.metricsCollector.IncrementCounter(metricActionTotal, labels)
	a.metricsCollector.RecordDuration(metricActionDuration, duration, labels)
}

func (a *ATM) logOutcome(action core.Action, state core.State, err error, duration time.Duration) {
	if a.logger == nil {
		return
	}

	args := []any{
		logAttrAction, action.String(),
		logAttrState, state.String(),
		logAttrDurationMS, duration.Milliseconds(),
	}

	switch {
	case err == nil:
		a.logger.Debug(logMsgActionCompleted, args...)
	case core.IsRetryable(err):
		a.logger.Debug(logMsgActionRejected, append(args, logAttrError, err.Error())...)
	default:
		a.logger.Info(logMsgActionFatal, append(args, logAttrError, err.Error())...)
	}
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case core.IsRetryable(err):
		return outcomeRetryable
	default:
		return outcomeFatal
	}
}
