package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cashpointd/atm-session-go/bank"
	"github.com/cashpointd/atm-session-go/core"
	"github.com/cashpointd/atm-session-go/journal"
	"github.com/cashpointd/atm-session-go/teller"
)

const (
	logMsgTransition        = "state transition"
	logMsgEntryHookFailed   = "entry hook failed, routing to card return"
	logMsgJournalFailed     = "journal write failed, money state unaffected"
	logAttrFrom             = "from"
	logAttrTo               = "to"
	logAttrAction           = "action"
	logAttrError            = "error"
	logAttrJournalEntryKind = "journal_entry_kind"
)

var (
	// ErrNilCashBox is returned when a nil cash box is supplied to NewMachine.
	ErrNilCashBox = errors.New("cash box must not be nil")

	// ErrNilAuthority is returned when a nil bank authority is supplied to NewMachine.
	ErrNilAuthority = errors.New("bank authority must not be nil")

	// ErrNilExecutor is returned when a nil transaction executor is supplied to NewMachine.
	ErrNilExecutor = errors.New("transaction executor must not be nil")
)

// Logger interface for operational logging of session transitions.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Machine is the session state machine of one cash machine.
//
// One Machine serves one customer session at a time, start to finish; every
// action is processed to completion, including any Bank Authority or executor
// call, before the next one is accepted. The internal mutex only serializes
// accidental concurrent callers, it is not a concurrency feature.
type Machine struct {
	mu        sync.Mutex
	state     core.State
	sess      core.Session
	box       *core.CashBox
	authority bank.Authority
	executor  *teller.Executor
	recorder  journal.Recorder
	logger    Logger
	onLoad    func(core.State)
	clock     func() time.Time
}

// Option defines a functional option for configuring a Machine.
type Option func(*Machine)

// WithLogger sets the logger for the Machine.
// Debug level: every state transition with the triggering action.
// Warn level: journal write failures and entry hook failures.
func WithLogger(logger Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithJournal sets the journal recorder for money movements.
// Without a recorder, movements are not journaled.
func WithJournal(recorder journal.Recorder) Option {
	return func(m *Machine) {
		m.recorder = recorder
	}
}

// WithClock sets the time source for journal timestamps, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Machine) {
		m.clock = clock
	}
}

// NewMachine creates a Machine in the Idle state with an empty session.
// The cash box is owned by the machine for its process lifetime; authority and
// executor are the injected collaborators for PIN/account resolution and for
// all money mutation.
func NewMachine(
	box *core.CashBox,
	authority bank.Authority,
	executor *teller.Executor,
	options ...Option,
) (*Machine, error) {
	if box == nil {
		return nil, ErrNilCashBox
	}

	if authority == nil {
		return nil, ErrNilAuthority
	}

	if executor == nil {
		return nil, ErrNilExecutor
	}

	machine := &Machine{
		state:     core.StateIdle,
		sess:      core.EmptySession(),
		box:       box,
		authority: authority,
		executor:  executor,
		clock:     time.Now,
	}

	for _, option := range options {
		option(machine)
	}

	return machine, nil
}

// RegisterOnLoad installs the observer callback invoked after every transition
// with the new state's identifier. The callback runs synchronously inside the
// action call and must not call back into the Machine.
func (m *Machine) RegisterOnLoad(callback func(core.State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onLoad = callback
}

// CurrentState returns the identifier of the active state.
func (m *Machine) CurrentState() core.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// InsertedCard returns a value copy of the inserted card.
// The second return value is false while no card is inserted.
func (m *Machine) InsertedCard() (core.Card, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Card == nil {
		return core.Card{}, false
	}

	return *m.sess.Card, true
}

// CardHolder returns a value copy of the inserted card's holder.
// The second return value is false while no card is inserted.
func (m *Machine) CardHolder() (core.Holder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Card == nil {
		return core.Holder{}, false
	}

	return m.sess.Card.Holder, true
}

// SelectedAccount returns a value copy of the selected account.
// The second return value is false while nothing is selected.
func (m *Machine) SelectedAccount() (core.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sess.SelectedAccount()
}

// DisplayedBalance returns the balance snapshot taken when the machine last
// entered DisplayingBalance.
func (m *Machine) DisplayedBalance() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sess.DisplayedBalance
}

// InsertCard submits the insert-card action.
func (m *Machine) InsertCard(ctx context.Context, card core.Card) error {
	return m.dispatch(ctx, invocation{action: core.ActionInsertCard, card: card})
}

// EnterPIN submits the entered PIN for validation by the Bank Authority.
// On success the machine moves to Authorized and eagerly fetches the card's
// accounts; a declined PIN retains the card and moves to ExitReturnCard.
func (m *Machine) EnterPIN(ctx context.Context, pin string) error {
	return m.dispatch(ctx, invocation{action: core.ActionEnterPIN, pin: pin})
}

// SelectAccount submits the index of the account to operate on.
// An out-of-range index is retryable in place.
func (m *Machine) SelectAccount(ctx context.Context, index int) error {
	return m.dispatch(ctx, invocation{action: core.ActionSelectAccount, index: index})
}

// SelectDeposit submits the select-deposit menu action.
func (m *Machine) SelectDeposit(ctx context.Context) error {
	return m.dispatch(ctx, invocation{action: core.ActionSelectDeposit})
}

// SelectWithdraw submits the select-withdraw menu action.
func (m *Machine) SelectWithdraw(ctx context.Context) error {
	return m.dispatch(ctx, invocation{action: core.ActionSelectWithdraw})
}

// SelectBalance submits the select-balance menu action.
func (m *Machine) SelectBalance(ctx context.Context) error {
	return m.dispatch(ctx, invocation{action: core.ActionSelectBalance})
}

// PutInCash submits the cash the customer put into the deposit slot.
func (m *Machine) PutInCash(ctx context.Context, amount int64) error {
	return m.dispatch(ctx, invocation{action: core.ActionPutInCash, amount: amount})
}

// EnterWithdrawalAmount submits the amount the customer wants to withdraw.
func (m *Machine) EnterWithdrawalAmount(ctx context.Context, amount int64) error {
	return m.dispatch(ctx, invocation{action: core.ActionEnterWithdrawalAmount, amount: amount})
}

// TakeOutCash confirms the customer took the dispensed cash.
func (m *Machine) TakeOutCash(ctx context.Context, amount int64) error {
	return m.dispatch(ctx, invocation{action: core.ActionTakeOutCash, amount: amount})
}

// Back submits the back menu action.
func (m *Machine) Back(ctx context.Context) error {
	return m.dispatch(ctx, invocation{action: core.ActionBack})
}

// Exit cancels the session; the card is routed to return.
func (m *Machine) Exit(ctx context.Context) error {
	return m.dispatch(ctx, invocation{action: core.ActionCancel})
}

// TakeOutCard confirms the customer took the returned card; the session is
// cleared and the machine returns to Idle for the next customer.
func (m *Machine) TakeOutCard(ctx context.Context) error {
	return m.dispatch(ctx, invocation{action: core.ActionTakeOutCard})
}

// dispatch routes one action to the active state handler and applies the
// resulting transition.
func (m *Machine) dispatch(ctx context.Context, inv invocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.state

	sess, transition := m.handle(ctx, m.state, m.sess, inv)
	m.sess = sess

	if !transition.ChangesState() {
		return transition.HasError()
	}

	m.state = transition.Next

	// the entry hook runs before the observer sees the new state, so a UI
	// callback always observes the post-hook session
	if hookErr := m.runEntryHook(ctx, transition.Next); hookErr != nil {
		m.logWarn(logMsgEntryHookFailed,
			logAttrTo, transition.Next.String(),
			logAttrError, hookErr.Error())

		m.notify(transition.Next)

		m.state = core.StateExitReturnCard
		m.notify(core.StateExitReturnCard)

		if transition.Err != nil {
			return errors.Join(transition.Err, hookErr)
		}

		return hookErr
	}

	m.notify(transition.Next)

	m.logDebug(logMsgTransition,
		logAttrFrom, from.String(),
		logAttrTo, m.state.String(),
		logAttrAction, inv.action.String())

	return transition.HasError()
}

// notify invokes the observer callback with the new state's identifier.
func (m *Machine) notify(next core.State) {
	if m.onLoad != nil {
		m.onLoad(next)
	}
}

// runEntryHook performs the work a state owes on entry, before any further
// action is accepted.
func (m *Machine) runEntryHook(ctx context.Context, next core.State) error {
	switch next {
	case core.StateAuthorized:
		// eagerly fetch the accounts reachable by the card; the session keeps
		// a snapshot, not a live view into the bank-of-record
		if len(m.sess.Accounts) > 0 {
			return nil // back navigation re-enters Authorized with the snapshot intact
		}

		accounts, err := m.authority.GetAccounts(ctx, *m.sess.Card)
		if err != nil {
			return err
		}

		m.sess = m.sess.WithAccounts(accounts)

		return nil

	case core.StateDisplayingBalance:
		if account, ok := m.sess.SelectedAccount(); ok {
			m.sess.DisplayedBalance = account.Balance
		}

		return nil

	default:
		return nil
	}
}

// record appends a journal entry for a money movement. A failed journal write
// is logged and swallowed - the cash box and account values stay authoritative.
func (m *Machine) record(ctx context.Context, sess core.Session, kind journal.EntryKind, amount int64, failureReason string) {
	if m.recorder == nil {
		return
	}

	accountNumber := ""
	balanceAfter := int64(0)

	if account, ok := sess.SelectedAccount(); ok {
		accountNumber = account.Number
		balanceAfter = account.Balance
	}

	entry := journal.BuildEntry(
		sess.ID,
		kind,
		accountNumber,
		amount,
		m.box.Cash,
		balanceAfter,
		failureReason,
		m.clock(),
	)

	if err := m.recorder.Record(ctx, entry); err != nil {
		m.logWarn(logMsgJournalFailed,
			logAttrJournalEntryKind, string(kind),
			logAttrError, err.Error())
	}
}

func (m *Machine) logDebug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *Machine) logWarn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
