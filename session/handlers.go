package session

import (
	"context"
	"fmt"

	"github.com/cashpointd/atm-session-go/core"
	"github.com/cashpointd/atm-session-go/journal"
)

// invocation carries one customer action with its argument into the handlers.
// Exactly one of the argument fields is meaningful, depending on the action.
type invocation struct {
	action core.Action
	card   core.Card
	pin    string
	index  int
	amount int64
}

// handle routes the invocation to the handler of the active state. Any action
// a state does not accept falls through to that handler's default arm and is
// rejected with core.ErrActionNotPermitted, with no transition and no side
// effect.
func (m *Machine) handle(ctx context.Context, state core.State, sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch state {
	case core.StateIdle:
		return m.handleIdle(sess, inv)
	case core.StateReady:
		return m.handleReady(ctx, sess, inv)
	case core.StateAuthorized:
		return m.handleAuthorized(sess, inv)
	case core.StateAccountSelected:
		return m.handleAccountSelected(sess, inv)
	case core.StateProcessingDeposit:
		return m.handleProcessingDeposit(ctx, sess, inv)
	case core.StatePreProcessingWithdrawal:
		return m.handlePreProcessingWithdrawal(ctx, sess, inv)
	case core.StateProcessingWithdrawal:
		return m.handleProcessingWithdrawal(ctx, sess, inv)
	case core.StateDisplayingBalance:
		return m.handleDisplayingBalance(sess, inv)
	case core.StateExitReturnCard:
		return m.handleExitReturnCard(sess, inv)
	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleIdle waits for a customer card.
func (m *Machine) handleIdle(sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionInsertCard:
		return sess.WithCard(inv.card), core.MoveTransition(core.StateReady)
	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleReady validates the entered PIN against the Bank Authority.
// A declined PIN retains the card: the session routes to ExitReturnCard and
// never back to Ready.
func (m *Machine) handleReady(ctx context.Context, sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionEnterPIN:
		valid, err := m.authority.ValidatePIN(ctx, sess.Card.Number, inv.pin)
		if err != nil {
			return sess, core.FatalTransition(fmt.Errorf("validate pin: %w", err))
		}

		if !valid {
			return sess, core.FatalTransition(core.ErrPINMismatch)
		}

		return sess, core.MoveTransition(core.StateAuthorized)

	case core.ActionCancel:
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleAuthorized waits for the customer to pick one of the fetched accounts.
// An out-of-range index is re-prompted in place, unlike a PIN failure.
func (m *Machine) handleAuthorized(sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionSelectAccount:
		if inv.index < 0 || inv.index >= len(sess.Accounts) {
			return sess, core.RetryTransition(core.ErrAccountIndexOutOfRange)
		}

		sess.SelectedIndex = inv.index

		return sess, core.MoveTransition(core.StateAccountSelected)

	case core.ActionCancel:
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleAccountSelected waits for the customer to pick a transaction.
func (m *Machine) handleAccountSelected(sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionSelectDeposit:
		return sess, core.MoveTransition(core.StateProcessingDeposit)

	case core.ActionSelectWithdraw:
		return sess, core.MoveTransition(core.StatePreProcessingWithdrawal)

	case core.ActionSelectBalance:
		return sess, core.MoveTransition(core.StateDisplayingBalance)

	case core.ActionBack:
		return sess, core.MoveTransition(core.StateAuthorized)

	case core.ActionCancel:
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleProcessingDeposit applies the cash the customer put into the slot to
// both the cash box and the selected account through the executor.
func (m *Machine) handleProcessingDeposit(ctx context.Context, sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionPutInCash:
		if inv.amount <= 0 {
			m.record(ctx, sess, journal.KindOperationRejected, inv.amount, core.ErrInvalidAmount.Error())
			return sess, core.FatalTransition(core.ErrInvalidAmount)
		}

		account := &sess.Accounts[sess.SelectedIndex]

		if err := m.executor.Apply(m.box, account, inv.amount); err != nil {
			m.record(ctx, sess, journal.KindOperationRejected, inv.amount, err.Error())
			return sess, core.FatalTransition(err)
		}

		m.record(ctx, sess, journal.KindDepositApplied, inv.amount, "")

		return sess, core.MoveTransition(core.StateDisplayingBalance)

	case core.ActionBack:
		return sess, core.MoveTransition(core.StateAccountSelected)

	case core.ActionCancel:
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handlePreProcessingWithdrawal validates the requested amount and earmarks it
// from the account. On a failed reservation nothing has been applied, so the
// session leaves without any compensating action.
func (m *Machine) handlePreProcessingWithdrawal(ctx context.Context, sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionEnterWithdrawalAmount:
		if inv.amount <= 0 {
			m.record(ctx, sess, journal.KindOperationRejected, inv.amount, core.ErrInvalidAmount.Error())
			return sess, core.FatalTransition(core.ErrInvalidAmount)
		}

		account := &sess.Accounts[sess.SelectedIndex]

		if err := m.executor.Reserve(m.box, account, inv.amount); err != nil {
			m.record(ctx, sess, journal.KindOperationRejected, inv.amount, err.Error())
			return sess, core.FatalTransition(err)
		}

		sess.PendingWithdrawal = inv.amount

		m.record(ctx, sess, journal.KindWithdrawalReserved, inv.amount, "")

		return sess, core.MoveTransition(core.StateProcessingWithdrawal)

	case core.ActionBack:
		return sess, core.MoveTransition(core.StateAccountSelected)

	case core.ActionCancel:
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleProcessingWithdrawal hands the reserved cash out of the box once the
// customer takes it. Leaving the state without dispensing credits the earmark
// back to the account first - a compensating action, the cash never left the
// box.
func (m *Machine) handleProcessingWithdrawal(ctx context.Context, sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionTakeOutCash:
		if inv.amount != sess.PendingWithdrawal {
			sess = m.refundReservation(ctx, sess)
			m.record(ctx, sess, journal.KindOperationRejected, inv.amount, core.ErrInvalidAmount.Error())

			return sess, core.FatalTransition(core.ErrInvalidAmount)
		}

		if err := m.executor.Dispense(m.box, inv.amount); err != nil {
			sess = m.refundReservation(ctx, sess)
			m.record(ctx, sess, journal.KindOperationRejected, inv.amount, err.Error())

			return sess, core.FatalTransition(err)
		}

		sess.PendingWithdrawal = 0

		m.record(ctx, sess, journal.KindWithdrawalDispensed, inv.amount, "")

		return sess, core.MoveTransition(core.StateDisplayingBalance)

	case core.ActionBack:
		sess = m.refundReservation(ctx, sess)
		return sess, core.MoveTransition(core.StatePreProcessingWithdrawal)

	case core.ActionCancel:
		sess = m.refundReservation(ctx, sess)
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleDisplayingBalance shows the balance snapshot taken on entry.
func (m *Machine) handleDisplayingBalance(sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionBack:
		return sess, core.MoveTransition(core.StateAuthorized)

	case core.ActionCancel:
		return sess, core.MoveTransition(core.StateExitReturnCard)

	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// handleExitReturnCard waits for the customer to take the returned card, then
// clears the session for the next customer.
func (m *Machine) handleExitReturnCard(sess core.Session, inv invocation) (core.Session, core.Transition) {
	switch inv.action {
	case core.ActionTakeOutCard:
		return core.EmptySession(), core.MoveTransition(core.StateIdle)
	default:
		return sess, core.RetryTransition(core.ErrActionNotPermitted)
	}
}

// refundReservation credits a pending withdrawal earmark back to the account
// and clears the reservation. A session without a pending amount is untouched.
func (m *Machine) refundReservation(ctx context.Context, sess core.Session) core.Session {
	if sess.PendingWithdrawal == 0 {
		return sess
	}

	amount := sess.PendingWithdrawal
	account := &sess.Accounts[sess.SelectedIndex]

	// Release cannot fail for a positive amount; the earmark is simply
	// credited back
	_ = m.executor.Release(account, amount)

	sess.PendingWithdrawal = 0

	m.record(ctx, sess, journal.KindWithdrawalReleased, amount, "")

	return sess
}
