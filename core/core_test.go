package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashpointd/atm-session-go/core"
)

func Test_EmptySession_HasNoSelectionAndNoCard(t *testing.T) {
	// act
	sess := core.EmptySession()

	// assert
	assert.Nil(t, sess.Card)
	assert.False(t, sess.HasSelectedAccount())
	assert.Zero(t, sess.PendingWithdrawal)

	_, ok := sess.SelectedAccount()
	assert.False(t, ok)
}

func Test_Session_WithAccounts_CopiesTheSlice(t *testing.T) {
	// arrange
	accounts := []core.Account{{Number: "1", Balance: 100}}

	// act
	sess := core.EmptySession().WithAccounts(accounts)
	accounts[0].Balance = 999

	// assert - the session snapshot is not aliased to the caller's slice
	assert.Equal(t, int64(100), sess.Accounts[0].Balance)
}

func Test_Session_SelectedAccount_ReturnsValueCopy(t *testing.T) {
	// arrange
	sess := core.EmptySession().WithAccounts([]core.Account{{Number: "1", Balance: 100}})
	sess.SelectedIndex = 0

	// act
	account, ok := sess.SelectedAccount()
	require.True(t, ok)
	account.Balance = 999

	// assert
	assert.Equal(t, int64(100), sess.Accounts[0].Balance)
}

func Test_Session_WithCard_CopiesTheCard(t *testing.T) {
	// arrange
	card := core.BuildCard("1111-2222", core.Holder{Name: "Jane Roe"})

	// act
	sess := core.EmptySession().WithCard(card)
	card.Number = "mutated"

	// assert
	assert.Equal(t, "1111-2222", sess.Card.Number)
}

func Test_Transition_Factories(t *testing.T) {
	// act
	stay := core.StayTransition()
	retry := core.RetryTransition(core.ErrAccountIndexOutOfRange)
	move := core.MoveTransition(core.StateReady)
	fatal := core.FatalTransition(core.ErrPINMismatch)

	// assert
	assert.False(t, stay.ChangesState())
	require.NoError(t, stay.HasError())

	assert.False(t, retry.ChangesState())
	assert.ErrorIs(t, retry.HasError(), core.ErrAccountIndexOutOfRange)

	assert.True(t, move.ChangesState())
	assert.Equal(t, core.StateReady, move.Next)

	assert.True(t, fatal.ChangesState())
	assert.Equal(t, core.StateExitReturnCard, fatal.Next)
	assert.ErrorIs(t, fatal.HasError(), core.ErrPINMismatch)
}

func Test_IsRetryable_ClassifiesTheTaxonomy(t *testing.T) {
	retryable := []error{core.ErrAccountIndexOutOfRange, core.ErrActionNotPermitted}
	fatal := []error{
		core.ErrInvalidAmount,
		core.ErrPINMismatch,
		core.ErrNoAccountsFound,
		core.ErrAccountInsufficientFunds,
		core.ErrCashBoxInsufficientFunds,
		core.ErrCashBoxOverCapacity,
	}

	for _, err := range retryable {
		assert.True(t, core.IsRetryable(err), err.Error())
	}

	for _, err := range fatal {
		assert.False(t, core.IsRetryable(err), err.Error())
	}
}
