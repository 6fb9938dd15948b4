package bank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashpointd/atm-session-go/bank"
	"github.com/cashpointd/atm-session-go/core"
	"github.com/cashpointd/atm-session-go/testutil"
)

func Test_MemoryAuthority_ValidatePIN_AcceptsTheRegisteredPIN(t *testing.T) {
	// arrange
	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(testutil.FixtureCardNumber, testutil.FixturePIN)

	// act
	valid, err := authority.ValidatePIN(context.Background(), testutil.FixtureCardNumber, testutil.FixturePIN)

	// assert
	require.NoError(t, err)
	assert.True(t, valid)
}

func Test_MemoryAuthority_ValidatePIN_DeclinesWrongPINAndUnknownCard(t *testing.T) {
	// arrange
	ctx := context.Background()
	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(testutil.FixtureCardNumber, testutil.FixturePIN)

	// act + assert
	valid, err := authority.ValidatePIN(ctx, testutil.FixtureCardNumber, "0000")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = authority.ValidatePIN(ctx, "0000-0000-0000-0000", testutil.FixturePIN)
	require.NoError(t, err)
	assert.False(t, valid)
}

func Test_MemoryAuthority_GetAccounts_ReturnsTheRegisteredAccounts(t *testing.T) {
	// arrange
	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(testutil.FixtureCardNumber, testutil.FixturePIN,
		testutil.FixtureCheckingAccount(2000),
		testutil.FixtureSavingsAccount(8000),
	)

	// act
	accounts, err := authority.GetAccounts(context.Background(), testutil.FixtureCard())

	// assert
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, testutil.FixtureCheckingAccountNumber, accounts[0].Number)
	assert.Equal(t, testutil.FixtureSavingsAccountNumber, accounts[1].Number)
}

func Test_MemoryAuthority_GetAccounts_CardWithoutAccountsFails(t *testing.T) {
	// arrange
	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(testutil.FixtureCardNumber, testutil.FixturePIN)

	// act
	_, err := authority.GetAccounts(context.Background(), testutil.FixtureCard())

	// assert
	assert.ErrorIs(t, err, core.ErrNoAccountsFound)
}

func Test_MemoryAuthority_GetAccounts_UnknownCardFails(t *testing.T) {
	// arrange
	authority := bank.NewMemoryAuthority()

	// act
	_, err := authority.GetAccounts(context.Background(), testutil.FixtureCard())

	// assert
	assert.ErrorIs(t, err, core.ErrNoAccountsFound)
}

func Test_MemoryAuthority_GetAccounts_ReturnsIndependentCopies(t *testing.T) {
	// arrange
	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(testutil.FixtureCardNumber, testutil.FixturePIN,
		testutil.FixtureCheckingAccount(2000),
	)

	// act - a caller mutating its slice must not corrupt the registry
	first, err := authority.GetAccounts(context.Background(), testutil.FixtureCard())
	require.NoError(t, err)
	first[0].Balance = 0

	// assert
	second, err := authority.GetAccounts(context.Background(), testutil.FixtureCard())
	require.NoError(t, err)
	assert.Equal(t, int64(2000), second[0].Balance)
}
