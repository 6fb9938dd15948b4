package testutil

import (
	"github.com/google/uuid"

	"github.com/cashpointd/atm-session-go/core"
)

// Canned values for the default test customer.
const (
	FixtureCardNumber = "4556-7375-8689-9855"
	FixturePIN        = "2468"
	FixtureHolderName = "Jane Roe"

	FixtureCheckingAccountNumber = "100-200-300"
	FixtureSavingsAccountNumber  = "100-200-301"
)

// FixtureHolder creates the default test cardholder.
func FixtureHolder() core.Holder {
	return core.Holder{ID: uuid.New(), Name: FixtureHolderName}
}

// FixtureCard creates the default test card.
func FixtureCard() core.Card {
	return core.BuildCard(FixtureCardNumber, FixtureHolder())
}

// FixtureCheckingAccount creates a checking account with the given balance.
func FixtureCheckingAccount(balance int64) core.Account {
	return core.Account{Number: FixtureCheckingAccountNumber, Name: "checking", Balance: balance}
}

// FixtureSavingsAccount creates a savings account with the given balance.
func FixtureSavingsAccount(balance int64) core.Account {
	return core.Account{Number: FixtureSavingsAccountNumber, Name: "savings", Balance: balance}
}
