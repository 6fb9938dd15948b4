package bank

import (
	"context"

	"github.com/cashpointd/atm-session-go/core"
)

// Authority is the contract to the bank-of-record.
type Authority interface {
	// ValidatePIN verifies the entered PIN against the card number.
	// A false result is not an error; it means the bank declined the PIN.
	ValidatePIN(ctx context.Context, cardNumber string, pin string) (bool, error)

	// GetAccounts resolves the accounts reachable by the card.
	// Returns core.ErrNoAccountsFound when the card reaches no accounts.
	GetAccounts(ctx context.Context, card core.Card) ([]core.Account, error)
}
