package bank

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/cashpointd/atm-session-go/core"
)

// MemoryAuthority is an in-process Authority backed by its own records.
// It deliberately does not read account data off the card: the authority is
// the system of record for which accounts a card number can reach, the card
// only identifies the customer.
//
// Safe for concurrent use, although the session machine calls it serially.
type MemoryAuthority struct {
	mu       sync.RWMutex
	pins     map[string]string         // card number -> PIN
	accounts map[string][]core.Account // card number -> reachable accounts
}

// NewMemoryAuthority creates an empty MemoryAuthority.
func NewMemoryAuthority() *MemoryAuthority {
	return &MemoryAuthority{
		pins:     make(map[string]string),
		accounts: make(map[string][]core.Account),
	}
}

// RegisterCard records the PIN and the reachable accounts for a card number.
// The account slice is copied so the caller keeps no alias into the authority.
func (a *MemoryAuthority) RegisterCard(cardNumber string, pin string, accounts ...core.Account) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pins[cardNumber] = pin
	a.accounts[cardNumber] = make([]core.Account, len(accounts))
	copy(a.accounts[cardNumber], accounts)
}

// ValidatePIN implements Authority with a constant-time PIN comparison.
func (a *MemoryAuthority) ValidatePIN(_ context.Context, cardNumber string, pin string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stored, found := a.pins[cardNumber]
	if !found {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(pin)) == 1, nil
}

// GetAccounts implements Authority.
func (a *MemoryAuthority) GetAccounts(_ context.Context, card core.Card) ([]core.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	accounts := a.accounts[card.Number]
	if len(accounts) == 0 {
		return nil, core.ErrNoAccountsFound
	}

	out := make([]core.Account, len(accounts))
	copy(out, accounts)

	return out, nil
}
