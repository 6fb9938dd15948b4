package core

import (
	"github.com/google/uuid"
)

// NoAccountSelected is the SelectedIndex value while no account is selected.
const NoAccountSelected = -1

// Session is the transient aggregate tracked from card insertion to card
// return: the inserted card, the snapshot of accounts fetched for it, the
// selected account, and the amount earmarked mid-withdrawal.
//
// A Session is a value. State handlers receive it by value and return the
// updated value, so every mutation point is visible at the call site. It is
// never persisted and is reset to empty when the card is physically returned.
type Session struct {
	ID                uuid.UUID
	Card              *Card
	Accounts          []Account
	SelectedIndex     int
	PendingWithdrawal int64
	DisplayedBalance  int64
}

// EmptySession creates the between-customers session value.
func EmptySession() Session {
	return Session{
		ID:            uuid.New(),
		SelectedIndex: NoAccountSelected,
	}
}

// WithCard returns a copy of the session holding the inserted card.
func (s Session) WithCard(card Card) Session {
	s.Card = &card
	return s
}

// WithAccounts returns a copy of the session holding the fetched account
// snapshot. The slice is copied so the caller cannot alias session state.
func (s Session) WithAccounts(accounts []Account) Session {
	s.Accounts = make([]Account, len(accounts))
	copy(s.Accounts, accounts)
	return s
}

// HasSelectedAccount reports whether an account selection is in effect.
func (s Session) HasSelectedAccount() bool {
	return s.SelectedIndex != NoAccountSelected && s.SelectedIndex < len(s.Accounts)
}

// SelectedAccount returns a value copy of the selected account.
// The second return value is false while nothing is selected.
func (s Session) SelectedAccount() (Account, bool) {
	if !s.HasSelectedAccount() {
		return Account{}, false
	}

	return s.Accounts[s.SelectedIndex], true
}
