package core

import (
	"github.com/google/uuid"
)

// Holder is the person a card was issued to.
type Holder struct {
	ID   uuid.UUID
	Name string
}

// Card identifies a customer card inserted into the machine.
// It is immutable once issued and carries no account data - the Bank Authority
// is the system of record for which accounts a card can reach.
type Card struct {
	ID     uuid.UUID
	Number string
	Holder Holder
}

// BuildCard creates a Card for the given holder.
func BuildCard(number string, holder Holder) Card {
	return Card{
		ID:     uuid.New(),
		Number: number,
		Holder: holder,
	}
}

// Account is a bank account reachable through a card.
// Balance is kept in the smallest currency unit and must never be observed
// negative. It is the only mutable field and is mutated exclusively by the
// transaction executor in package teller.
type Account struct {
	Number  string
	Name    string
	Balance int64
}

// CashBox is the machine's own physical cash store.
//
// Invariant: 0 <= Cash <= Limit at all observable times. There is one CashBox
// per physical machine and it lives across customer sessions; it has no
// relationship to any card.
type CashBox struct {
	Cash  int64
	Limit int64
}

// BuildCashBox creates a CashBox with the given fill level and capacity.
func BuildCashBox(cash int64, limit int64) CashBox {
	return CashBox{Cash: cash, Limit: limit}
}
