// Package core contains the pure domain model of the cash machine:
// cards, accounts, the machine's cash box, the transient customer session,
// the closed set of session states and customer actions, the error taxonomy,
// and the Transition result type returned by state handlers.
//
// Nothing in this package performs I/O or holds references to collaborators.
// All mutation of Account.Balance and CashBox.Cash happens in package teller,
// which is the single mutation gateway for money state.
package core
