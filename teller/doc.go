// Package teller implements the transaction executor: the single mutation
// gateway for the machine's cash box and the customer's account balance.
//
// Apply covers the all-or-nothing deposit/withdrawal contract: it tentatively
// applies a signed offset to both mutable fields, validates the capacity and
// sufficiency invariants, and rolls both fields back exactly on any violation.
// Reserve, Dispense and Release cover the two-phase withdrawal flow, where an
// amount is first earmarked from the account, then handed out of the cash box
// once the customer takes the notes, or credited back if the customer leaves.
//
// An Executor is constructed explicitly with NewExecutor and injected into the
// session machine; it holds no money state of its own.
package teller
