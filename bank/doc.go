// Package bank defines the Bank Authority contract: the narrow interface to
// the bank-of-record that validates PINs and resolves the accounts reachable
// by a card. The session core treats both operations as potentially slow and
// unreliable external calls and never retries them - any error or negative
// answer is translated directly into the state machine's failure transition.
//
// MemoryAuthority is an in-process implementation for tests and demos;
// the postgresauthority subpackage talks to a real PostgreSQL bank-of-record.
package bank
