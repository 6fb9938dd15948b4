// Package atm is the externally callable surface of the cash machine: one
// operation per customer action, each forwarding to the session state machine
// and decorating the call with structured logging and metrics.
//
// The facade holds no session logic of its own - it is the only piece of the
// system a UI or CLI layer should touch, and the read accessors it exposes
// return value copies so the UI can never mutate session state by reference.
package atm
