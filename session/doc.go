// Package session implements the customer session state machine: the single
// owner of "what can happen next" between card insertion and card return.
//
// The Machine holds the current state, the transient session value, and the
// machine's cash box, and delegates every customer action to the handler of
// the active state. Handlers are written as explicit functions that take the
// session value in and hand the updated value back together with a
// core.Transition, so every mutation point is visible at the call site.
// Actions a state does not accept fall through to the default arm and fail
// with core.ErrActionNotPermitted, leaving state and session untouched.
//
// Money movements go through the injected teller.Executor - the single
// mutation gateway - and are optionally recorded to a journal.Recorder.
// Entering a state runs its entry hook before any further action is accepted:
// Authorized eagerly fetches the card's accounts from the Bank Authority, and
// DisplayingBalance snapshots the selected account's balance for display.
// A registered observer callback is invoked after every transition with the
// new state's identifier; it is the sole notification channel to the UI layer.
package session
