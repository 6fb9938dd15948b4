package core

// State identifies one node of the session state machine.
// The set of states is closed; handlers switch over it and the observer
// callback receives it after every transition.
type State string

// The session states, in transition order.
const (
	StateIdle                    State = "Idle"
	StateReady                   State = "Ready"
	StateAuthorized              State = "Authorized"
	StateAccountSelected         State = "AccountSelected"
	StateProcessingDeposit       State = "ProcessingDeposit"
	StatePreProcessingWithdrawal State = "PreProcessingWithdrawal"
	StateProcessingWithdrawal    State = "ProcessingWithdrawal"
	StateDisplayingBalance       State = "DisplayingBalance"
	StateExitReturnCard          State = "ExitReturnCard"
)

// String returns the state identifier.
func (s State) String() string {
	return string(s)
}

// Action identifies a customer action submitted through the facade.
// Every state accepts the full action surface; actions not legal in the
// current state fail with ErrActionNotPermitted and change nothing.
type Action string

// The customer actions.
const (
	ActionInsertCard            Action = "InsertCard"
	ActionEnterPIN              Action = "EnterPIN"
	ActionSelectAccount         Action = "SelectAccount"
	ActionSelectDeposit         Action = "SelectDeposit"
	ActionSelectWithdraw        Action = "SelectWithdraw"
	ActionSelectBalance         Action = "SelectBalance"
	ActionPutInCash             Action = "PutInCash"
	ActionEnterWithdrawalAmount Action = "EnterWithdrawalAmount"
	ActionTakeOutCash           Action = "TakeOutCash"
	ActionBack                  Action = "Back"
	ActionCancel                Action = "Cancel"
	ActionTakeOutCard           Action = "TakeOutCard"
)

// String returns the action identifier.
func (a Action) String() string {
	return string(a)
}
