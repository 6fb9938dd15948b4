package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryKind classifies a journal entry.
type EntryKind string

// The journal entry kinds.
const (
	KindDepositApplied      EntryKind = "DepositApplied"
	KindWithdrawalReserved  EntryKind = "WithdrawalReserved"
	KindWithdrawalDispensed EntryKind = "WithdrawalDispensed"
	KindWithdrawalReleased  EntryKind = "WithdrawalReleased"
	KindOperationRejected   EntryKind = "OperationRejected"
)

// Entry is one audit record of a money movement or a rejected operation.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	SessionID     uuid.UUID `json:"session_id"`
	Kind          EntryKind `json:"kind"`
	AccountNumber string    `json:"account_number,omitempty"`
	Amount        int64     `json:"amount"`
	CashAfter     int64     `json:"cash_after"`
	BalanceAfter  int64     `json:"balance_after"`
	FailureReason string    `json:"failure_reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BuildEntry creates an Entry with a fresh ID and a UTC timestamp truncated to
// microsecond precision, matching what the jsonb column round-trips.
func BuildEntry(
	sessionID uuid.UUID,
	kind EntryKind,
	accountNumber string,
	amount int64,
	cashAfter int64,
	balanceAfter int64,
	failureReason string,
	occurredAt time.Time,
) Entry {
	return Entry{
		ID:            uuid.New(),
		SessionID:     sessionID,
		Kind:          kind,
		AccountNumber: accountNumber,
		Amount:        amount,
		CashAfter:     cashAfter,
		BalanceAfter:  balanceAfter,
		FailureReason: failureReason,
		OccurredAt:    occurredAt.UTC().Truncate(time.Microsecond),
	}
}

// Recorder appends journal entries to some backing store.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// MemoryRecorder is an in-process Recorder. Safe for concurrent use.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{entries: make([]Entry, 0)}
}

// Record implements Recorder.
func (r *MemoryRecorder) Record(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)

	return nil
}

// Entries returns a copy of all recorded entries in append order.
func (r *MemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}
