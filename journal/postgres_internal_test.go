package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildInsertSQL_ProducesACompleteInsertStatement(t *testing.T) {
	// arrange
	entry := BuildEntry(uuid.New(), KindDepositApplied, "100-200-300", 500, 10_500, 2500, "", time.Now())

	// act
	query, err := buildInsertSQL("transaction_journal", entry)

	// assert
	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "transaction_journal"`)
	assert.Contains(t, query, `"id"`)
	assert.Contains(t, query, `"session_id"`)
	assert.Contains(t, query, `"kind"`)
	assert.Contains(t, query, `"occurred_at"`)
	assert.Contains(t, query, `"payload"`)
	assert.Contains(t, query, entry.ID.String())
	assert.Contains(t, query, entry.SessionID.String())
	assert.Contains(t, query, string(KindDepositApplied))
	assert.Contains(t, query, "::jsonb")
}

func Test_BuildInsertSQL_SerializesTheFullEntryIntoThePayload(t *testing.T) {
	// arrange
	entry := BuildEntry(uuid.New(), KindOperationRejected, "100-200-300", -50, 1000, 2000, "amount must be positive", time.Now())

	// act
	query, err := buildInsertSQL("transaction_journal", entry)

	// assert
	require.NoError(t, err)
	assert.Contains(t, query, `"account_number":"100-200-300"`)
	assert.Contains(t, query, `"failure_reason":"amount must be positive"`)
	assert.Contains(t, query, `"amount":-50`)
}

func Test_WithTableName_RejectsAnEmptyName(t *testing.T) {
	// act
	err := WithTableName("")(&PostgresRecorder{})

	// assert
	assert.ErrorIs(t, err, ErrEmptyJournalTableName)
}
