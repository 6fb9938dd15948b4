package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashpointd/atm-session-go/journal"
)

func Test_BuildEntry_NormalizesTheTimestamp(t *testing.T) {
	// arrange
	sessionID := uuid.New()
	local := time.Date(2025, 6, 15, 14, 30, 45, 123_456_789, time.FixedZone("CET", 3600))

	// act
	entry := journal.BuildEntry(sessionID, journal.KindDepositApplied, "100-200-300", 500, 10_500, 2500, "", local)

	// assert
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, sessionID, entry.SessionID)
	assert.Equal(t, time.UTC, entry.OccurredAt.Location())
	assert.Equal(t, 123_456_000, entry.OccurredAt.Nanosecond())
	assert.Equal(t, local.UTC().Truncate(time.Microsecond), entry.OccurredAt)
}

func Test_BuildEntry_AssignsUniqueIDs(t *testing.T) {
	// arrange
	sessionID := uuid.New()
	now := time.Now()

	// act
	first := journal.BuildEntry(sessionID, journal.KindWithdrawalReserved, "100-200-300", 50, 1000, 1950, "", now)
	second := journal.BuildEntry(sessionID, journal.KindWithdrawalReserved, "100-200-300", 50, 1000, 1950, "", now)

	// assert
	assert.NotEqual(t, first.ID, second.ID)
}

func Test_MemoryRecorder_KeepsEntriesInAppendOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	recorder := journal.NewMemoryRecorder()
	sessionID := uuid.New()
	now := time.Now()

	// act
	require.NoError(t, recorder.Record(ctx, journal.BuildEntry(sessionID, journal.KindWithdrawalReserved, "100-200-300", 50, 1000, 1950, "", now)))
	require.NoError(t, recorder.Record(ctx, journal.BuildEntry(sessionID, journal.KindWithdrawalDispensed, "100-200-300", 50, 950, 1950, "", now)))

	// assert
	entries := recorder.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, journal.KindWithdrawalReserved, entries[0].Kind)
	assert.Equal(t, journal.KindWithdrawalDispensed, entries[1].Kind)
}

func Test_MemoryRecorder_EntriesReturnsACopy(t *testing.T) {
	// arrange
	ctx := context.Background()
	recorder := journal.NewMemoryRecorder()
	require.NoError(t, recorder.Record(ctx, journal.BuildEntry(uuid.New(), journal.KindDepositApplied, "100-200-300", 100, 1100, 2100, "", time.Now())))

	// act
	entries := recorder.Entries()
	entries[0].Amount = 999

	// assert
	assert.Equal(t, int64(100), recorder.Entries()[0].Amount)
}

func Test_NewPostgresRecorderFromSQLX_RejectsNilConnection(t *testing.T) {
	// act
	_, err := journal.NewPostgresRecorderFromSQLX(nil)

	// assert
	assert.ErrorIs(t, err, journal.ErrNilDatabaseConnection)
}
