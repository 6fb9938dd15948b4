package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
)

const (
	defaultJournalTableName = "transaction_journal"

	colID         = "id"
	colSessionID  = "session_id"
	colKind       = "kind"
	colOccurredAt = "occurred_at"
	colPayload    = "payload"

	dialectPostgres = "postgres"
)

// ErrNilDatabaseConnection is returned when a nil sqlx.DB is supplied.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// ErrEmptyJournalTableName is returned when an empty table name is supplied.
var ErrEmptyJournalTableName = errors.New("empty journal table name supplied")

// PostgresRecorder appends journal entries to a PostgreSQL table.
//
// Expected schema:
//
//	CREATE TABLE transaction_journal (
//	    id          UUID PRIMARY KEY,
//	    session_id  UUID NOT NULL,
//	    kind        TEXT NOT NULL,
//	    occurred_at TIMESTAMPTZ NOT NULL,
//	    payload     JSONB NOT NULL
//	);
type PostgresRecorder struct {
	db        *sqlx.DB
	tableName string
}

// PostgresOption defines a functional option for configuring a PostgresRecorder.
type PostgresOption func(*PostgresRecorder) error

// WithTableName sets the journal table name.
func WithTableName(tableName string) PostgresOption {
	return func(r *PostgresRecorder) error {
		if tableName == "" {
			return ErrEmptyJournalTableName
		}

		r.tableName = tableName

		return nil
	}
}

// NewPostgresRecorderFromSQLX creates a PostgresRecorder using an sqlx database handle.
func NewPostgresRecorderFromSQLX(db *sqlx.DB, options ...PostgresOption) (*PostgresRecorder, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	recorder := &PostgresRecorder{
		db:        db,
		tableName: defaultJournalTableName,
	}

	for _, option := range options {
		if err := option(recorder); err != nil {
			return nil, err
		}
	}

	return recorder, nil
}

// Record implements Recorder by inserting one row with the full entry
// serialized into the jsonb payload column.
func (r *PostgresRecorder) Record(ctx context.Context, entry Entry) error {
	query, err := buildInsertSQL(r.tableName, entry)
	if err != nil {
		return err
	}

	if _, execErr := r.db.ExecContext(ctx, query); execErr != nil {
		return fmt.Errorf("record journal entry: %w", execErr)
	}

	return nil
}

// buildInsertSQL builds the insert statement for one entry.
// Split out so the statement shape can be tested without a database.
func buildInsertSQL(tableName string, entry Entry) (string, error) {
	payloadJSON, marshalErr := jsoniter.ConfigFastest.Marshal(entry)
	if marshalErr != nil {
		return "", fmt.Errorf("marshal journal entry: %w", marshalErr)
	}

	query, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(tableName).
		Cols(colID, colSessionID, colKind, colOccurredAt, colPayload).
		Vals(goqu.Vals{
			entry.ID.String(),
			entry.SessionID.String(),
			string(entry.Kind),
			entry.OccurredAt,
			goqu.L("?::jsonb", string(payloadJSON)),
		}).
		ToSQL()
	if buildErr != nil {
		return "", fmt.Errorf("build journal insert: %w", buildErr)
	}

	return query, nil
}
