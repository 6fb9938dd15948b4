// Package journal records every money movement the machine observes: deposits
// applied, withdrawal amounts reserved, cash dispensed, reservations released,
// and rejected operations with their failure reason.
//
// The journal is an audit trail, not the source of truth - the cash box and
// account values are authoritative, and a failed journal write never fails the
// customer action. MemoryRecorder keeps entries in process for tests and
// demos; PostgresRecorder appends them to a PostgreSQL table with the entry
// payload serialized to jsonb.
package journal
