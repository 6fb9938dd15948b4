// Package config provides environment-driven configuration helpers: the cash
// box fill level and capacity for a machine, and PostgreSQL connection
// factories for the bank-of-record adapter (pgx pool) and the transaction
// journal (sqlx over lib/pq).
//
// All lookups fall back to development defaults so a machine can be wired up
// without any environment at all.
package config
