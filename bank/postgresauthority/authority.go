// Package postgresauthority implements the Bank Authority against a
// PostgreSQL bank-of-record using a pgx connection pool, with SQL built
// through goqu.
//
// Expected schema:
//
//	CREATE TABLE cards (
//	    card_number TEXT PRIMARY KEY,
//	    pin         TEXT NOT NULL
//	);
//
//	CREATE TABLE accounts (
//	    account_number TEXT PRIMARY KEY,
//	    name           TEXT NOT NULL,
//	    balance        BIGINT NOT NULL CHECK (balance >= 0)
//	);
//
//	CREATE TABLE card_accounts (
//	    card_number    TEXT NOT NULL REFERENCES cards (card_number),
//	    account_number TEXT NOT NULL REFERENCES accounts (account_number),
//	    PRIMARY KEY (card_number, account_number)
//	);
package postgresauthority

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashpointd/atm-session-go/core"
)

const (
	defaultCardsTableName        = "cards"
	defaultAccountsTableName     = "accounts"
	defaultCardAccountsTableName = "card_accounts"

	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgPINChecked             = "pin checked against bank-of-record"
	logMsgAccountsResolved       = "accounts resolved for card"
	logAttrError                 = "error"
	logAttrCardNumber            = "card_number"
	logAttrAccountCount          = "account_count"

	colCardNumber    = "card_number"
	colPIN           = "pin"
	colAccountNumber = "account_number"
	colName          = "name"
	colBalance       = "balance"

	dialectPostgres = "postgres"
)

// ErrNilDatabaseConnection is returned when a nil pool is supplied.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// Logger interface for SQL query logging and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Authority is a bank.Authority backed by PostgreSQL.
type Authority struct {
	pool   *pgxpool.Pool
	logger Logger
}

// Option defines a functional option for configuring an Authority.
type Option func(*Authority)

// WithLogger sets the logger for the Authority.
func WithLogger(logger Logger) Option {
	return func(a *Authority) {
		a.logger = logger
	}
}

// NewFromPGXPool creates an Authority using a pgx pool with optional configuration.
func NewFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Authority, error) {
	if pool == nil {
		return nil, ErrNilDatabaseConnection
	}

	authority := &Authority{pool: pool}

	for _, option := range options {
		option(authority)
	}

	return authority, nil
}

// ValidatePIN implements bank.Authority.
// The stored PIN is fetched and compared in constant time; an unknown card
// number is a declined PIN, not an error.
func (a *Authority) ValidatePIN(ctx context.Context, cardNumber string, pin string) (bool, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		From(defaultCardsTableName).
		Select(colPIN).
		Where(goqu.C(colCardNumber).Eq(cardNumber)).
		ToSQL()
	if err != nil {
		a.logError(logMsgBuildSelectQueryFailed, logAttrError, err.Error())
		return false, fmt.Errorf("validate pin: %w", err)
	}

	var storedPIN string

	scanErr := a.pool.QueryRow(ctx, query).Scan(&storedPIN)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return false, nil
		}

		a.logError(logMsgDBQueryFailed, logAttrError, scanErr.Error(), logAttrCardNumber, cardNumber)

		return false, fmt.Errorf("validate pin: %w", scanErr)
	}

	matched := subtle.ConstantTimeCompare([]byte(storedPIN), []byte(pin)) == 1

	a.logDebug(logMsgPINChecked, logAttrCardNumber, cardNumber)

	return matched, nil
}

// GetAccounts implements bank.Authority.
func (a *Authority) GetAccounts(ctx context.Context, card core.Card) ([]core.Account, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		From(defaultAccountsTableName).
		Select(
			goqu.T(defaultAccountsTableName).Col(colAccountNumber),
			goqu.T(defaultAccountsTableName).Col(colName),
			goqu.T(defaultAccountsTableName).Col(colBalance),
		).
		Join(
			goqu.T(defaultCardAccountsTableName),
			goqu.On(goqu.T(defaultCardAccountsTableName).Col(colAccountNumber).
				Eq(goqu.T(defaultAccountsTableName).Col(colAccountNumber))),
		).
		Where(goqu.T(defaultCardAccountsTableName).Col(colCardNumber).Eq(card.Number)).
		Order(goqu.T(defaultAccountsTableName).Col(colAccountNumber).Asc()).
		ToSQL()
	if err != nil {
		a.logError(logMsgBuildSelectQueryFailed, logAttrError, err.Error())
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	rows, queryErr := a.pool.Query(ctx, query)
	if queryErr != nil {
		a.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrCardNumber, card.Number)
		return nil, fmt.Errorf("get accounts: %w", queryErr)
	}
	defer rows.Close()

	var accounts []core.Account

	for rows.Next() {
		var account core.Account

		if scanErr := rows.Scan(&account.Number, &account.Name, &account.Balance); scanErr != nil {
			a.logError(logMsgScanRowFailed, logAttrError, scanErr.Error())
			return nil, fmt.Errorf("get accounts: %w", scanErr)
		}

		accounts = append(accounts, account)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("get accounts: %w", rowsErr)
	}

	if len(accounts) == 0 {
		return nil, core.ErrNoAccountsFound
	}

	a.logDebug(logMsgAccountsResolved, logAttrCardNumber, card.Number, logAttrAccountCount, len(accounts))

	return accounts, nil
}

func (a *Authority) logDebug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Authority) logError(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Error(msg, args...)
	}
}
