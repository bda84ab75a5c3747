// Package dbx provides tiny DB abstractions shared by the audit sink and
// the inspection tools: a minimal interface (DBTX) implemented by both
// *sql.DB and *sql.Tx, and a helper to run probes inside a transaction
// that is never committed.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used here. Both *sql.DB and
// *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithRollback begins a transaction, runs fn with a transactional handle,
// and then rolls back unconditionally. Nothing fn does is ever committed,
// which makes it safe to exercise writes against a live table. Panics are
// rethrown after rollback.
//
//	err := dbx.WithRollback(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "INSERT ...")
//	    return err
//	})
func WithRollback(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		rbErr := tx.Rollback()
		if err == nil && rbErr != nil && rbErr != sql.ErrTxDone {
			err = rbErr
		}
	}()

	err = fn(ctx, tx)
	return err
}
