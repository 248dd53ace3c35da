package records

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx is a record-store transaction carrying an explicit list of
// post-commit hooks. Hooks run in registration order, synchronously,
// after the transaction has durably committed; they never run on
// rollback or on a failed commit. Media-lifecycle code uses this to
// guarantee a file delete can never be scheduled for a mutation that
// might still roll back.
type Tx struct {
	tx       *sql.Tx
	onCommit []func()
	done     bool
}

// Begin starts a transaction.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// OnCommit registers fn to run after a successful Commit.
func (t *Tx) OnCommit(fn func()) {
	t.onCommit = append(t.onCommit, fn)
}

// Commit commits the transaction and then runs the post-commit hooks.
func (t *Tx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return err
	}
	for _, fn := range t.onCommit {
		fn()
	}
	return nil
}

// Rollback aborts the transaction. Registered hooks are discarded.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.onCommit = nil
	return t.tx.Rollback()
}

// ExecContext runs a statement within the transaction.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query within the transaction.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

// WithTransaction runs fn inside a transaction, committing on nil and
// rolling back on error or panic.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if !tx.done {
			tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
