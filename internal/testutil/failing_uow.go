package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/stratako/stratako/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call inside a
// transaction, so tests can break a multi-statement reindex at a precise
// point and check that nothing was persisted.
//
// Calls are counted from 1. Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &countingTx{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// CountingUoW commits normally and records how many ExecContext calls
// each transaction made.
type CountingUoW struct {
	DB *sql.DB

	// Execs holds one entry per completed WithinTx call.
	Execs []int
	// Statements holds the SQL of every ExecContext of the last call.
	Statements []string
}

func (u *CountingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &countingTx{DBTX: tx}
	fnErr := fn(ctx, wrapped)
	u.Execs = append(u.Execs, int(wrapped.count.Load()))
	u.Statements = wrapped.statements
	if fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Last returns the exec count of the most recent transaction.
func (u *CountingUoW) Last() int {
	if len(u.Execs) == 0 {
		return 0
	}
	return u.Execs[len(u.Execs)-1]
}

type countingTx struct {
	db.DBTX
	count      atomic.Int32
	failOn     int32
	err        error
	statements []string
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := c.count.Add(1)
	c.statements = append(c.statements, query)
	if c.failOn > 0 && n == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
