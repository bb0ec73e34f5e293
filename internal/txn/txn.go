// Package txn carries database transactions through context.Context and
// defines the units of work that decide whether an operation joins the
// caller's transaction or commits on its own.
package txn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner opens transactions. *pgxpool.Pool satisfies it, and every Begin
// acquires its own connection from the pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txKey struct{}

// WithTx returns a context carrying tx as the ambient transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// FromContext returns the ambient transaction, if any.
func FromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok && tx != nil
}

// Conn returns the ambient transaction, falling back to q when the context
// carries none.
func Conn(ctx context.Context, q Querier) Querier {
	if tx, ok := FromContext(ctx); ok {
		return tx
	}
	return q
}

// UnitOfWork runs fn inside a transactional scope. fn receives a context
// carrying the transaction to use; returning an error rolls the scope back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// DoResult runs fn in uow and returns its value.
func DoResult[T any](ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := uow.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

type joinAmbient struct {
	db Beginner
}

// JoinAmbient returns the default unit of work: fn joins the transaction
// already carried by ctx, and only when there is none a new transaction is
// opened and committed around fn. A joined transaction is left for its
// owner to commit or roll back.
func JoinAmbient(db Beginner) UnitOfWork {
	return joinAmbient{db: db}
}

func (u joinAmbient) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := FromContext(ctx); ok {
		return fn(ctx)
	}
	return run(ctx, u.db, fn)
}

type requiresNew struct {
	db Beginner
}

// RequiresNew returns a unit of work that always opens a new transaction on
// a separate connection, independent of any ambient transaction, and
// commits it before Do returns. Rolling back the ambient transaction later
// does not undo what fn wrote.
func RequiresNew(db Beginner) UnitOfWork {
	return requiresNew{db: db}
}

func (u requiresNew) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return run(ctx, u.db, fn)
}

func run(ctx context.Context, db Beginner, fn func(ctx context.Context) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
