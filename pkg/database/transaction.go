package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Postgres error codes handled by repositories and the tx manager
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager runs fn atomically. Repositories called with the ctx passed to fn
// join the transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxFunc là function type được execute trong transaction
type TxFunc func(pgx.Tx) error

type txKey struct{}

// QuerierFrom returns the transaction stored in ctx, or the pool
func QuerierFrom(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// WithTransaction wraps fn in a transaction
// Rollback on error or panic, commit otherwise
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn TxFunc) (err error) {
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Warn().Err(rbErr).Msg("[DATABASE] Transaction rollback error")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// PgTxManager runs serializable transactions and retries serialization failures
type PgTxManager struct {
	pool        *pgxpool.Pool
	maxAttempts int
	baseDelay   time.Duration
}

func NewTxManager(pool *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{
		pool:        pool,
		maxAttempts: 3,
		baseDelay:   20 * time.Millisecond,
	}
}

func (m *PgTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// nested call joins the outer transaction
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	opts := pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}

	for attempt := 1; ; attempt++ {
		err := WithTransaction(ctx, m.pool, opts, func(tx pgx.Tx) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if err == nil || !IsRetryable(err) || attempt >= m.maxAttempts {
			return err
		}

		delay := m.baseDelay * time.Duration(1<<uint(attempt-1))
		log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("[DATABASE] Serialization failure, retrying transaction")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("transaction retry cancelled: %w", ctx.Err())
		}
	}
}

// IsRetryable reports serialization failures and deadlocks
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == CodeSerializationFailure || pgErr.Code == CodeDeadlockDetected
}

// ConstraintViolation returns the violated constraint name when err has the given SQLSTATE
func ConstraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
