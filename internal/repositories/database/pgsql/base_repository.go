package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
)

// Postgres error codes and constraint names the repositories translate.
const (
	pgUniqueViolation = "23505"

	idempotencyKeyConstraint = "journal_entries_idempotency_key_key"
	reversalConstraint       = "journal_entries_reverses_journal_id_key"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewStorageError("failed to rollback transaction", err)
	}
	return nil
}

// uniqueViolation returns the violated constraint name when err is a unique violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// mapWriteError translates constraint violations into application errors and
// wraps everything else as a storage failure.
func mapWriteError(err error, message string) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case idempotencyKeyConstraint:
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		case reversalConstraint:
			return fmt.Errorf("%w: journal entry already reversed", apperrors.ErrConflict)
		default:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, constraint)
		}
	}
	return apperrors.NewStorageError(message, err)
}
