package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"branching-novel/internal/database"
	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

// maxTxAttempts is the first run plus one retry after a storage-level failure.
const maxTxAttempts = 2

// UnitOfWork is the body of a transaction. Every read and write it performs
// must go through querier.
type UnitOfWork func(ctx context.Context, querier interfaces.DBTX) error

// Executor runs units of work atomically.
type Executor interface {
	// Execute commits all writes of fn or none of them. Domain errors from fn
	// are returned unchanged; storage failures are retried once and then
	// reported as models.ErrConflict.
	Execute(ctx context.Context, operation string, fn UnitOfWork) error
}

// TxExecutor is the PostgreSQL Executor.
type TxExecutor struct {
	db        interfaces.TxBeginner
	txOptions pgx.TxOptions
	logger    *zap.Logger
}

var _ Executor = (*TxExecutor)(nil)

// NewTxExecutor creates an executor that opens READ COMMITTED transactions on db.
// Units of work lock the rows they mutate.
func NewTxExecutor(db interfaces.TxBeginner, logger *zap.Logger) *TxExecutor {
	return &TxExecutor{
		db:        db,
		txOptions: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		logger:    logger.Named("TxExecutor"),
	}
}

func (e *TxExecutor) Execute(ctx context.Context, operation string, fn UnitOfWork) error {
	log := e.logger.With(zap.String("operation", operation))

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = e.runOnce(ctx, log, fn)
		if err == nil {
			return nil
		}
		if !database.IsRetryable(err) {
			return mapStorageError(operation, err)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", operation, ctx.Err())
		}
		if attempt < maxTxAttempts {
			txRetriesTotal.WithLabelValues(operation).Inc()
			log.Warn("Storage failure inside transaction, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	txConflictsTotal.WithLabelValues(operation).Inc()
	log.Error("Transaction failed after retry", zap.Error(err))
	return fmt.Errorf("%w: %s: %w", models.ErrConflict, operation, err)
}

func (e *TxExecutor) runOnce(ctx context.Context, log *zap.Logger, fn UnitOfWork) error {
	tx, err := e.db.BeginTx(ctx, e.txOptions)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
				log.Error("Failed to rollback transaction after panic", zap.Error(rollbackErr), zap.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			log.Error("Failed to rollback transaction", zap.Error(rollbackErr), zap.NamedError("original_error", err))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapStorageError leaves domain errors alone and turns a stray pgx.ErrNoRows
// into models.ErrNotFound.
func mapStorageError(operation string, err error) error {
	switch {
	case isDomainError(err):
		return err
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %s: %w", models.ErrNotFound, operation, err)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidChoice) ||
		errors.Is(err, models.ErrInvalidNode) ||
		errors.Is(err, models.ErrConflict) ||
		errors.Is(err, models.ErrValidation)
}

// EntityGetter is the lookup half of interfaces.Store.
type EntityGetter[T any] interface {
	Get(ctx context.Context, querier interfaces.DBTX, id int64) (*T, error)
}

// RequireEntity loads the entity with id or fails with models.ErrNotFound.
// Inside a unit of work it aborts the transaction before any write.
func RequireEntity[T any](ctx context.Context, querier interfaces.DBTX, store EntityGetter[T], id int64) (*T, error) {
	entity, err := store.Get(ctx, querier, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}
	return entity, nil
}
