package services

import (
	"context"

	"github.com/upb/expense-api/repositories"
)

// InTx runs fn inside a transaction and returns its result.
// Repositories called with the ctx passed to fn join the transaction.
func InTx[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := txMgr.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		var err error
		result, err = fn(txCtx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
