// internal/service/unit_of_work.go
package service

import (
	"context"
	"fmt"

	"tradein-settlement/internal/repository"
	"tradein-settlement/pkg/db"
)

// unitOfWork runs a block of repository calls inside one database transaction.
// The block receives the transaction as its DBExecutor; any error rolls everything back.
type unitOfWork struct {
	tx db.TxFuncs
}

func newUnitOfWork(tx db.TxFuncs) unitOfWork {
	return unitOfWork{tx: tx}
}

func (u unitOfWork) Do(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := u.tx.Begin(ctx, u.tx.Beginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer u.tx.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := u.tx.Commit(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}
