// pkg/db/transaction_manager.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// TxController defines methods for controlling a database transaction.
// *sqlx.Tx implicitly implements this interface.
type TxController interface {
	Commit() error
	Rollback() error
}

// DBTxBeginner defines the interface for beginning transactions.
// *sqlx.DB implements this.
type DBTxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Function types injected into services so tests can replace the real transaction lifecycle.
type (
	BeginTxFunc    func(ctx context.Context, dbConn DBTxBeginner) (TxController, error)
	CommitTxFunc   func(tx TxController) error
	RollbackTxFunc func(tx TxController)
)

// TxFuncs bundles a transaction beginner with the lifecycle functions used on it.
type TxFuncs struct {
	Beginner DBTxBeginner
	Begin    BeginTxFunc
	Commit   CommitTxFunc
	Rollback RollbackTxFunc
}

// NewTxFuncs returns TxFuncs backed by the package-level helpers.
func NewTxFuncs(beginner DBTxBeginner) TxFuncs {
	return TxFuncs{
		Beginner: beginner,
		Begin:    BeginTx,
		Commit:   CommitTx,
		Rollback: RollbackTx,
	}
}

// BeginTx starts a new database transaction.
// It returns a TxController interface, which *sqlx.Tx implements.
func BeginTx(ctx context.Context, dbConn DBTxBeginner) (TxController, error) {
	tx, err := dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// CommitTx commits the transaction.
func CommitTx(tx TxController) error {
	return tx.Commit()
}

// RollbackTx rolls back the transaction. A rollback after commit is a no-op.
func RollbackTx(tx TxController) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Default().Error("Error rolling back transaction", "error", err)
	}
}
