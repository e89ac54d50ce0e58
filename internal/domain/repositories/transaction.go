package repositories

import "context"

// TxFn is a function executed within a transaction. The context carries the
// transaction; repositories resolve it via GetTx so that validation reads
// and writes inside one logical operation share the same transaction scope.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a single database transaction.
// If the function returns an error the transaction is rolled back and no
// partial state is observable.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
