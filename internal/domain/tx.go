package domain

import "context"

// Transactor runs a function inside a single database transaction.
// Repository calls made with the context passed to fn join that transaction,
// so check-then-act sequences observe a consistent snapshot and either
// commit as a whole or leave no trace.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
