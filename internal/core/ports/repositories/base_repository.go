package repositories

import (
	"context"
)

// TransactionManager runs a function inside one atomic unit of work.
// Repositories called with the context handed to fn take part in the unit.
// Calling WithinTransaction with a context that already carries a unit
// joins it instead of starting a new one.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
