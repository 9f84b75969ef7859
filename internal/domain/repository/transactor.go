package repository

import "context"

// Transactor runs fn in one database transaction. Repositories called with
// the context passed to fn take part in it; an error from fn rolls back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
