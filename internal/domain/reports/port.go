package reports

import "context"

// Repository port for the reports table. Reports are append-only.
type Repository interface {
	// Insert stores r and fills in the ID and CreatedAt assigned by the store.
	Insert(ctx context.Context, r *Report) error
	Get(ctx context.Context, id int64) (*Report, error)
	Latest(ctx context.Context, limit int) ([]*Report, error)
	Count(ctx context.Context) (int64, error)
}

// SessionProvider hands out a request-scoped Repository.
//
// WithSession commits when fn returns nil and rolls back otherwise. The session is
// released on every path, including a cancelled ctx.
type SessionProvider interface {
	WithSession(ctx context.Context, fn func(Repository) error) error
}
