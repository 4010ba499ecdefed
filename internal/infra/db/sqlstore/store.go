package sqlstore

import (
	"context"
	"database/sql"

	"github.com/bryanwahyu/foresight-engine/internal/domain/reports"
)

// Querier is what repositories need from a connection; *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RepositoryFactory binds a driver's report repository to a session.
type RepositoryFactory func(q Querier) reports.Repository

// Store implements reports.SessionProvider with one transaction per session.
type Store struct {
	db      *sql.DB
	newRepo RepositoryFactory
}

func NewStore(db *sql.DB, newRepo RepositoryFactory) *Store {
	return &Store{db: db, newRepo: newRepo}
}

// WithSession runs fn inside a transaction. fn's error or a cancelled ctx rolls the
// transaction back; only a clean return on a live ctx commits.
func (s *Store) WithSession(ctx context.Context, fn func(reports.Repository) error) (err error) {
	if err := ctx.Err(); err != nil {
		return &reports.PersistenceError{Op: "begin", Err: err}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &reports.PersistenceError{Op: "begin", Err: err}
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(s.newRepo(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &reports.PersistenceError{Op: "commit", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &reports.PersistenceError{Op: "commit", Err: err}
	}
	committed = true
	return nil
}

// Check pings the database so the store doubles as a health checker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
