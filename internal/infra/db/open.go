package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/foresight-engine/internal/config"
	mysqlp "github.com/bryanwahyu/foresight-engine/internal/infra/db/mysql"
	"github.com/bryanwahyu/foresight-engine/internal/infra/db/postgres"
	"github.com/bryanwahyu/foresight-engine/internal/infra/db/sqlite"
	"github.com/bryanwahyu/foresight-engine/internal/infra/db/sqlstore"
)

// Open connects to the configured driver, creates the reports table when missing,
// and returns the pool plus its session store. The caller closes the pool.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, *sqlstore.Store, error) {
	var (
		db      *sql.DB
		err     error
		migrate func(context.Context, *sql.DB) error
		store   func(*sql.DB) *sqlstore.Store
	)

	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.Connect(ctx, cfg.PostgresDSN())
		migrate, store = postgres.Migrate, postgres.NewStore
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		migrate, store = mysqlp.Migrate, mysqlp.NewStore
	case "sqlite":
		db, err = sqlite.Connect(ctx, cfg.SQLitePath())
		migrate, store = sqlite.Migrate, sqlite.NewStore
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%s migrate: %w", cfg.Database.Driver, err)
	}
	return db, store(db), nil
}
