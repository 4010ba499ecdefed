package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrations run in order on every boot; each statement is idempotent.
// client_problem is unbounded, so it is indexed by hash to stay under the btree row limit.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS reports (
  id                   BIGSERIAL PRIMARY KEY,
  client_problem       TEXT NOT NULL,
  diagnostic_question  TEXT NOT NULL,
  root_cause_analysis  TEXT NOT NULL,
  foresight_prediction TEXT NOT NULL,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`DROP INDEX IF EXISTS ix_reports_client_problem`,
	`CREATE INDEX IF NOT EXISTS ix_reports_client_problem_md5 ON reports (md5(client_problem))`,
	`CREATE INDEX IF NOT EXISTS ix_reports_created_at ON reports (created_at DESC)`,
}

// Migrate bikin tabel reports kalau belum ada
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range migrations {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
