package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
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

// Migrate bikin tabel reports kalau belum ada
func Migrate(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS reports (
  id                   BIGINT AUTO_INCREMENT PRIMARY KEY,
  client_problem       TEXT NOT NULL,
  diagnostic_question  TEXT NOT NULL,
  root_cause_analysis  TEXT NOT NULL,
  foresight_prediction TEXT NOT NULL,
  created_at           DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
  INDEX ix_reports_client_problem (client_problem(191)),
  INDEX ix_reports_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`
	_, err := db.ExecContext(ctx, q)
	return err
}
