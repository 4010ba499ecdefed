package mysql

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/foresight-engine/internal/domain/reports"
	"github.com/bryanwahyu/foresight-engine/internal/infra/db/sqlstore"
)

type ReportRepository struct {
	q sqlstore.Querier
}

func NewReportRepository(q sqlstore.Querier) *ReportRepository {
	return &ReportRepository{q: q}
}

// NewStore wires the repository into a transaction-per-session store.
func NewStore(db *sql.DB) *sqlstore.Store {
	return sqlstore.NewStore(db, func(q sqlstore.Querier) domain.Repository {
		return NewReportRepository(q)
	})
}

const selectColumns = `SELECT id, client_problem, diagnostic_question, root_cause_analysis, foresight_prediction, created_at
FROM reports`

// Insert a report. MySQL has no RETURNING, so the assigned created_at is read back
// in the same session.
func (r *ReportRepository) Insert(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO reports
  (client_problem, diagnostic_question, root_cause_analysis, foresight_prediction)
VALUES (?,?,?,?);
`
	res, err := r.q.ExecContext(ctx, q,
		rep.ClientProblem, rep.DiagnosticQuestion, rep.RootCauseAnalysis, rep.ForesightPrediction)
	if err != nil {
		return &domain.PersistenceError{Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return &domain.PersistenceError{Op: "insert", Err: err}
	}

	var created sqlstore.Timestamp
	if err := r.q.QueryRowContext(ctx, `SELECT created_at FROM reports WHERE id=?`, id).Scan(&created); err != nil {
		return &domain.PersistenceError{Op: "insert", Err: err}
	}
	rep.ID = id
	rep.CreatedAt = created.Time
	return nil
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id int64) (*domain.Report, error) {
	rep, err := scanReport(r.q.QueryRowContext(ctx, selectColumns+` WHERE id=? LIMIT 1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get", Err: err}
	}
	return rep, nil
}

// Latest reports, newest first
func (r *ReportRepository) Latest(ctx context.Context, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "latest", Err: err}
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "latest", Err: err}
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "latest", Err: err}
	}
	return out, nil
}

func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n); err != nil {
		return 0, &domain.PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var rep domain.Report
	var created sqlstore.Timestamp
	if err := row.Scan(
		&rep.ID, &rep.ClientProblem, &rep.DiagnosticQuestion, &rep.RootCauseAnalysis,
		&rep.ForesightPrediction, &created,
	); err != nil {
		return nil, err
	}
	rep.CreatedAt = created.Time
	return &rep, nil
}
