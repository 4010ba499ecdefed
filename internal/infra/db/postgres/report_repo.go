package postgres

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

// Insert a report; id and created_at come back from the database
func (r *ReportRepository) Insert(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO reports
  (client_problem, diagnostic_question, root_cause_analysis, foresight_prediction)
VALUES ($1,$2,$3,$4)
RETURNING id, created_at;
`
	row := r.q.QueryRowContext(ctx, q,
		rep.ClientProblem, rep.DiagnosticQuestion, rep.RootCauseAnalysis, rep.ForesightPrediction)
	if err := row.Scan(&rep.ID, &rep.CreatedAt); err != nil {
		return &domain.PersistenceError{Op: "insert", Err: err}
	}
	return nil
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id int64) (*domain.Report, error) {
	const q = `
SELECT id, client_problem, diagnostic_question, root_cause_analysis, foresight_prediction, created_at
FROM reports
WHERE id=$1;
`
	var rep domain.Report
	err := r.q.QueryRowContext(ctx, q, id).Scan(
		&rep.ID, &rep.ClientProblem, &rep.DiagnosticQuestion, &rep.RootCauseAnalysis,
		&rep.ForesightPrediction, &rep.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get", Err: err}
	}
	return &rep, nil
}

// Latest reports, newest first
func (r *ReportRepository) Latest(ctx context.Context, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, client_problem, diagnostic_question, root_cause_analysis, foresight_prediction, created_at
FROM reports
ORDER BY created_at DESC, id DESC
LIMIT $1;
`
	rows, err := r.q.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "latest", Err: err}
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(
			&rep.ID, &rep.ClientProblem, &rep.DiagnosticQuestion, &rep.RootCauseAnalysis,
			&rep.ForesightPrediction, &rep.CreatedAt,
		); err != nil {
			return nil, &domain.PersistenceError{Op: "latest", Err: err}
		}
		out = append(out, &rep)
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
