package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/foresight-engine/internal/application"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	"github.com/bryanwahyu/foresight-engine/internal/domain/reports"
	"github.com/bryanwahyu/foresight-engine/internal/infra/ai/prompt"
	"github.com/bryanwahyu/foresight-engine/internal/metrics"
)

// Prompt steps, also used as metric and error labels.
const (
	StepDiagnostic = "diagnostic"
	StepRootCause  = "root_cause"
	StepForesight  = "foresight"
)

// Service is designed to be used concurrently and is thread-safe.
//
// A nil Generator means no credential was configured at startup; every Analyze call
// then fails with ai.ErrNotConfigured.
type Service struct {
	Generator   ai.Generator
	Store       reports.SessionProvider
	Clock       application.Clock
	Logger      *zap.Logger
	CallTimeout time.Duration
}

type step struct {
	name  string
	build func(problem string) string
	dest  *string
}

// Analyze turns one problem statement into a three-part analysis and persists it.
// Either all three parts are generated and exactly one report is committed, or an
// error is returned and nothing is written.
func (s *Service) Analyze(ctx context.Context, problem string) (reports.Analysis, error) {
	start := s.now()
	log := s.logger()

	if s.Generator == nil {
		metrics.ObserveAnalysis(application.Since(s.Clock, start), metrics.OutcomeUnconfigured)
		return reports.Analysis{}, ai.ErrNotConfigured
	}

	rep := &reports.Report{ClientProblem: problem}
	steps := []step{
		{StepDiagnostic, prompt.Diagnostic, &rep.DiagnosticQuestion},
		{StepRootCause, prompt.RootCause, &rep.RootCauseAnalysis},
		{StepForesight, prompt.Foresight, &rep.ForesightPrediction},
	}

	// the three prompts only depend on the problem, so they run side by side
	g, gctx := errgroup.WithContext(ctx)
	for _, st := range steps {
		g.Go(func() error {
			text, err := s.generate(gctx, st.name, st.build(problem))
			if err != nil {
				return err
			}
			*st.dest = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(start, "generation failed", err)
		return reports.Analysis{}, err
	}

	err := s.Store.WithSession(ctx, func(repo reports.Repository) error {
		return repo.Insert(ctx, rep)
	})
	if err != nil {
		var perr *reports.PersistenceError
		if !errors.As(err, &perr) {
			err = &reports.PersistenceError{Op: "insert", Err: err}
		}
		s.fail(start, "persist failed", err)
		return reports.Analysis{}, err
	}

	metrics.ObserveAnalysis(application.Since(s.Clock, start), metrics.OutcomeSuccess)
	log.Info("analysis stored",
		zap.Int64("report_id", rep.ID),
		zap.Int("problem_len", len(problem)),
		zap.Duration("duration", application.Since(s.Clock, start)),
	)
	return rep.Analysis(), nil
}

// Latest returns the newest stored reports for audit.
func (s *Service) Latest(ctx context.Context, limit int) ([]*reports.Report, error) {
	var out []*reports.Report
	err := s.Store.WithSession(ctx, func(repo reports.Repository) error {
		var err error
		out, err = repo.Latest(ctx, limit)
		return err
	})
	return out, err
}

// Get returns one stored report, or reports.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*reports.Report, error) {
	var out *reports.Report
	err := s.Store.WithSession(ctx, func(repo reports.Repository) error {
		var err error
		out, err = repo.Get(ctx, id)
		return err
	})
	return out, err
}

func (s *Service) generate(ctx context.Context, name, p string) (string, error) {
	if s.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CallTimeout)
		defer cancel()
	}

	text, err := s.Generator.Generate(ctx, p)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ai.ErrEmptyResponse
	}
	metrics.ObserveGeneration(name, err)
	if err != nil {
		return "", &ai.GenerationError{Step: name, Err: err}
	}
	return text, nil
}

func (s *Service) fail(start time.Time, msg string, err error) {
	metrics.ObserveAnalysis(application.Since(s.Clock, start), metrics.OutcomeError)
	s.logger().Warn(msg, zap.Error(err), zap.Duration("duration", application.Since(s.Clock, start)))
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
