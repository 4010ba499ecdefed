package guardian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/foresight-engine/internal/application"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	domain "github.com/bryanwahyu/foresight-engine/internal/domain/guardian"
	"github.com/bryanwahyu/foresight-engine/internal/infra/ai/prompt"
)

// ErrNoFiles is returned when none of the requested files exist under the root.
var ErrNoFiles = errors.New("no configuration files found")

// Service reviews deployment configuration before a build is allowed to continue.
type Service struct {
	Generator ai.Generator
	Archive   domain.Archive // optional
	Clock     application.Clock
	Logger    *zap.Logger
	Model     string
}

// Collect reads the named files under root. Missing files are skipped; files that
// exist but cannot be read stay in the bundle with their read error.
func (s *Service) Collect(root string, names []string) (domain.Bundle, error) {
	if len(names) == 0 {
		names = domain.DefaultFiles
	}
	var b domain.Bundle
	for _, name := range names {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.logger().Info("skipping non-existent file", zap.String("file", name))
			continue
		case err != nil:
			s.logger().Warn("could not read file", zap.String("file", name), zap.Error(err))
			b.Entries = append(b.Entries, domain.FileEntry{Name: name, ReadErr: err})
		default:
			b.Entries = append(b.Entries, domain.FileEntry{Name: name, Content: string(data)})
		}
	}
	if b.Empty() {
		return b, ErrNoFiles
	}
	return b, nil
}

// Result is the outcome of Review: the record plus any local secret findings.
type Result struct {
	domain.Review `yaml:",inline"`
	Secrets       []domain.SecretFinding `json:"secrets,omitempty" yaml:"secrets,omitempty"`
	ArchiveURL    string                 `json:"archive_url,omitempty" yaml:"archive_url,omitempty"`
}

// Review checks a bundle. Credential literals found locally block the build without
// sending the bundle to the model. A failed generation call also blocks.
func (s *Service) Review(ctx context.Context, root string, b domain.Bundle) (Result, error) {
	if s.Generator == nil {
		return Result{}, ai.ErrNotConfigured
	}
	start := s.now()
	res := Result{Review: domain.Review{
		ID:         uuid.NewString(),
		Root:       root,
		Files:      b.Names(),
		Model:      s.Model,
		ReviewedAt: start.UTC(),
	}}

	if res.Secrets = domain.ScanSecrets(b); len(res.Secrets) > 0 {
		first := res.Secrets[0]
		res.Verdict = domain.ParseVerdict(fmt.Sprintf("BLOCK: %s in %s.", first.Title, first.File))
	} else {
		text, err := s.Generator.Generate(ctx, prompt.GuardianReview(b.String()))
		if err != nil {
			s.logger().Warn("guardian generation failed", zap.Error(err))
			text = fmt.Sprintf("BLOCK: generation call failed: %v", err)
		}
		res.Verdict = domain.ParseVerdict(text)
	}
	res.DurationMS = application.Since(s.Clock, start).Milliseconds()
	return res, nil
}

// Store uploads the result to the archive under guardian/<yyyy>/<mm>/<dd>/<id>.json.
func (s *Service) Store(ctx context.Context, res *Result) error {
	if s.Archive == nil {
		return errors.New("no archive configured")
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}
	key := fmt.Sprintf("guardian/%s/%s.json", res.ReviewedAt.Format("2006/01/02"), res.ID)
	url, err := s.Archive.Put(ctx, key, data, "application/json")
	if err != nil {
		return fmt.Errorf("archive review: %w", err)
	}
	res.ArchiveURL = url
	return nil
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
