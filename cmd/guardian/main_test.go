package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/foresight-engine/internal/config"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	domain "github.com/bryanwahyu/foresight-engine/internal/domain/guardian"
)

type stubGenerator struct {
	answer string
}

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.answer, nil }

type stubArchive struct{ keys []string }

func (a *stubArchive) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	a.keys = append(a.keys, key)
	return "http://minio/bucket/" + key, nil
}

func withGenerator(t *testing.T, answer string, seen *config.GenerationConfig) {
	t.Helper()
	prev := newGenerator
	newGenerator = func(_ context.Context, cfg config.GenerationConfig) (ai.Generator, error) {
		if seen != nil {
			*seen = cfg
		}
		return stubGenerator{answer: answer}, nil
	}
	t.Cleanup(func() { newGenerator = prev })
}

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Dockerfile"), []byte("FROM gcr.io/distroless/static\nUSER nonroot\n"), 0o600))
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestPassExitsClean(t *testing.T) {
	var seen config.GenerationConfig
	withGenerator(t, "PASS", &seen)
	t.Setenv("GENERATION_PROVIDER", "")
	t.Setenv("GENERATION_MODEL", "")

	stdout, stderr, err := execute(t, "--root", project(t))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration approved")
	assert.Contains(t, stderr, "Read Dockerfile")
	assert.Equal(t, defaultGeminiModel, seen.Model)
}

func TestBlockHaltsBuild(t *testing.T) {
	withGenerator(t, "BLOCK: base image is unpinned.", nil)

	stdout, _, err := execute(t, "--root", project(t))
	assert.ErrorIs(t, err, errHalted)
	assert.Contains(t, stdout, "Build HALTED")
}

func TestIndeterminateHaltsBuild(t *testing.T) {
	withGenerator(t, "Probably fine?", nil)

	_, _, err := execute(t, "--root", project(t))
	assert.ErrorIs(t, err, errHalted)
}

func TestNoFilesFails(t *testing.T) {
	withGenerator(t, "PASS", nil)

	_, stderr, err := execute(t, "--root", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, "No configuration files found")
}

func TestUnconfiguredFailsBeforeReading(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GENERATION_PROVIDER", "")

	_, stderr, err := execute(t, "--root", project(t))
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	assert.Contains(t, stderr, "GEMINI_API_KEY not found.")
	assert.NotContains(t, stderr, "Reading configuration files")
}

func TestJSONOutputAndArchive(t *testing.T) {
	withGenerator(t, "PASS", nil)
	archive := &stubArchive{}
	prev := newArchive
	newArchive = func(context.Context, config.MinioConfig) (domain.Archive, error) { return archive, nil }
	t.Cleanup(func() { newArchive = prev })

	stdout, stderr, err := execute(t, "--root", project(t), "-o", "json", "--archive", "--model", "gemini-x")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rec))
	assert.Equal(t, "gemini-x", rec["model"])
	require.Len(t, archive.keys, 1)
	assert.Equal(t, "http://minio/bucket/"+archive.keys[0], rec["archive_url"])
}

func TestArchiveFailureDoesNotChangeVerdict(t *testing.T) {
	withGenerator(t, "PASS", nil)
	prev := newArchive
	newArchive = func(context.Context, config.MinioConfig) (domain.Archive, error) {
		return nil, errors.New("minio endpoint is not set")
	}
	t.Cleanup(func() { newArchive = prev })

	_, stderr, err := execute(t, "--root", project(t), "--archive")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Review not archived")
}
