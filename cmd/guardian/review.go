package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/bryanwahyu/foresight-engine/internal/application"
	"github.com/bryanwahyu/foresight-engine/internal/application/guardian"
	"github.com/bryanwahyu/foresight-engine/internal/config"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	domain "github.com/bryanwahyu/foresight-engine/internal/domain/guardian"
	"github.com/bryanwahyu/foresight-engine/internal/formatter"
	"github.com/bryanwahyu/foresight-engine/internal/infra/ai/provider"
	"github.com/bryanwahyu/foresight-engine/internal/infra/storage"
	"github.com/bryanwahyu/foresight-engine/internal/logging"
)

const defaultGeminiModel = "gemini-2.5-pro"

// errHalted is returned when the verdict is anything but PASS.
var errHalted = errors.New("build halted")

type reviewOptions struct {
	root       string
	files      []string
	configPath string
	model      string
	output     string
	archive    bool
	verbose    bool
}

// swapped in tests
var (
	newGenerator = provider.New
	newArchive   = func(ctx context.Context, cfg config.MinioConfig) (domain.Archive, error) {
		return storage.New(ctx, cfg)
	}
)

func runReview(ctx context.Context, opts *reviewOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ui := &progress{w: stderr, enabled: opts.output == "human" || opts.output == ""}
	ui.header()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	gcfg := cfg.Generation
	switch {
	case opts.model != "":
		gcfg.Model = opts.model
	case gcfg.Provider == "gemini" && gcfg.Model == "":
		gcfg.Model = defaultGeminiModel
	}

	level := "error"
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gen, err := newGenerator(ctx, gcfg)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			ui.fail(gcfg.KeyEnv() + " not found.")
		}
		return err
	}

	svc := &guardian.Service{
		Generator: gen,
		Clock:     application.SystemClock{},
		Logger:    logger.Named("guardian"),
		Model:     gcfg.Model,
	}

	ui.info("🔍 Reading configuration files...")
	bundle, err := svc.Collect(opts.root, opts.files)
	for _, e := range bundle.Entries {
		if e.ReadErr != nil {
			ui.warn("Could not read " + e.Name)
			continue
		}
		ui.success("Read " + e.Name)
	}
	if err != nil {
		ui.fail("No configuration files found. Exiting.")
		return err
	}

	stop := ui.spin(" Submitting configuration for analysis...")
	res, err := svc.Review(ctx, opts.root, bundle)
	stop()
	if err != nil {
		return err
	}

	if opts.archive {
		archive, err := newArchive(ctx, cfg.Minio)
		if err == nil {
			svc.Archive = archive
			err = svc.Store(ctx, &res)
		}
		if err != nil {
			ui.warn("Review not archived: " + err.Error())
			logger.Warn("archive failed", zap.Error(err))
		}
	}

	if err := formatter.DisplayReview(stdout, res, opts.output); err != nil {
		return err
	}
	if !res.Verdict.Approved() {
		return errHalted
	}
	return nil
}

// progress prints human oriented status lines to stderr so structured output on
// stdout stays parseable.
type progress struct {
	w       io.Writer
	enabled bool
}

func (p *progress) header() {
	if !p.enabled {
		return
	}
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(p.w, "--- 🛡️ Cloud Build Guardian Initializing 🛡️ ---")
}

func (p *progress) info(msg string) {
	if p.enabled {
		fmt.Fprintln(p.w, msg)
	}
}

func (p *progress) success(msg string) {
	if p.enabled {
		color.New(color.FgGreen).Fprintf(p.w, "  ✓ %s\n", msg)
	}
}

func (p *progress) warn(msg string) {
	color.New(color.FgYellow).Fprintf(p.w, "  ⚠️ %s\n", msg)
}

func (p *progress) fail(msg string) {
	color.New(color.FgRed).Fprintf(p.w, "✗ %s\n", msg)
}

func (p *progress) spin(suffix string) func() {
	if !p.enabled {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(p.w))
	s.Suffix = suffix
	s.Start()
	return s.Stop
}
