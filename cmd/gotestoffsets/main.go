package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/wallarm/gotestoffsets/internal/config"
	"github.com/wallarm/gotestoffsets/internal/db"
	"github.com/wallarm/gotestoffsets/internal/fixture"
	"github.com/wallarm/gotestoffsets/internal/openapi"
	"github.com/wallarm/gotestoffsets/internal/platform"
	"github.com/wallarm/gotestoffsets/internal/report"
	"github.com/wallarm/gotestoffsets/internal/scanner"
	"github.com/wallarm/gotestoffsets/internal/scanner/clients/gohttp"
	"github.com/wallarm/gotestoffsets/internal/scenario"
	"github.com/wallarm/gotestoffsets/internal/verifier"
	"github.com/wallarm/gotestoffsets/internal/version"
)

func main() {
	logger := logrus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		logger.WithField("signal", sig).Info("scenario canceled")
		cancel()
	}()

	args, err := parseFlags()
	if err != nil {
		logger.WithError(err).Error("couldn't parse flags")
		os.Exit(1)
	}

	logger.SetLevel(logLevel)
	if logFormat == jsonLogFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if quiet {
		logger.SetOutput(io.Discard)
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.WithError(err).Error("couldn't load config")
		os.Exit(1)
	}

	cfg.Args = args

	exitCode, err := run(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("caught error in main function")
		os.Exit(1)
	}

	os.Exit(exitCode)
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (int, error) {
	logger.WithField("version", version.Version).Info("GoTestOffsets started")

	r, seed := newRand(cfg.Seed)
	fixtures := fixture.Generate(r)

	logger.WithFields(logrus.Fields{
		"seed":  seed,
		"amps":  fixtures.Amps,
		"watts": fixtures.Watts,
	}).Info("Fixtures generated")

	plan := scenario.Default(fixtures, scenario.Options{SkipLongName: cfg.SkipLongName})

	db := db.NewDB(plan, fixtures)

	logger.WithField("run_id", db.GetRunID()).Info("Test run created")

	httpClient, err := gohttp.NewClient(cfg)
	if err != nil {
		return 0, errors.Wrap(err, "couldn't create HTTP client")
	}

	var schema scanner.SchemaValidator
	if !cfg.SkipSchemaCheck {
		v, err := openapi.NewValidator(ctx, cfg.OpenAPIFile, cfg.URL)
		if err != nil {
			return 0, errors.Wrap(err, "couldn't load OpenAPI spec")
		}
		schema = v
	} else {
		logger.WithField("status", "skipped").Info("API description check")
	}

	showBar := !quiet && logFormat == textLogFormat && terminal.IsTerminal(int(os.Stderr.Fd()))
	bar := platform.NewProgressBar(len(plan.Steps), showBar)

	s, err := scanner.New(logger, cfg, db, httpClient, schema, bar)
	if err != nil {
		return 0, errors.Wrap(err, "couldn't create scanner")
	}

	err = s.Run(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return 0, errors.Wrap(err, "error occurred while running scenario")
		}

		logger.Warn("Scenario was interrupted, remaining tests are reported as not run")
	}

	err = verifier.New(logger, cfg.MaxLatency).Verify(db)
	if err != nil {
		return 0, errors.Wrap(err, "couldn't verify results")
	}

	reportTime := time.Now()
	meta := report.Meta{
		Time: reportTime,
		URL:  cfg.URL,
		Args: cfg.Args,
	}

	stat := db.GetStatistics()

	err = report.RenderConsoleReport(os.Stdout, stat, meta, logFormat)
	if err != nil {
		return 0, err
	}

	reportFile := filepath.Join(cfg.ReportPath, cfg.ReportName)

	reportFiles, err := report.ExportFullReport(stat, reportFile, meta, cfg.ReportFormat)
	if err != nil {
		return 0, errors.Wrap(err, "couldn't export full report")
	}

	for _, file := range reportFiles {
		reportExt := strings.ToUpper(strings.Trim(filepath.Ext(file), "."))
		logger.WithField("filename", file).Infof("Export %s full report", reportExt)
	}

	return report.ExitCode(logger, stat, cfg.SkipFailure), nil
}
