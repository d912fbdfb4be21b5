package scanner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/wallarm/gotestoffsets/internal/config"
	"github.com/wallarm/gotestoffsets/internal/db"
	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scanner/clients"
	"github.com/wallarm/gotestoffsets/internal/scanner/types"
	"github.com/wallarm/gotestoffsets/internal/scenario"
)

// SchemaValidator checks a listing response against the API contract.
type SchemaValidator interface {
	ValidateListing(ctx context.Context, resp types.Response) error
}

// Scanner executes the scenario plan step by step and records what it
// observes. Steps never run concurrently: each one relies on the state left
// by the previous ones.
type Scanner struct {
	logger     *logrus.Logger
	cfg        *config.Config
	db         *db.DB
	httpClient clients.HTTPClient
	schema     SchemaValidator
	bar        *progressbar.ProgressBar
}

// New creates a Scanner. schema may be nil to skip the contract check, bar
// may be nil to run without a progress bar.
func New(
	logger *logrus.Logger,
	cfg *config.Config,
	db *db.DB,
	httpClient clients.HTTPClient,
	schema SchemaValidator,
	bar *progressbar.ProgressBar,
) (*Scanner, error) {
	if err := db.GetPlan().Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scenario plan")
	}

	if bar == nil {
		bar = progressbar.DefaultSilent(int64(len(db.GetPlan().Steps)))
	}

	return &Scanner{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		httpClient: httpClient,
		schema:     schema,
		bar:        bar,
	}, nil
}

// Run executes all enabled steps in order. Transport failures are recorded
// and never stop the run; only cancellation of ctx does.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("Scenario started")
	defer s.logger.Info("Scenario finished")

	start := time.Now()
	defer func() {
		s.logger.WithField("duration", time.Since(start).Round(time.Millisecond).String()).Info("Scenario time")
	}()

	defer s.bar.Finish()

	for _, step := range s.db.GetPlan().Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if step.Disabled {
			s.logger.WithField("test", step.ID).Warn("Test case is defined but disabled, it will not be sent")
			s.bar.Add(1)
			continue
		}

		outcome := s.runStep(ctx, step)

		if err := s.db.AddOutcome(outcome); err != nil {
			return errors.Wrap(err, "couldn't record outcome")
		}

		s.bar.Add(1)
	}

	return nil
}

func (s *Scanner) runStep(ctx context.Context, step *scenario.Step) *db.Outcome {
	logger := s.logger.WithField("test", step.ID)
	outcome := &db.Outcome{ID: step.ID}

	resp, err := s.httpClient.AddOffset(ctx, step.Payload)
	if err != nil {
		outcome.TransportFailed = true
		outcome.TransportError = err.Error()

		logger.WithError(err).Error("Connection failure")
	} else {
		statusCode := resp.GetStatusCode()
		elapsed := resp.GetElapsed()

		outcome.StatusCode = &statusCode
		outcome.Reason = resp.GetReason()
		outcome.Elapsed = &elapsed

		logger.WithFields(logrus.Fields{
			"status":  statusCode,
			"elapsed": elapsed.String(),
		}).Debug("Response received")
	}

	if step.SettleAfter {
		s.settle(ctx)
	}

	// the listing is taken even if the request failed
	outcome.Snapshot = s.takeSnapshot(ctx, logger)

	return outcome
}

func (s *Scanner) settle(ctx context.Context) {
	if s.cfg.SettleDelay <= 0 {
		return
	}

	s.logger.WithField("delay", s.cfg.SettleDelay.String()).Debug("Waiting for the service to settle")

	timer := time.NewTimer(s.cfg.SettleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (s *Scanner) takeSnapshot(ctx context.Context, logger *logrus.Entry) *db.Snapshot {
	snapshot := &db.Snapshot{}

	resp, err := s.httpClient.ListOffsets(ctx)
	if err != nil {
		snapshot.Error = err.Error()
		logger.WithError(err).Error("Connection failure while fetching offsets")
		return snapshot
	}

	statusCode := resp.GetStatusCode()
	elapsed := resp.GetElapsed()

	snapshot.StatusCode = &statusCode
	snapshot.Elapsed = &elapsed

	if s.schema != nil {
		if err = s.schema.ValidateListing(ctx, resp); err != nil {
			snapshot.ContractError = err.Error()
			logger.WithError(err).Error("Offsets listing violates the API description")
		}
	}

	if statusCode != http.StatusOK {
		snapshot.Error = fmt.Sprintf("unexpected listing status %d", statusCode)
		logger.WithField("status", statusCode).Error("Couldn't fetch offsets")
		return snapshot
	}

	listing, err := offset.ParseListing(resp.GetContent())
	if err != nil {
		snapshot.Error = err.Error()
		logger.WithError(err).Error("Could not parse offsets listing")
		return snapshot
	}

	snapshot.Listing = listing

	return snapshot
}
