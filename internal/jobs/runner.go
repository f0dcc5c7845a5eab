package jobs

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/certs"
	"github.com/tomasfarkasovsky/trailhead/internal/logging"
	"github.com/tomasfarkasovsky/trailhead/internal/metrics"
	"github.com/tomasfarkasovsky/trailhead/pkg/models"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

// Runner syncs every active username once, one after another.
type Runner struct {
	Roster     repository.RosterRepo
	Fetcher    Fetcher
	Reconciler Reconciler
	// Runs and Metrics are optional.
	Runs    repository.RunRepo
	Metrics Metrics
	Logger  *zap.Logger
	// Out receives the human readable warning lines when set.
	Out io.Writer

	Now   func() time.Time
	NewID func() string
}

// Run processes the roster. Per-user fetch and extraction problems are
// collected in the summary; a store error stops the run and is returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	logger := logging.OrNop(r.Logger)
	now := r.Now
	if now == nil {
		now = time.Now
	}
	newID := r.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	sum := Summary{RunID: newID(), Started: now()}
	logger = logger.With(zap.String("run_id", sum.RunID))

	usernames, err := r.Roster.ListActiveUsernames(ctx)
	if err != nil {
		return sum, fmt.Errorf("load roster: %w", err)
	}
	sum.Total = len(usernames)

	run := &models.SyncRun{RunID: sum.RunID, Status: models.RunRunning, Total: sum.Total, Started: sum.Started.UTC().UnixMilli()}
	if r.Runs != nil {
		if _, err := r.Runs.CreateRun(ctx, run); err != nil {
			return sum, fmt.Errorf("record run start: %w", err)
		}
	}

	if len(usernames) == 0 {
		logger.Info(ErrNoProfiles.Error())
		return sum, r.finish(ctx, logger, &sum, run, nil)
	}

	logger.Info("sync started", zap.Int("profiles", len(usernames)))
	for _, username := range usernames {
		if err := r.syncOne(ctx, logger, &sum, username); err != nil {
			return sum, r.finish(ctx, logger, &sum, run, err)
		}
	}

	return sum, r.finish(ctx, logger, &sum, run, nil)
}

func (r *Runner) syncOne(ctx context.Context, logger *zap.Logger, sum *Summary, username string) error {
	start := time.Now()

	var outcome certs.Outcome
	body, err := r.Fetcher.FetchProfile(ctx, username)
	if err != nil {
		outcome = certs.FromFetchError(username, err)
	} else {
		outcome = certs.Extract(ctx, username, body)
	}

	switch o := outcome.(type) {
	case certs.Failure:
		sum.Failed++
		sum.Failures = append(sum.Failures, o)
		logger.Warn("profile skipped", zap.String("username", username), zap.String("reason", o.Reason))
		if r.Out != nil {
			fmt.Fprintln(r.Out, o.Warning())
		}
		r.observe(metrics.ResultFailure, time.Since(start))
		return nil

	case certs.Success:
		// the display name candidate is the username until profiles carry one
		stats, err := r.Reconciler.Reconcile(ctx, username, username, o.Certifications)
		if err != nil {
			r.observe(metrics.ResultFailure, time.Since(start))
			return err
		}
		sum.Succeeded++
		sum.Written += stats.Created + stats.Updated
		logger.Info("profile synced",
			zap.String("username", username),
			zap.Int("seen", o.Seen),
			zap.Int("kept", len(o.Certifications)),
			zap.Int("created", stats.Created),
			zap.Int("updated", stats.Updated))
		r.observe(metrics.ResultSuccess, time.Since(start))
		return nil

	default:
		return fmt.Errorf("unexpected outcome %T for %s", outcome, username)
	}
}

func (r *Runner) observe(result string, elapsed time.Duration) {
	if r.Metrics != nil {
		r.Metrics.ObserveUser(result, elapsed)
	}
}

// finish records the final state of the run and pushes metrics. cause is the
// fatal error that stopped the run, if any, and is returned unchanged.
func (r *Runner) finish(ctx context.Context, logger *zap.Logger, sum *Summary, run *models.SyncRun, cause error) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	sum.Finished = now()
	elapsed := sum.Finished.Sub(sum.Started)

	run.Succeeded, run.Failed = sum.Succeeded, sum.Failed
	run.Status = models.RunCompleted
	if cause != nil {
		run.Status = models.RunFailed
		run.LastError = cause.Error()
	}
	finished := sum.Finished.UTC().UnixMilli()
	run.Finished = &finished

	if r.Runs != nil {
		if err := r.Runs.FinishRun(ctx, run); err != nil {
			logger.Error("record run finish", zap.Error(err))
			if cause == nil {
				cause = fmt.Errorf("record run finish: %w", err)
			}
		}
	}

	if r.Metrics != nil {
		r.Metrics.ObserveRun(cause == nil, sum.Total, sum.Succeeded, sum.Failed, elapsed)
		if err := r.Metrics.Push(ctx); err != nil {
			// metrics are best effort
			logger.Warn("metrics push failed", zap.Error(err))
		}
	}

	if cause != nil {
		logger.Error("sync aborted", zap.Error(cause), zap.Int("succeeded", sum.Succeeded), zap.Int("failed", sum.Failed))
		return cause
	}

	logger.Info("sync finished",
		zap.Int("total", sum.Total),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Duration("elapsed", elapsed))
	return nil
}
