package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomasfarkasovsky/trailhead/internal/certs"
	"github.com/tomasfarkasovsky/trailhead/internal/reconcile"
)

// Fetcher returns the raw profile response for a username.
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) ([]byte, error)
}

// Reconciler persists one user's certifications.
type Reconciler interface {
	Reconcile(ctx context.Context, username, name string, list []certs.Certification) (reconcile.Stats, error)
}

// Metrics receives per-user and per-run observations.
type Metrics interface {
	ObserveUser(result string, elapsed time.Duration)
	ObserveRun(completed bool, total, succeeded, failed int, elapsed time.Duration)
	Push(ctx context.Context) error
}

// ErrNoProfiles is reported in the summary when the roster is empty.
var ErrNoProfiles = errors.New("no active profiles found")

// Summary is the outcome of one batch run.
type Summary struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Total     int
	Succeeded int
	Failed    int
	Failures  []certs.Failure
	// Written counts user certification rows created or updated.
	Written int
}

// Lines renders the end of run report: one success line followed by a
// warning line per failed username.
func (s Summary) Lines() []string {
	if s.Total == 0 {
		return []string{ErrNoProfiles.Error()}
	}
	lines := []string{fmt.Sprintf("✅ synced %d of %d users (%d errors)", s.Succeeded, s.Total, s.Failed)}
	for _, f := range s.Failures {
		lines = append(lines, f.Warning())
	}
	return lines
}
