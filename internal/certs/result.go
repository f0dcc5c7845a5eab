package certs

import (
	"errors"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/pkg/trailhead"
)

// ReasonNoProfile is reported for private, unknown or opted-out usernames.
const ReasonNoProfile = "no public profile found"

// Certification is one normalized entry of a profile's credential list.
type Certification struct {
	Title         string  `json:"title"`
	Product       *string `json:"product,omitempty"`
	DateCompleted Date    `json:"date_completed"`
	DateExpired   *Date   `json:"date_expired,omitempty"`
}

// Outcome is the result of fetching and extracting one username. It is
// either a Success or a Failure.
type Outcome interface {
	User() string
	isOutcome()
}

type Success struct {
	Username       string
	Certifications []Certification
	// Seen counts raw entries before filtering.
	Seen int
}

type Failure struct {
	Username string
	Reason   string
}

func (s Success) User() string { return s.Username }
func (Success) isOutcome()     {}

func (f Failure) User() string { return f.Username }
func (Failure) isOutcome()     {}

// Warning renders the per-user line printed for a failed username.
func (f Failure) Warning() string {
	return fmt.Sprintf("⚠️ %s: %s", f.Username, f.Reason)
}

// FromFetchError folds a fetch error into a Failure.
func FromFetchError(username string, err error) Failure {
	var fe *trailhead.FetchError
	if errors.As(err, &fe) {
		return Failure{Username: username, Reason: fe.Reason}
	}
	return Failure{Username: username, Reason: "request failed: " + err.Error()}
}
