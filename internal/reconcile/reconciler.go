package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/certs"
	"github.com/tomasfarkasovsky/trailhead/internal/logging"
	"github.com/tomasfarkasovsky/trailhead/pkg/models"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

// Stats summarizes what one Reconcile call wrote.
type Stats struct {
	UserID         int64
	Certifications int
	// Created, Updated and Unchanged count user certification rows.
	Created   int
	Updated   int
	Unchanged int
}

// Reconciler writes a user's extracted certifications to the store.
type Reconciler struct {
	store  repository.Transactor
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Reconciler)

// WithClock replaces time.Now for timestamping rows.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func New(store repository.Transactor, logger *zap.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{store: store, logger: logging.OrNop(logger), now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Reconcile upserts the user and every certification inside a single
// transaction. Any store error rolls the whole user back and is returned.
func (r *Reconciler) Reconcile(ctx context.Context, username, name string, list []certs.Certification) (Stats, error) {
	ts := r.now().UTC().UnixMilli()
	var stats Stats

	err := r.store.WithTx(ctx, func(s repository.CertStore) error {
		stats = Stats{}

		var candidate *string
		if name != "" {
			candidate = &name
		}
		userID, err := UpsertUser(ctx, s, username, candidate, ts)
		if err != nil {
			return err
		}
		stats.UserID = userID

		for _, c := range list {
			certID, err := UpsertCertification(ctx, s, c.Title, c.Product, ts)
			if err != nil {
				return err
			}

			change, err := UpsertUserCertification(ctx, s, userID, certID, c.DateCompleted, c.DateExpired, ts)
			if err != nil {
				return err
			}
			stats.Certifications++
			switch change {
			case Created:
				stats.Created++
			case Updated:
				stats.Updated++
			default:
				stats.Unchanged++
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("reconcile %s: %w", username, err)
	}

	r.logger.Debug("user reconciled",
		zap.String("username", username),
		zap.Int64("user_id", stats.UserID),
		zap.Int("certifications", stats.Certifications),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("unchanged", stats.Unchanged))

	return stats, nil
}

// Change is what an upsert did to an existing or new row.
type Change int

const (
	Unchanged Change = iota
	Created
	Updated
)

// UpsertUser inserts the user or merges name into the stored row.
func UpsertUser(ctx context.Context, s repository.UserRepo, username string, name *string, ts int64) (int64, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return s.CreateUser(ctx, &models.User{Username: username, Name: name, Created: ts, Updated: ts})
	}

	merged, touch := UserRule.Merge(Values{"name": u.Name}, Values{"name": name})
	u.Name = merged["name"]
	if touch {
		u.Updated = ts
	}
	if err := s.UpdateUser(ctx, u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// UpsertCertification inserts the certification keyed by (title, product)
// or refreshes the stored row.
func UpsertCertification(ctx context.Context, s repository.CertificationRepo, title string, product *string, ts int64) (int64, error) {
	c, err := s.GetCertification(ctx, title, product)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return s.CreateCertification(ctx, &models.Certification{Title: title, Product: product, Created: ts, Updated: ts})
	}

	merged, touch := CertificationRule.Merge(
		Values{"title": ptr(c.Title), "product": c.Product},
		Values{"title": ptr(title), "product": product})
	c.Title = deref(merged["title"])
	c.Product = merged["product"]
	if touch {
		c.Updated = ts
	}
	if err := s.UpdateCertification(ctx, c); err != nil {
		return 0, err
	}
	return c.ID, nil
}

// UpsertUserCertification links the user to the certification. updated_at
// on an existing link only moves when date_expired changes.
func UpsertUserCertification(ctx context.Context, s repository.UserCertificationRepo, userID, certID int64, completed certs.Date, expired *certs.Date, ts int64) (Change, error) {
	uc, err := s.GetUserCertification(ctx, userID, certID)
	if err != nil {
		return Unchanged, err
	}

	incoming := Values{"date_completed": ptr(completed.String()), "date_expired": certs.StringPtr(expired)}
	if uc == nil {
		_, err := s.CreateUserCertification(ctx, &models.UserCertification{
			UserID:        userID,
			CertID:        certID,
			DateCompleted: *incoming["date_completed"],
			DateExpired:   incoming["date_expired"],
			Created:       ts,
			Updated:       ts,
		})
		if err != nil {
			return Unchanged, err
		}
		return Created, nil
	}

	stored := Values{"date_completed": ptr(uc.DateCompleted), "date_expired": uc.DateExpired}
	merged, touch := UserCertificationRule.Merge(stored, incoming)
	if !touch && UserCertificationRule.Same(stored, merged) {
		return Unchanged, nil
	}

	uc.DateCompleted = deref(merged["date_completed"])
	uc.DateExpired = merged["date_expired"]
	change := Unchanged
	if touch {
		uc.Updated = ts
		change = Updated
	}
	if err := s.UpdateUserCertification(ctx, uc); err != nil {
		return Unchanged, err
	}
	return change, nil
}
