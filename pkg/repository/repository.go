package repository

import (
	"context"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Lookups return nil, nil when no row matches.

type UserRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

// CertificationRepo looks certifications up by (title, product) where a nil
// product is a distinct key value.
type CertificationRepo interface {
	GetCertification(ctx context.Context, title string, product *string) (*models.Certification, error)
	CreateCertification(ctx context.Context, c *models.Certification) (int64, error)
	UpdateCertification(ctx context.Context, c *models.Certification) error
}

type UserCertificationRepo interface {
	GetUserCertification(ctx context.Context, userID, certID int64) (*models.UserCertification, error)
	CreateUserCertification(ctx context.Context, uc *models.UserCertification) (int64, error)
	UpdateUserCertification(ctx context.Context, uc *models.UserCertification) error
	ListHeldByUsername(ctx context.Context, username string) ([]models.HeldCertification, error)
}

// CertStore groups the repositories the reconciler writes through.
type CertStore interface {
	UserRepo
	CertificationRepo
	UserCertificationRepo
}

// Transactor runs fn against a CertStore bound to a single transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(CertStore) error) error
}

type RosterRepo interface {
	ListActiveUsernames(ctx context.Context) ([]string, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	AddProfile(ctx context.Context, username string) (int64, error)
	SetProfileActive(ctx context.Context, username string, active bool) error
}

type RunRepo interface {
	CreateRun(ctx context.Context, r *models.SyncRun) (int64, error)
	FinishRun(ctx context.Context, r *models.SyncRun) error
	GetRun(ctx context.Context, runID string) (*models.SyncRun, error)
}

type StatsRepo interface {
	ListUserStats(ctx context.Context) ([]models.UserStats, error)
}
