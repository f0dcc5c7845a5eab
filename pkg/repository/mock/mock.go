package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

// Store is an in-memory implementation of the repository interfaces for tests.
// Set the *Err fields to make the matching operation fail.
type Store struct {
	mu sync.Mutex

	Users     map[int64]*models.User
	Certs     map[int64]*models.Certification
	UserCerts map[int64]*models.UserCertification
	Profiles  []models.Profile
	Runs      map[string]*models.SyncRun
	Stats     []models.UserStats

	nextID int64

	CreateUserErr     error
	CreateCertErr     error
	UpsertUserCertErr error
	ListRosterErr     error
	CreateRunErr      error
	StatsErr          error

	// Commits and Rollbacks count WithTx outcomes.
	Commits   int
	Rollbacks int
}

var _ repository.CertStore = (*Store)(nil)
var _ repository.Transactor = (*Store)(nil)
var _ repository.RosterRepo = (*Store)(nil)
var _ repository.RunRepo = (*Store)(nil)
var _ repository.StatsRepo = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		Users:     map[int64]*models.User{},
		Certs:     map[int64]*models.Certification{},
		UserCerts: map[int64]*models.UserCertification{},
		Runs:      map[string]*models.SyncRun{},
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

// WithTx snapshots the entity maps and restores them when fn fails.
func (m *Store) WithTx(ctx context.Context, fn func(repository.CertStore) error) error {
	m.mu.Lock()
	users, certs, ucs, next := cloneMap(m.Users), cloneMap(m.Certs), cloneMap(m.UserCerts), m.nextID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.Users, m.Certs, m.UserCerts, m.nextID = users, certs, ucs, next
		m.Rollbacks++
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.Commits++
	m.mu.Unlock()
	return nil
}

func cloneMap[T any](in map[int64]*T) map[int64]*T {
	out := make(map[int64]*T, len(in))
	for k, v := range in {
		c := *v
		out[k] = &c
	}
	return out
}

func (m *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateUserErr != nil {
		return 0, m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Username == u.Username {
			return 0, fmt.Errorf("duplicate username %q", u.Username)
		}
	}
	u.ID = m.id()
	c := *u
	m.Users[u.ID] = &c
	return u.ID, nil
}

func (m *Store) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.Users[u.ID] = &c
	return nil
}

func sameProduct(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *Store) GetCertification(ctx context.Context, title string, product *string) (*models.Certification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Certs {
		if c.Title == title && sameProduct(c.Product, product) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Store) CreateCertification(ctx context.Context, c *models.Certification) (int64, error) {
	if m.CreateCertErr != nil {
		return 0, m.CreateCertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	cp := *c
	m.Certs[c.ID] = &cp
	return c.ID, nil
}

func (m *Store) UpdateCertification(ctx context.Context, c *models.Certification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.Certs[c.ID] = &cp
	return nil
}

func (m *Store) GetUserCertification(ctx context.Context, userID, certID int64) (*models.UserCertification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uc := range m.UserCerts {
		if uc.UserID == userID && uc.CertID == certID {
			c := *uc
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Store) CreateUserCertification(ctx context.Context, uc *models.UserCertification) (int64, error) {
	if m.UpsertUserCertErr != nil {
		return 0, m.UpsertUserCertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	uc.ID = m.id()
	c := *uc
	m.UserCerts[uc.ID] = &c
	return uc.ID, nil
}

func (m *Store) UpdateUserCertification(ctx context.Context, uc *models.UserCertification) error {
	if m.UpsertUserCertErr != nil {
		return m.UpsertUserCertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *uc
	m.UserCerts[uc.ID] = &c
	return nil
}

func (m *Store) ListHeldByUsername(ctx context.Context, username string) ([]models.HeldCertification, error) {
	u, _ := m.GetUserByUsername(ctx, username)
	if u == nil {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HeldCertification
	for _, uc := range m.UserCerts {
		if uc.UserID != u.ID {
			continue
		}
		c := m.Certs[uc.CertID]
		out = append(out, models.HeldCertification{Title: c.Title, Product: c.Product, DateCompleted: uc.DateCompleted, DateExpired: uc.DateExpired, Updated: uc.Updated})
	}
	return out, nil
}

func (m *Store) ListActiveUsernames(ctx context.Context) ([]string, error) {
	if m.ListRosterErr != nil {
		return nil, m.ListRosterErr
	}
	var out []string
	for _, p := range m.Profiles {
		if p.Active {
			out = append(out, p.Username)
		}
	}
	return out, nil
}

func (m *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return append([]models.Profile(nil), m.Profiles...), nil
}

func (m *Store) AddProfile(ctx context.Context, username string) (int64, error) {
	for i := range m.Profiles {
		if m.Profiles[i].Username == username {
			m.Profiles[i].Active = true
			return m.Profiles[i].ID, nil
		}
	}
	p := models.Profile{ID: int64(len(m.Profiles) + 1), Username: username, Active: true}
	m.Profiles = append(m.Profiles, p)
	return p.ID, nil
}

func (m *Store) SetProfileActive(ctx context.Context, username string, active bool) error {
	for i := range m.Profiles {
		if m.Profiles[i].Username == username {
			m.Profiles[i].Active = active
			return nil
		}
	}
	return fmt.Errorf("profile %q not found", username)
}

func (m *Store) CreateRun(ctx context.Context, r *models.SyncRun) (int64, error) {
	if m.CreateRunErr != nil {
		return 0, m.CreateRunErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.Runs) + 1)
	c := *r
	m.Runs[r.RunID] = &c
	return r.ID, nil
}

func (m *Store) FinishRun(ctx context.Context, r *models.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *r
	m.Runs[r.RunID] = &c
	return nil
}

func (m *Store) GetRun(ctx context.Context, runID string) (*models.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.Runs[runID]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (m *Store) ListUserStats(ctx context.Context) ([]models.UserStats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	return m.Stats, nil
}
