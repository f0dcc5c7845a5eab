package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbfs "github.com/tomasfarkasovsky/trailhead/db"
	"github.com/tomasfarkasovsky/trailhead/internal/certs"
	"github.com/tomasfarkasovsky/trailhead/internal/config"
	dbpkg "github.com/tomasfarkasovsky/trailhead/internal/db"
	"github.com/tomasfarkasovsky/trailhead/internal/reconcile"
	"github.com/tomasfarkasovsky/trailhead/internal/repository/sqldb"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository/mock"
)

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func setup(t *testing.T) (*reconcile.Reconciler, *sqldb.SQLRepo) {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	d, err := dbpkg.New(ctx, config.DriverSQLite, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	_, err = dbpkg.Migrate(ctx, d, dbfs.Migrations)
	require.NoError(t, err)

	repo := sqldb.New(d, nil)
	return reconcile.New(repo, nil, reconcile.WithClock(stepClock())), repo
}

func pdI(expired *string) []certs.Certification {
	return []certs.Certification{{
		Title:         "Platform Developer I",
		DateCompleted: certs.NewDate(2023, time.March, 1),
		DateExpired:   certs.ParseOptionalDate(expired),
	}}
}

func TestReconcile_Lifecycle(t *testing.T) {
	r, repo := setup(t)
	ctx := context.Background()

	// first sync: everything is new
	st, err := r.Reconcile(ctx, "ana", "ana", pdI(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Created)

	u, err := repo.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "ana", *u.Name)

	c, err := repo.GetCertification(ctx, "Platform Developer I", nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Nil(t, c.Product)

	uc, err := repo.GetUserCertification(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2023-03-01", uc.DateCompleted)
	assert.Nil(t, uc.DateExpired)
	firstUpdated := uc.Updated

	// second sync adds an expiry: updated_at advances
	st, err = r.Reconcile(ctx, "ana", "ana", pdI(s("2024-03-01")))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Updated)

	uc, err = repo.GetUserCertification(ctx, u.ID, c.ID)
	require.NoError(t, err)
	require.NotNil(t, uc.DateExpired)
	assert.Equal(t, "2024-03-01", *uc.DateExpired)
	assert.Greater(t, uc.Updated, firstUpdated)
	secondUpdated := uc.Updated

	// third sync with identical data: no uniqueness error, updated_at stays
	st, err = r.Reconcile(ctx, "ana", "ana", pdI(s("2024-03-01")))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Unchanged)

	uc, err = repo.GetUserCertification(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", *uc.DateExpired)
	assert.Equal(t, secondUpdated, uc.Updated)

	// the user row itself is refreshed on every sync
	u2, err := repo.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Greater(t, u2.Updated, u.Updated)
	assert.Equal(t, u.ID, u2.ID)
}

func TestReconcile_NullToNullIsUnchanged(t *testing.T) {
	r, repo := setup(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, "ana", "ana", pdI(nil))
	require.NoError(t, err)
	u, _ := repo.GetUserByUsername(ctx, "ana")
	c, _ := repo.GetCertification(ctx, "Platform Developer I", nil)
	before, _ := repo.GetUserCertification(ctx, u.ID, c.ID)

	_, err = r.Reconcile(ctx, "ana", "ana", pdI(nil))
	require.NoError(t, err)
	after, _ := repo.GetUserCertification(ctx, u.ID, c.ID)
	assert.Equal(t, before.Updated, after.Updated)
}

func TestReconcile_StickyName(t *testing.T) {
	r, repo := setup(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, "ana", "ana", nil)
	require.NoError(t, err)

	u, _ := repo.GetUserByUsername(ctx, "ana")
	name := "Ana Smith"
	u.Name = &name
	require.NoError(t, repo.UpdateUser(ctx, u))

	_, err = r.Reconcile(ctx, "ana", "ana", pdI(nil))
	require.NoError(t, err)

	u, _ = repo.GetUserByUsername(ctx, "ana")
	assert.Equal(t, "Ana Smith", *u.Name)
}

func TestReconcile_EmptyNameIsFilled(t *testing.T) {
	r, repo := setup(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, "bob", "", nil)
	require.NoError(t, err)
	u, _ := repo.GetUserByUsername(ctx, "bob")
	assert.Nil(t, u.Name)

	_, err = r.Reconcile(ctx, "bob", "bob", nil)
	require.NoError(t, err)
	u, _ = repo.GetUserByUsername(ctx, "bob")
	require.NotNil(t, u.Name)
	assert.Equal(t, "bob", *u.Name)
}

func TestReconcile_ProductDistinguishesCertifications(t *testing.T) {
	r, repo := setup(t)
	ctx := context.Background()

	list := []certs.Certification{
		{Title: "Administrator", DateCompleted: certs.NewDate(2022, time.January, 1)},
		{Title: "Administrator", Product: s("Platform"), DateCompleted: certs.NewDate(2022, time.February, 1)},
	}
	st, err := r.Reconcile(ctx, "ana", "ana", list)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Created)

	held, err := repo.ListHeldByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Len(t, held, 2)

	// a second user shares the catalog rows
	st, err = r.Reconcile(ctx, "bob", "bob", list)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Created)

	c, err := repo.GetCertification(ctx, "Administrator", s("Platform"))
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestReconcile_StoreErrorRollsBack(t *testing.T) {
	conn, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	d := dbpkg.FromConn(conn, config.DriverSQLite, nil)
	r := reconcile.New(sqldb.New(d, nil), nil)

	sm.ExpectBegin()
	sm.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name", "created_at", "updated_at"}))
	sm.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(7, 1))
	sm.ExpectQuery("SELECT (.+) FROM certifications").WillReturnError(errors.New("connection lost"))
	sm.ExpectRollback()

	_, err = r.Reconcile(context.Background(), "ana", "ana", pdI(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
	assert.NoError(t, sm.ExpectationsWereMet())
}

func TestReconcile_MockStoreRollback(t *testing.T) {
	store := mock.NewStore()
	store.UpsertUserCertErr = errors.New("disk full")
	r := reconcile.New(store, nil)

	_, err := r.Reconcile(context.Background(), "ana", "ana", pdI(nil))
	require.Error(t, err)
	assert.Equal(t, 1, store.Rollbacks)
	assert.Empty(t, store.Users, "user insert must be rolled back with the failed certification")
}
