package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/identity/index"
	"rollcall/internal/identity/resolver"
	"rollcall/internal/ledger/store"
	"rollcall/internal/registration/service"
	dErrors "rollcall/pkg/domain-errors"
)

type harness struct {
	dir     string
	db      *sql.DB
	ledger  *store.Store
	index   *index.Index
	service *service.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(dir, "ledger.db")+"?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ledger := store.New(db, store.SQLite{}, store.WithLocation(time.UTC))
	require.NoError(t, ledger.Migrate(context.Background()))
	ix := index.New(filepath.Join(dir, "index"), nil)
	return &harness{dir: dir, db: db, ledger: ledger, index: ix, service: service.New(ledger, ix)}
}

func TestRegisteredIdentityResolvesImmediately(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.service.Register(ctx, person("M101"))
	require.NoError(t, err)
	assert.True(t, reg.Indexed)

	res, err := resolver.New(h.index).Resolve(ctx, vec(0))
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "M101", res.IdentityKey)
	assert.Equal(t, 0.0, res.Distance)

	_, err = h.service.Register(ctx, person("M101"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateIdentity))
	assert.Equal(t, 1, h.index.Len(), "a rejected registration leaves the index alone")
}

func TestRegistrationSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	_, err := h.service.Register(context.Background(), person("M101"))
	require.NoError(t, err)

	reloaded := index.New(filepath.Join(h.dir, "index"), nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"M101"}, reloaded.Keys())
}

func TestReconcileRepairsMissingAndOrphans(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// M101 committed to the ledger but its index insert never happened.
	_, err := h.ledger.RegisterPerson(ctx, person("M101"), time.Now())
	require.NoError(t, err)
	second := person("M102")
	second.Embedding = vec(1)
	_, err = h.service.Register(ctx, second)
	require.NoError(t, err)
	// An index entry with no ledger row, and a duplicate.
	require.NoError(t, h.index.Insert("ghost", vec(2)))
	require.NoError(t, h.index.Insert("M102", vec(1)))

	report, err := h.service.Reconcile(ctx)
	require.NoError(t, err)

	assert.Equal(t, &service.ReconcileReport{
		LedgerIdentities: 2,
		IndexBefore:      3,
		IndexAfter:       2,
		MissingAdded:     1,
		OrphansRemoved:   2,
	}, report)
	assert.Equal(t, []string{"M101", "M102"}, h.index.Keys(), "rebuilt in registration order")

	res, err := resolver.New(h.index).Resolve(ctx, vec(0))
	require.NoError(t, err)
	assert.Equal(t, "M101", res.IdentityKey)

	reloaded := index.New(filepath.Join(h.dir, "index"), nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Len(), "reconcile persists the rebuilt index")
}

func TestReconcileSkipsUnusableLedgerVectors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.service.Register(ctx, person("M101"))
	require.NoError(t, err)
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO persons (first_name, last_name, identity_key, level, embedding, created_at)
		 VALUES ('Bad', 'Row', 'M999', '100', '[1,2,3]', ?)`, time.Now().UTC())
	require.NoError(t, err)

	report, err := h.service.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.IndexAfter)
}

func TestReconcileIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.service.Register(ctx, person("M101"))
	require.NoError(t, err)

	report, err := h.service.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.MissingAdded)
	assert.Zero(t, report.OrphansRemoved)
	assert.Equal(t, report.IndexBefore, report.IndexAfter)
}
