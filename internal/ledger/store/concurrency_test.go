package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/ledger/store"
	"rollcall/internal/platform/database"
	"rollcall/pkg/platform/sentinel"
)

// Several handles on one ledger file, each with an unbounded pool, stand in
// for several server processes. Only the storage constraint decides the
// winner here; no connection limit serializes the writers.
func TestRecordEventSingleWinnerAcrossPools(t *testing.T) {
	ctx := context.Background()
	dsn := database.SQLiteDSN(filepath.Join(t.TempDir(), "ledger.db"))
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	const handles = 4
	stores := make([]*store.Store, handles)
	for i := range stores {
		db, err := sql.Open("sqlite3", dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		stores[i] = store.New(db, store.SQLite{}, store.WithLocation(time.UTC))
	}
	require.NoError(t, stores[0].Migrate(ctx))

	personID, err := stores[0].RegisterPerson(ctx, newPerson("M101", "CS101"), now)
	require.NoError(t, err)
	course, err := stores[0].FindCourseByName(ctx, "CS101")
	require.NoError(t, err)

	const writers = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		dupes     atomic.Int32
		other     atomic.Int32
	)
	for i := range writers {
		wg.Add(1)
		go func(s *store.Store) {
			defer wg.Done()
			_, err := s.RecordEvent(ctx, personID, course.ID, now)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				dupes.Add(1)
			default:
				other.Add(1)
				t.Logf("unexpected error: %v", err)
			}
		}(stores[i%handles])
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(writers-1), dupes.Load())
	assert.Zero(t, other.Load())
}
