package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/analytics/service"
	"rollcall/internal/ledger/models"
	"rollcall/internal/ledger/store"
	"rollcall/pkg/testutil"
)

func openLedger(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "ledger.db")+"?_foreign_keys=on&_txlock=immediate")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ledger := store.New(db, store.SQLite{}, store.WithLocation(time.UTC))
	require.NoError(t, ledger.Migrate(context.Background()))
	return ledger
}

func register(t *testing.T, ledger *store.Store, key string, courses ...string) int64 {
	t.Helper()
	id, err := ledger.RegisterPerson(context.Background(), models.NewPerson{
		FirstName:   "Student",
		LastName:    key,
		IdentityKey: key,
		Level:       "100",
		CourseNames: courses,
		Embedding:   make([]float64, 128),
	}, time.Now())
	require.NoError(t, err)
	return id
}

func TestAnalyticsOverLedger(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC) }

	testutil.Given(t, "two students in CS101 over four session days", func(t *testing.T) {
		ledger := openLedger(t)
		ada := register(t, ledger, "M101", "CS101")
		bo := register(t, ledger, "M102", "CS101", "MTH201")
		cs101, err := ledger.FindCourseByName(ctx, "CS101")
		require.NoError(t, err)

		for d := 1; d <= 4; d++ {
			_, err := ledger.RecordEvent(ctx, ada, cs101.ID, day(d))
			require.NoError(t, err)
		}
		_, err = ledger.RecordEvent(ctx, bo, cs101.ID, day(1))
		require.NoError(t, err)

		svc := service.New(ledger)

		testutil.When(t, "computing course tiers", func(t *testing.T) {
			tiers, err := svc.CourseTiers(ctx, cs101.ID)
			require.NoError(t, err)

			testutil.Then(t, "each student lands in their bucket", func(t *testing.T) {
				assert.Equal(t, 4, tiers.TotalSessions)
				require.Len(t, tiers.AttendanceTiers[service.Tier100], 1)
				assert.Equal(t, "M101", tiers.AttendanceTiers[service.Tier100][0].MatricNumber)
				require.Len(t, tiers.AttendanceTiers[service.Tier25], 1)
				assert.Equal(t, "M102", tiers.AttendanceTiers[service.Tier25][0].MatricNumber)
			})
		})

		testutil.When(t, "summarizing the department", func(t *testing.T) {
			summary, err := svc.DepartmentSummary(ctx)
			require.NoError(t, err)

			testutil.Then(t, "totals count courses persons and events", func(t *testing.T) {
				assert.Equal(t, service.SummaryTotals{TotalCourses: 2, TotalStudents: 2, TotalAttendanceRecords: 5}, summary.Summary)
				assert.Len(t, summary.CourseStats, 2)
				assert.Len(t, summary.StudentStats, 2)
			})
		})

		testutil.When(t, "listing low attendance", func(t *testing.T) {
			low, err := svc.LowAttendance(ctx)
			require.NoError(t, err)

			testutil.Then(t, "only the student at 25 percent is flagged", func(t *testing.T) {
				require.Len(t, low, 1)
				assert.Equal(t, "M102", low[0].MatricNumber)
				assert.Equal(t, 4, low[0].PossibleSessions)
				assert.Equal(t, 25.0, low[0].Percentage)
			})
		})
	})
}
