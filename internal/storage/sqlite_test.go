package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairbench/berq/internal/metrics"
	"github.com/fairbench/berq/internal/resample"
)

func setupTestStore(t *testing.T) *Store {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewStoreWithDB(db, logrus.New())
	require.NoError(t, err)
	return store
}

func testReport() *resample.Report {
	return &resample.Report{
		RunID:            uuid.NewString(),
		NumeratorGroup:   "Female",
		DenominatorGroup: "Male",
		PointEstimate:    1.42,
		LowerCI:          1.1,
		UpperCI:          1.8,
		Confidence:       0.95,
		Resamples:        1000,
		Seed:             10678,
		ZeroFloorCount:   0,
		Bias:             metrics.BiasAgainstNumerator,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveReportRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	report := testReport()
	require.NoError(t, store.SaveReport(ctx, report, "in_gender.csv"))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, report.RunID, run.ID)
	assert.Equal(t, "in_gender.csv", run.InputPath)
	assert.Equal(t, "Female", run.NumeratorGroup)
	assert.Equal(t, "Male", run.DenominatorGroup)
	assert.Equal(t, 1.42, run.PointEstimate)
	assert.Equal(t, 1.1, run.LowerCI)
	assert.Equal(t, 1.8, run.UpperCI)
	assert.Equal(t, 1000, run.Resamples)
	assert.Equal(t, int64(10678), run.Seed)
	assert.Equal(t, metrics.BiasAgainstNumerator.String(), run.Bias)
}

func TestSaveReport_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	report := testReport()
	require.NoError(t, store.SaveReport(ctx, report, ""))
	err := store.SaveReport(ctx, report, "")
	assert.Error(t, err, "run ids are primary keys")
}

func TestListRuns_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	older := testReport()
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testReport()

	require.NoError(t, store.SaveReport(ctx, older, ""))
	require.NoError(t, store.SaveReport(ctx, newer, ""))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.RunID, runs[0].ID)
	assert.Equal(t, older.RunID, runs[1].ID)
}

func TestListRuns_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		report := testReport()
		report.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveReport(ctx, report, ""))
	}

	runs, err := store.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestListRuns_Empty(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
