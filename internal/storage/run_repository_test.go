package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labscope/internal/models"
	"labscope/pkg/database"
)

func newTestRepository(t *testing.T) *RunRepository {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunRepository(db)
}

func sampleRun(startedAt time.Time) *models.AnalysisRun {
	run := models.NewAnalysisRun("2024-01-01", "2024-03-01")
	run.StartedAt = startedAt
	run.FinishedAt = startedAt.Add(2 * time.Minute)
	run.RepoCount = 4
	run.AuthorCount = 7
	run.TotalAdded = 1500
	run.TotalRemoved = 300
	run.TotalCommits = 120
	run.ReportDir = "/tmp/reports/analysis_20240301_120000"
	return run
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	run := sampleRun(time.Now())

	require.NoError(t, repo.Create(run))

	got, err := repo.GetByID(run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "2024-01-01", got.SinceDate)
	assert.Equal(t, 7, got.AuthorCount)
	assert.Equal(t, 1500, got.TotalAdded)
	assert.Equal(t, run.ReportDir, got.ReportDir)
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.GetByID("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Now().Add(-time.Hour)

	older := sampleRun(base)
	newer := sampleRun(base.Add(30 * time.Minute))
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	runs, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestRunRepository_ListHonorsLimit(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(sampleRun(base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := repo.List(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
