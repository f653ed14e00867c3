package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukruthimodem/expertiza/internal/models"
)

func TestGetNextPendingJobClaimsOldest(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)

	older := models.NewJob("assignment-1", models.JobTypeMetrics)
	older.CreatedAt = older.CreatedAt.Add(-time.Minute)
	newer := models.NewJob("assignment-2", models.JobTypeMetrics)
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	claimed, err := repo.GetNextPendingJob(models.JobTypeMetrics)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, older.ID, claimed.ID)
	assert.Equal(t, models.JobStatusInProgress, claimed.Status)

	// the claimed job is no longer visible as pending
	next, err := repo.GetNextPendingJob(models.JobTypeMetrics)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, newer.ID, next.ID)

	empty, err := repo.GetNextPendingJob(models.JobTypeMetrics)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestJobLifecycleUpdates(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)

	job := models.NewJob("assignment-1", models.JobTypeMetrics)
	require.NoError(t, repo.Create(job))

	job.MarkStarted()
	require.NoError(t, repo.Update(job))

	job.MarkFailed()
	job.SetError("github access token is not configured")
	require.NoError(t, repo.Update(job))

	loaded, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, loaded.Status)
	require.NotNil(t, loaded.ErrorMessage)
	assert.Equal(t, "github access token is not configured", *loaded.ErrorMessage)
	assert.NotNil(t, loaded.StartedAt)
	assert.NotNil(t, loaded.CompletedAt)
}
