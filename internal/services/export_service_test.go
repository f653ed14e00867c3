package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukruthimodem/expertiza/internal/models"
	"github.com/sukruthimodem/expertiza/internal/repositories"
)

func TestExportAssignmentMetrics(t *testing.T) {
	db := newTestDB(t)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	metricRepo := repositories.NewMetricRepository(db)

	assignment := models.NewAssignment("CSC 517 Program 2")
	require.NoError(t, assignmentRepo.Create(assignment))

	team := models.NewTeam(assignment.ID, "team-a")
	require.NoError(t, teamRepo.Create(team))

	require.NoError(t, metricRepo.Upsert(models.NewMetric(team.ID, "alice@ncsu.edu", 3)))
	require.NoError(t, metricRepo.Upsert(models.NewMetric(team.ID, "bob@ncsu.edu", 1)))

	service := NewExportService(assignmentRepo, teamRepo, metricRepo)
	file, err := service.ExportAssignmentMetrics(assignment.ID)
	require.NoError(t, err)

	rows, err := file.GetRows("Metrics")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Assignment", "Team", "GitHub Identity", "Participant ID", "Total Commits", "Last Updated"}, rows[0])
	// metrics order within a team is by commit total, descending
	assert.Equal(t, "alice@ncsu.edu", rows[1][2])
	assert.Equal(t, "3", rows[1][4])
	assert.Equal(t, "team-a", rows[1][1])
	assert.Equal(t, "bob@ncsu.edu", rows[2][2])
}

func TestExportAssignmentMetricsUnknownAssignment(t *testing.T) {
	db := newTestDB(t)
	service := NewExportService(
		repositories.NewAssignmentRepository(db),
		repositories.NewTeamRepository(db),
		repositories.NewMetricRepository(db),
	)

	file, err := service.ExportAssignmentMetrics("no-such-assignment")

	assert.Nil(t, file)
	assert.Error(t, err)
}
