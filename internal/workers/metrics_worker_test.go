package workers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukruthimodem/expertiza/internal/githubapi"
	"github.com/sukruthimodem/expertiza/internal/models"
	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/internal/services"
)

type workerFixture struct {
	db         *sql.DB
	jobRepo    *repositories.JobRepository
	teamRepo   *repositories.TeamRepository
	metricRepo *repositories.MetricRepository
	worker     *MetricsWorker
	assignment *models.Assignment
	teams      []*models.Team
}

// newWorkerFixture seeds an assignment with the given number of teams, each
// submitting one pull request link served by a stub GraphQL server.
func newWorkerFixture(t *testing.T, token string, teamCount int) *workerFixture {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	jobRepo := repositories.NewJobRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	metricRepo := repositories.NewMetricRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)

	assignment := models.NewAssignment("CSC 517 Program 2")
	require.NoError(t, assignmentRepo.Create(assignment))

	var teams []*models.Team
	for i := 0; i < teamCount; i++ {
		team := models.NewTeam(assignment.ID, fmt.Sprintf("team-%d", i+1))
		require.NoError(t, teamRepo.Create(team))
		require.NoError(t, teamRepo.AddLink(team.ID, fmt.Sprintf("https://github.com/octo/project/pull/%d", i+1)))
		teams = append(teams, team)
	}

	graphqlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"repository":{"pullRequest":{
			"number":1,"additions":10,"deletions":2,"changedFiles":1,
			"merged":true,"mergeable":"UNKNOWN","headRefOid":"abc123",
			"commits":{"totalCount":1,
				"pageInfo":{"hasNextPage":false,"endCursor":null},
				"edges":[{"node":{"commit":{"author":{"name":"alice","email":"alice@ncsu.edu"},"committedDate":"2024-02-01T10:00:00Z"}}}]}}}}}`)
	}))
	t.Cleanup(graphqlSrv.Close)

	restSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"state":"success","total_count":1,"statuses":[]}`)
	}))
	t.Cleanup(restSrv.Close)

	client := githubapi.NewClient(token, githubapi.ClientOptions{Endpoint: graphqlSrv.URL})
	statusResolver, err := githubapi.NewStatusResolver(token, restSrv.URL)
	require.NoError(t, err)

	identityService := services.NewIdentityService(
		repositories.NewUserRepository(db),
		repositories.NewParticipantRepository(db),
		"ncsu.edu",
	)
	metricsService := services.NewGithubMetricsService(
		token, client, statusResolver, identityService,
		teamRepo, assignmentRepo, metricRepo, nil,
	)

	worker := NewMetricsWorker("metrics-test", jobRepo, teamRepo, metricsService, 2)

	return &workerFixture{
		db:         db,
		jobRepo:    jobRepo,
		teamRepo:   teamRepo,
		metricRepo: metricRepo,
		worker:     worker,
		assignment: assignment,
		teams:      teams,
	}
}

func TestProcessJobFansOutAcrossTeams(t *testing.T) {
	fixture := newWorkerFixture(t, "test-token", 3)

	job := models.NewJob(fixture.assignment.ID, models.JobTypeMetrics)
	require.NoError(t, fixture.worker.ProcessJob(context.Background(), job))

	for _, team := range fixture.teams {
		metrics, err := fixture.metricRepo.GetByTeamID(team.ID)
		require.NoError(t, err)
		require.Len(t, metrics, 1, "team %s should have one metric record", team.Name)
		assert.Equal(t, "alice@ncsu.edu", metrics[0].GithubID)
		assert.Equal(t, 1, metrics[0].TotalCommits)
	}
}

func TestProcessJobSingleTeam(t *testing.T) {
	fixture := newWorkerFixture(t, "test-token", 2)

	job := models.NewJob(fixture.assignment.ID, models.JobTypeMetrics)
	job.TeamID = &fixture.teams[0].ID
	require.NoError(t, fixture.worker.ProcessJob(context.Background(), job))

	metrics, err := fixture.metricRepo.GetByTeamID(fixture.teams[0].ID)
	require.NoError(t, err)
	assert.Len(t, metrics, 1)

	untouched, err := fixture.metricRepo.GetByTeamID(fixture.teams[1].ID)
	require.NoError(t, err)
	assert.Empty(t, untouched)
}

func TestProcessJobWithoutTokenAborts(t *testing.T) {
	fixture := newWorkerFixture(t, "", 2)

	job := models.NewJob(fixture.assignment.ID, models.JobTypeMetrics)
	err := fixture.worker.ProcessJob(context.Background(), job)

	assert.ErrorIs(t, err, models.ErrNoGithubToken)
}

func TestBaseWorkerStop(t *testing.T) {
	worker := NewBaseWorker("metrics-test", models.JobTypeMetrics)
	worker.Running = true

	require.NoError(t, worker.Stop())
	assert.False(t, worker.IsRunning())

	// stopping twice must not panic on the closed channel
	require.NoError(t, worker.Stop())
}
