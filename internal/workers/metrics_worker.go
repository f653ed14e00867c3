package workers

import (
	"context"
	"errors"
	"time"

	"github.com/sukruthimodem/expertiza/internal/models"
	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/internal/services"
	"github.com/sukruthimodem/expertiza/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// MetricsWorker processes github aggregation jobs. An assignment-level job
// fans out across the assignment's teams with bounded parallelism; each
// team run owns its own accumulation state, so teams never share mutable
// state.
type MetricsWorker struct {
	*BaseWorker
	jobRepo         *repositories.JobRepository
	teamRepo        *repositories.TeamRepository
	metricsService  *services.GithubMetricsService
	teamParallelism int
}

// NewMetricsWorker creates a new MetricsWorker
func NewMetricsWorker(
	workerID string,
	jobRepo *repositories.JobRepository,
	teamRepo *repositories.TeamRepository,
	metricsService *services.GithubMetricsService,
	teamParallelism int,
) *MetricsWorker {
	if teamParallelism <= 0 {
		teamParallelism = 1
	}
	return &MetricsWorker{
		BaseWorker:      NewBaseWorker(workerID, models.JobTypeMetrics),
		jobRepo:         jobRepo,
		teamRepo:        teamRepo,
		metricsService:  metricsService,
		teamParallelism: teamParallelism,
	}
}

// Start begins the metrics worker process
func (w *MetricsWorker) Start(ctx context.Context) error {
	w.Running = true
	logger.Infof("Metrics worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			logger.Infof("Metrics worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			logger.Infof("Metrics worker %s stopping", w.WorkerID)
			return nil
		default:
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeMetrics)
			if err != nil {
				logger.Errorf("Metrics worker %s error getting job: %v", w.WorkerID, err)
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				time.Sleep(10 * time.Second)
				continue
			}

			w.processJob(ctx, job)
		}
	}
}

func (w *MetricsWorker) processJob(ctx context.Context, job *models.Job) {
	logger.Infof("Metrics worker %s processing job %s", w.WorkerID, job.ID)

	job.MarkStarted()
	if err := w.jobRepo.Update(job); err != nil {
		logger.Errorf("Metrics worker %s error updating job %s: %v", w.WorkerID, job.ID, err)
		return
	}

	if err := w.ProcessJob(ctx, job); err != nil {
		logger.Errorf("Metrics worker %s error processing job %s: %v", w.WorkerID, job.ID, err)
		job.SetError(err.Error())
		job.MarkFailed()
		if err := w.jobRepo.Update(job); err != nil {
			logger.Errorf("Metrics worker %s error marking job %s as failed: %v", w.WorkerID, job.ID, err)
		}
		return
	}

	job.MarkCompleted()
	if err := w.jobRepo.Update(job); err != nil {
		logger.Errorf("Metrics worker %s error marking job %s as completed: %v", w.WorkerID, job.ID, err)
		return
	}

	logger.Infof("Metrics worker %s completed job %s", w.WorkerID, job.ID)
}

// ProcessJob aggregates one team when the job names one, or every team of
// the assignment otherwise. A single team's failure never aborts its
// siblings; only a missing credential stops the whole job, since no team
// can succeed without it.
func (w *MetricsWorker) ProcessJob(ctx context.Context, job *models.Job) error {
	if job.TeamID != nil {
		_, err := w.metricsService.AggregateTeam(ctx, *job.TeamID)
		return err
	}

	teams, err := w.teamRepo.GetByAssignmentID(job.AssignmentID)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.teamParallelism)

	for _, team := range teams {
		team := team
		g.Go(func() error {
			if _, err := w.metricsService.AggregateTeam(ctx, team.ID); err != nil {
				if errors.Is(err, models.ErrNoGithubToken) {
					return err
				}
				logger.WithError(err).WithField("team_id", team.ID).Error("Team aggregation failed")
			}
			return nil
		})
	}

	return g.Wait()
}
