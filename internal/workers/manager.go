package workers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/internal/services"
	"github.com/sukruthimodem/expertiza/pkg/logger"
)

// WorkerManager manages the pool of background workers
type WorkerManager struct {
	workers         []Worker
	jobRepo         *repositories.JobRepository
	teamRepo        *repositories.TeamRepository
	metricsService  *services.GithubMetricsService
	teamParallelism int
	wg              sync.WaitGroup
	ctx             context.Context
	cancel          context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(
	jobRepo *repositories.JobRepository,
	teamRepo *repositories.TeamRepository,
	metricsService *services.GithubMetricsService,
	teamParallelism int,
) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:         make([]Worker, 0),
		jobRepo:         jobRepo,
		teamRepo:        teamRepo,
		metricsService:  metricsService,
		teamParallelism: teamParallelism,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// StartAll starts all workers based on environment configuration
func (wm *WorkerManager) StartAll() error {
	metricsWorkers := wm.getWorkerCount("METRICS_WORKERS", 2)

	logger.Infof("Starting workers - Metrics: %d", metricsWorkers)

	for i := 0; i < metricsWorkers; i++ {
		worker := NewMetricsWorker(
			fmt.Sprintf("metrics-%d", i+1),
			wm.jobRepo,
			wm.teamRepo,
			wm.metricsService,
			wm.teamParallelism,
		)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	logger.Infof("Started %d total workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Info("Stopping all workers...")

	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.Errorf("Error stopping worker %s: %v", worker.GetWorkerID(), err)
		}
	}

	wm.wg.Wait()

	logger.Info("All workers stopped")
	return nil
}

// getWorkerCount reads worker count from environment variable with fallback
func (wm *WorkerManager) getWorkerCount(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if count, err := strconv.Atoi(value); err == nil && count > 0 {
			return count
		}
		logger.Warnf("Invalid value for %s, using default: %d", envVar, defaultValue)
	}
	return defaultValue
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil {
			logger.Errorf("Worker %s stopped with error: %v", worker.GetWorkerID(), err)
		}
	}()
}
