package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sukruthimodem/expertiza/internal/models"
	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/internal/services"
	"github.com/sukruthimodem/expertiza/pkg/logger"
)

// MetricsHandler exposes the aggregation engine over HTTP
type MetricsHandler struct {
	jobRepo        *repositories.JobRepository
	metricRepo     *repositories.MetricRepository
	metricsService *services.GithubMetricsService
	exportService  *services.ExportService
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(
	jobRepo *repositories.JobRepository,
	metricRepo *repositories.MetricRepository,
	metricsService *services.GithubMetricsService,
	exportService *services.ExportService,
) *MetricsHandler {
	return &MetricsHandler{
		jobRepo:        jobRepo,
		metricRepo:     metricRepo,
		metricsService: metricsService,
		exportService:  exportService,
	}
}

// QueryAssignmentStatistics enqueues an aggregation job covering every team
// of the assignment. The job is processed by the metrics workers.
func (h *MetricsHandler) QueryAssignmentStatistics(c *gin.Context) {
	assignmentID := c.Param("id")

	job := models.NewJob(assignmentID, models.JobTypeMetrics)
	if err := h.jobRepo.Create(job); err != nil {
		logger.WithError(err).Error("Failed to create metrics job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

// AggregateTeam runs a synchronous aggregation for one team and returns the
// full report. A missing GitHub credential is a precondition failure, not
// an aggregation error: the caller must supply a token and retry.
func (h *MetricsHandler) AggregateTeam(c *gin.Context) {
	teamID := c.Param("id")

	report, err := h.metricsService.AggregateTeam(c.Request.Context(), teamID)
	if err != nil {
		if errors.Is(err, models.ErrNoGithubToken) {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
			return
		}
		logger.WithError(err).WithField("team_id", teamID).Error("Team aggregation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetTeamMetrics returns the stored metric records for a team
func (h *MetricsHandler) GetTeamMetrics(c *gin.Context) {
	teamID := c.Param("id")

	metrics, err := h.metricRepo.GetByTeamID(teamID)
	if err != nil {
		logger.WithError(err).WithField("team_id", teamID).Error("Failed to load team metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// GetJob returns the status of an aggregation job
func (h *MetricsHandler) GetJob(c *gin.Context) {
	job, err := h.jobRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ExportAssignmentMetrics streams the assignment's metrics as an xlsx file
func (h *MetricsHandler) ExportAssignmentMetrics(c *gin.Context) {
	assignmentID := c.Param("id")

	file, err := h.exportService.ExportAssignmentMetrics(assignmentID)
	if err != nil {
		logger.WithError(err).WithField("assignment_id", assignmentID).Error("Failed to export metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export metrics"})
		return
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render spreadsheet"})
		return
	}

	filename := fmt.Sprintf("metrics-%s.xlsx", assignmentID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
