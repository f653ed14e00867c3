package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sukruthimodem/expertiza/internal/githubapi"
	"github.com/sukruthimodem/expertiza/internal/handlers"
	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/internal/services"
	"github.com/sukruthimodem/expertiza/internal/workers"
	"github.com/sukruthimodem/expertiza/pkg/config"
	"github.com/sukruthimodem/expertiza/pkg/database"
	"github.com/sukruthimodem/expertiza/pkg/logger"
)

func main() {
	logger.Init()

	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	gin.SetMode(cfg.Server.Mode)

	if err := database.Init(cfg.Database.Path, cfg.Database.MigrationsDir); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(database.DB)
	assignmentRepo := repositories.NewAssignmentRepository(database.DB)
	teamRepo := repositories.NewTeamRepository(database.DB)
	participantRepo := repositories.NewParticipantRepository(database.DB)
	metricRepo := repositories.NewMetricRepository(database.DB)
	jobRepo := repositories.NewJobRepository(database.DB)

	// GitHub clients
	githubClient := githubapi.NewClient(cfg.GitHub.Token, githubapi.ClientOptions{
		Endpoint:        cfg.GitHub.GraphQLEndpoint,
		Timeout:         time.Duration(cfg.GitHub.RequestTimeout) * time.Second,
		MaxRetries:      cfg.GitHub.MaxRetries,
		MaxPages:        cfg.GitHub.MaxPages,
		RequestsPerHour: cfg.GitHub.RequestsPerHour,
	})
	statusResolver, err := githubapi.NewStatusResolver(cfg.GitHub.Token, cfg.GitHub.APIBaseURL)
	if err != nil {
		logger.Fatalf("Failed to create status resolver: %v", err)
	}

	// Services
	identityService := services.NewIdentityService(userRepo, participantRepo, cfg.Metrics.InstitutionDomain)
	metricsService := services.NewGithubMetricsService(
		cfg.GitHub.Token,
		githubClient,
		statusResolver,
		identityService,
		teamRepo,
		assignmentRepo,
		metricRepo,
		cfg.Metrics.Collaborators,
	)
	exportService := services.NewExportService(assignmentRepo, teamRepo, metricRepo)

	// Workers
	workerManager := workers.NewWorkerManager(jobRepo, teamRepo, metricsService, cfg.Metrics.TeamParallelism)

	// Router
	router := gin.Default()
	setupRoutes(router, jobRepo, metricRepo, metricsService, exportService)

	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	logger.Info("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	jobRepo *repositories.JobRepository,
	metricRepo *repositories.MetricRepository,
	metricsService *services.GithubMetricsService,
	exportService *services.ExportService,
) {
	metricsHandler := handlers.NewMetricsHandler(jobRepo, metricRepo, metricsService, exportService)
	healthHandler := handlers.NewHealthHandler()

	assignments := router.Group("/assignments")
	{
		assignments.POST("/:id/metrics", metricsHandler.QueryAssignmentStatistics)
		assignments.GET("/:id/metrics/export", metricsHandler.ExportAssignmentMetrics)
	}

	teams := router.Group("/teams")
	{
		teams.POST("/:id/metrics", metricsHandler.AggregateTeam)
		teams.GET("/:id/metrics", metricsHandler.GetTeamMetrics)
	}

	router.GET("/jobs/:id", metricsHandler.GetJob)
	router.GET("/health", healthHandler.HealthCheck)
}
