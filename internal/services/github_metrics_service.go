package services

import (
	"context"
	"fmt"

	"github.com/sukruthimodem/expertiza/internal/githubapi"
	"github.com/sukruthimodem/expertiza/internal/models"
	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/pkg/logger"
)

// AuthorContribution is one author's accounted activity in a team report
type AuthorContribution struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	TotalCommits int            `json:"total_commits"`
	ByDay        map[string]int `json:"by_day"`
}

// TeamMetricsReport is the displayable output of one team aggregation run
type TeamMetricsReport struct {
	TeamID        string               `json:"team_id"`
	TeamName      string               `json:"team_name"`
	Authors       []AuthorContribution `json:"authors"`
	Days          []string             `json:"days"`
	Totals        PullRequestTotals    `json:"pull_request_totals"`
	MergeStatuses map[int]string       `json:"merge_statuses"`
	CheckStatuses map[int]string       `json:"check_statuses"`
}

// GithubMetricsService runs the aggregation engine for one team at a time:
// classify the team's submitted links, drain commit data from GitHub,
// account authors and dates, resolve pull request statuses, and persist one
// metric record per contributing author.
type GithubMetricsService struct {
	token           string
	pullAggregator  *PullRequestAggregator
	repoAggregator  *RepositoryAggregator
	statusResolver  *githubapi.StatusResolver
	identityService *IdentityService
	teamRepo        *repositories.TeamRepository
	assignmentRepo  *repositories.AssignmentRepository
	metricRepo      *repositories.MetricRepository
	collaborators   []string
}

// NewGithubMetricsService creates a new GithubMetricsService
func NewGithubMetricsService(
	token string,
	client *githubapi.Client,
	statusResolver *githubapi.StatusResolver,
	identityService *IdentityService,
	teamRepo *repositories.TeamRepository,
	assignmentRepo *repositories.AssignmentRepository,
	metricRepo *repositories.MetricRepository,
	collaborators []string,
) *GithubMetricsService {
	return &GithubMetricsService{
		token:           token,
		pullAggregator:  NewPullRequestAggregator(client),
		repoAggregator:  NewRepositoryAggregator(client),
		statusResolver:  statusResolver,
		identityService: identityService,
		teamRepo:        teamRepo,
		assignmentRepo:  assignmentRepo,
		metricRepo:      metricRepo,
		collaborators:   collaborators,
	}
}

// AggregateTeam runs a full aggregation for one team and upserts its metric
// records. Returns models.ErrNoGithubToken before touching the remote API
// when no credential is configured; the caller owns credential acquisition.
func (s *GithubMetricsService) AggregateTeam(ctx context.Context, teamID string) (*TeamMetricsReport, error) {
	if s.token == "" {
		return nil, models.ErrNoGithubToken
	}

	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team %s: %w", teamID, err)
	}
	assignment, err := s.assignmentRepo.GetByID(team.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment %s: %w", team.AssignmentID, err)
	}

	run := NewTeamAggregation(s.collaborators)

	pulls, repos := ClassifyLinks(team.SubmittedLinks)
	logger.WithFields(map[string]interface{}{
		"team_id":    team.ID,
		"pull_links": len(pulls),
		"repo_links": len(repos),
	}).Info("Aggregating team submission links")

	for _, ref := range pulls {
		s.pullAggregator.Aggregate(ctx, ref, run)
	}
	for _, ref := range repos {
		s.repoAggregator.Aggregate(ctx, ref, assignment.CreatedAt, run)
	}

	run.CheckStatuses = s.statusResolver.ResolveAll(ctx, run.HeadRefs)
	run.Days = run.Ledger.Days()

	if err := s.assembleMetrics(team, run); err != nil {
		return nil, err
	}

	return s.buildReport(team, run), nil
}

// assembleMetrics upserts one metric record per accounted author. Excluded
// collaborators never reach the ledger, so every author here is a
// candidate student contribution.
func (s *GithubMetricsService) assembleMetrics(team *models.Team, run *TeamAggregation) error {
	for author, total := range run.Ledger.Totals() {
		email := run.Ledger.Email(author)

		metric := models.NewMetric(team.ID, email, total)
		metric.ParticipantID = s.identityService.ResolveParticipant(email, team.AssignmentID)

		if err := s.metricRepo.Upsert(metric); err != nil {
			return fmt.Errorf("failed to upsert metric for %s: %w", email, err)
		}
	}
	return nil
}

func (s *GithubMetricsService) buildReport(team *models.Team, run *TeamAggregation) *TeamMetricsReport {
	totals := run.Ledger.Totals()
	daily := run.Ledger.DailyCounts()

	authors := make([]AuthorContribution, 0, len(totals))
	for author, total := range totals {
		authors = append(authors, AuthorContribution{
			Name:         author,
			Email:        run.Ledger.Email(author),
			TotalCommits: total,
			ByDay:        daily[author],
		})
	}

	return &TeamMetricsReport{
		TeamID:        team.ID,
		TeamName:      team.Name,
		Authors:       authors,
		Days:          run.Days,
		Totals:        run.Totals,
		MergeStatuses: run.MergeStatuses,
		CheckStatuses: run.CheckStatuses,
	}
}
