package services

import (
	"fmt"

	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService renders assignment metrics as spreadsheet reports
type ExportService struct {
	assignmentRepo *repositories.AssignmentRepository
	teamRepo       *repositories.TeamRepository
	metricRepo     *repositories.MetricRepository
}

// NewExportService creates a new ExportService
func NewExportService(
	assignmentRepo *repositories.AssignmentRepository,
	teamRepo *repositories.TeamRepository,
	metricRepo *repositories.MetricRepository,
) *ExportService {
	return &ExportService{
		assignmentRepo: assignmentRepo,
		teamRepo:       teamRepo,
		metricRepo:     metricRepo,
	}
}

// ExportAssignmentMetrics builds an xlsx workbook with one row per metric
// record across all teams of the assignment.
func (s *ExportService) ExportAssignmentMetrics(assignmentID string) (*excelize.File, error) {
	assignment, err := s.assignmentRepo.GetByID(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment %s: %w", assignmentID, err)
	}

	teams, err := s.teamRepo.GetByAssignmentID(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	teamNames := make(map[string]string, len(teams))
	for _, team := range teams {
		teamNames[team.ID] = team.Name
	}

	metrics, err := s.metricRepo.GetByAssignmentID(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Metrics"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Assignment", "Team", "GitHub Identity", "Participant ID", "Total Commits", "Last Updated"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, metric := range metrics {
		participant := ""
		if metric.ParticipantID != nil {
			participant = *metric.ParticipantID
		}
		values := []interface{}{
			assignment.Name,
			teamNames[metric.TeamID],
			metric.GithubID,
			participant,
			metric.TotalCommits,
			metric.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
