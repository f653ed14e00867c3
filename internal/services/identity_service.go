package services

import (
	"strings"

	"github.com/sukruthimodem/expertiza/internal/models"
	"github.com/sukruthimodem/expertiza/internal/repositories"
	"github.com/sukruthimodem/expertiza/pkg/logger"
)

// IdentityService maps commit author github emails to known participants.
// Resolution is best effort: a stored github identity mapping wins; failing
// that, the email is looked up directly when it already belongs to the
// institution domain, and otherwise an institutional address is derived
// from the local part. A miss is not an error.
type IdentityService struct {
	userRepo          *repositories.UserRepository
	participantRepo   *repositories.ParticipantRepository
	institutionDomain string
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(userRepo *repositories.UserRepository, participantRepo *repositories.ParticipantRepository, institutionDomain string) *IdentityService {
	return &IdentityService{
		userRepo:          userRepo,
		participantRepo:   participantRepo,
		institutionDomain: institutionDomain,
	}
}

// ResolveParticipant returns the participant ID owning the github email on
// the assignment, or nil when no mapping can be determined.
func (s *IdentityService) ResolveParticipant(githubEmail, assignmentID string) *string {
	user := s.resolveUser(githubEmail)
	if user == nil {
		return nil
	}

	participant, err := s.participantRepo.GetByUserAndAssignment(user.ID, assignmentID)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"user_id":       user.ID,
			"assignment_id": assignmentID,
		}).Debug("User matched but has no participant on assignment")
		return nil
	}

	return &participant.ID
}

func (s *IdentityService) resolveUser(githubEmail string) *models.User {
	if user, err := s.userRepo.GetByGithubID(githubEmail); err == nil {
		return user
	}

	local, domain, ok := strings.Cut(githubEmail, "@")
	if !ok || local == "" {
		return nil
	}

	lookup := githubEmail
	if !strings.EqualFold(domain, s.institutionDomain) {
		// Guess an institutional address from the local part. Common local
		// parts can produce false positives; the mapping is stored for
		// review, not treated as authoritative.
		lookup = local + "@" + s.institutionDomain
	}

	user, err := s.userRepo.GetByEmail(lookup)
	if err != nil {
		return nil
	}

	if err := s.userRepo.UpdateGithubID(user.ID, githubEmail); err != nil {
		logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to store github identity mapping")
	}
	logger.WithFields(map[string]interface{}{
		"github_email": githubEmail,
		"user_id":      user.ID,
	}).Debug("Resolved github identity by email heuristic")

	return user
}
