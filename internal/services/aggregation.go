package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sukruthimodem/expertiza/internal/githubapi"
	"github.com/sukruthimodem/expertiza/pkg/logger"
)

const (
	// NotAvailable is the display sentinel for pull request totals when the
	// API never returned a valid pull request object.
	NotAvailable = "Not Available"

	// NotAPullRequest marks the merge status entry recorded for a link
	// whose pull request data could not be retrieved.
	NotAPullRequest = "Not A Pull Request"

	// NoPullRequestNumber keys the sentinel merge status entry
	NoPullRequestNumber = -1

	// MergeStatusMerged is recorded for merged pull requests; unmerged ones
	// carry the API's mergeable state instead.
	MergeStatusMerged = "MERGED"
)

// PullRequestTotals sums summary fields across all of a team's pull request
// links. Available turns false permanently once any link yields no valid
// pull request object; the totals then render as the Not Available sentinel
// so the output shape stays structurally complete.
type PullRequestTotals struct {
	Additions    int
	Deletions    int
	FilesChanged int
	Commits      int
	Available    bool
}

// MarshalJSON renders the totals as numbers, or as the Not Available
// sentinel when no valid pull request data exists.
func (t PullRequestTotals) MarshalJSON() ([]byte, error) {
	if !t.Available {
		return json.Marshal(map[string]string{
			"total_additions":     NotAvailable,
			"total_deletions":     NotAvailable,
			"total_files_changed": NotAvailable,
			"total_commits":       NotAvailable,
		})
	}
	return json.Marshal(map[string]int{
		"total_additions":     t.Additions,
		"total_deletions":     t.Deletions,
		"total_files_changed": t.FilesChanged,
		"total_commits":       t.Commits,
	})
}

// TeamAggregation is the accumulation state for one team's aggregation run.
// Each run owns its state exclusively; nothing is shared across runs.
type TeamAggregation struct {
	Ledger        *ContributionLedger
	HeadRefs      map[int]githubapi.HeadRef
	MergeStatuses map[int]string
	CheckStatuses map[int]string
	Totals        PullRequestTotals
	Days          []string
}

// NewTeamAggregation creates run state with the given exclusion identities
func NewTeamAggregation(excluded []string) *TeamAggregation {
	return &TeamAggregation{
		Ledger:        NewContributionLedger(excluded),
		HeadRefs:      make(map[int]githubapi.HeadRef),
		MergeStatuses: make(map[int]string),
		CheckStatuses: make(map[int]string),
		Totals:        PullRequestTotals{Available: true},
	}
}

// PullRequestAggregator collects all commits and summary fields of single
// pull request links into a team's run state.
type PullRequestAggregator struct {
	client *githubapi.Client
}

// NewPullRequestAggregator creates a new PullRequestAggregator
func NewPullRequestAggregator(client *githubapi.Client) *PullRequestAggregator {
	return &PullRequestAggregator{client: client}
}

// Aggregate drains every commit page of the pull request, folds its summary
// into the team totals, records the head commit for later status
// resolution, and accounts each commit author. When the API never returns a
// valid pull request object the totals flip to unavailable and the merge
// status map gets the Not A Pull Request sentinel, keeping one well-defined
// "no data" state instead of absent fields.
func (a *PullRequestAggregator) Aggregate(ctx context.Context, ref PullRequestRef, run *TeamAggregation) {
	result := a.client.FetchPullRequestCommits(ctx, ref.Owner, ref.Name, ref.Number)

	pr := result.PullRequest
	if pr == nil {
		run.Totals.Available = false
		run.MergeStatuses[NoPullRequestNumber] = NotAPullRequest
		logger.WithFields(map[string]interface{}{
			"owner":  ref.Owner,
			"repo":   ref.Name,
			"number": ref.Number,
		}).Warn("No pull request data available for link")
		return
	}

	run.Totals.Additions += pr.Additions
	run.Totals.Deletions += pr.Deletions
	run.Totals.FilesChanged += pr.ChangedFiles
	run.Totals.Commits += pr.TotalCommits

	if pr.Merged {
		run.MergeStatuses[pr.Number] = MergeStatusMerged
	} else {
		run.MergeStatuses[pr.Number] = pr.Mergeable
	}

	run.HeadRefs[pr.Number] = githubapi.HeadRef{
		Owner:         ref.Owner,
		Repository:    ref.Name,
		HeadCommitSHA: pr.HeadCommitSHA,
	}

	for _, commit := range result.Commits {
		run.Ledger.Record(commit.AuthorName, commit.AuthorEmail, commit.Day)
	}
}

// RepositoryAggregator collects commit history of repository links into a
// team's run state. Repository links carry no pull request summary; author
// accounting is the only output.
type RepositoryAggregator struct {
	client *githubapi.Client
}

// NewRepositoryAggregator creates a new RepositoryAggregator
func NewRepositoryAggregator(client *githubapi.Client) *RepositoryAggregator {
	return &RepositoryAggregator{client: client}
}

// Aggregate drains the repository's default branch history since the given
// time and accounts each commit author. Partial results from an erroring
// remote are kept.
func (a *RepositoryAggregator) Aggregate(ctx context.Context, ref RepositoryRef, since time.Time, run *TeamAggregation) {
	result := a.client.FetchRepositoryCommits(ctx, ref.Owner, ref.Name, since)

	for _, commit := range result.Commits {
		run.Ledger.Record(commit.AuthorName, commit.AuthorEmail, commit.Day)
	}
}
