package githubapi

import (
	"context"
	"time"

	"github.com/sukruthimodem/expertiza/pkg/logger"
)

// Commit is one accounted commit: its author identity and the day it was
// committed.
type Commit struct {
	AuthorName  string
	AuthorEmail string
	Day         string
}

// PullRequestDetails are the summary fields of one pull request, taken from
// the last valid response of its commit pagination.
type PullRequestDetails struct {
	Number        int
	Additions     int
	Deletions     int
	ChangedFiles  int
	TotalCommits  int
	Merged        bool
	Mergeable     string
	HeadCommitSHA string
}

// PagedCommits is the fully drained result of one paged query. Truncated is
// set when pagination stopped before the server reported the last page:
// because of an invalid or erroring response, or because the page budget ran
// out. Whatever was accumulated up to that point is kept.
type PagedCommits struct {
	Commits     []Commit
	Truncated   bool
	PullRequest *PullRequestDetails
	Pages       int
}

type pageState int

const (
	pageContinue pageState = iota
	pageDone
	pageFailed
)

// page is one fetched page: its commit items plus continuation metadata. A
// nil info marks a response that lacked the expected shape.
type page struct {
	commits []Commit
	info    *PageInfo
}

// classify decides whether pagination continues, is complete, or has failed.
// A missing page-info object or a has-next-page without a cursor both count
// as failed: the response cannot be trusted to continue from.
func classify(p page) pageState {
	if p.info == nil {
		return pageFailed
	}
	if !p.info.HasNextPage {
		return pageDone
	}
	if p.info.EndCursor == nil {
		return pageFailed
	}
	return pageContinue
}

type fetchPageFunc func(ctx context.Context, cursor *string) (page, error)

// drainPages follows continuation cursors until the server reports no
// further pages, the response goes invalid, or the page budget is exhausted.
// It never returns an error: failures keep the commits accumulated so far
// and flag the result as truncated.
func drainPages(ctx context.Context, fetch fetchPageFunc, maxPages int) (commits []Commit, pages int, truncated bool) {
	var cursor *string

	for maxPages <= 0 || pages < maxPages {
		p, err := fetch(ctx, cursor)
		if err != nil {
			return commits, pages, true
		}
		pages++
		commits = append(commits, p.commits...)

		switch classify(p) {
		case pageDone:
			return commits, pages, false
		case pageFailed:
			return commits, pages, true
		}

		cursor = p.info.EndCursor
	}

	return commits, pages, true
}

// FetchPullRequestCommits drains every commit page of one pull request and
// captures its summary fields. Failure never crosses this boundary: an
// erroring or malformed response stops pagination, and a result with a nil
// PullRequest means the API never returned a valid pull request object.
func (c *Client) FetchPullRequestCommits(ctx context.Context, owner, name string, number int) *PagedCommits {
	var details *PullRequestDetails

	fetch := func(ctx context.Context, cursor *string) (page, error) {
		variables := map[string]interface{}{
			"owner":  owner,
			"name":   name,
			"number": number,
		}
		if cursor != nil {
			variables["cursor"] = *cursor
		}

		var resp pullRequestResponse
		if err := c.Execute(ctx, pullRequestCommitsQuery, variables, &resp); err != nil {
			return page{}, err
		}

		pr := resp.pullRequest()
		if pr == nil {
			return page{}, nil
		}

		details = &PullRequestDetails{
			Number:        pr.Number,
			Additions:     pr.Additions,
			Deletions:     pr.Deletions,
			ChangedFiles:  pr.ChangedFiles,
			TotalCommits:  pr.Commits.TotalCount,
			Merged:        pr.Merged,
			Mergeable:     pr.Mergeable,
			HeadCommitSHA: pr.HeadRefOid,
		}

		commits := make([]Commit, 0, len(pr.Commits.Edges))
		for _, edge := range pr.Commits.Edges {
			commits = append(commits, Commit{
				AuthorName:  edge.Node.Commit.Author.Name,
				AuthorEmail: edge.Node.Commit.Author.Email,
				Day:         commitDay(edge.Node.Commit.CommittedDate),
			})
		}

		return page{commits: commits, info: pr.Commits.PageInfo}, nil
	}

	commits, pages, truncated := drainPages(ctx, fetch, c.maxPages)
	if truncated {
		logger.WithFields(map[string]interface{}{
			"owner":  owner,
			"repo":   name,
			"number": number,
			"pages":  pages,
		}).Warn("Pull request commit pagination stopped early")
	}

	return &PagedCommits{Commits: commits, Truncated: truncated, PullRequest: details, Pages: pages}
}

// FetchRepositoryCommits drains the default branch history of a repository,
// restricted to commits on or after since. There is no summary object for
// repositories; commits are the only output.
func (c *Client) FetchRepositoryCommits(ctx context.Context, owner, name string, since time.Time) *PagedCommits {
	fetch := func(ctx context.Context, cursor *string) (page, error) {
		variables := map[string]interface{}{
			"owner": owner,
			"name":  name,
			"since": since.UTC().Format(time.RFC3339),
		}
		if cursor != nil {
			variables["cursor"] = *cursor
		}

		var resp repositoryHistoryResponse
		if err := c.Execute(ctx, repositoryHistoryQuery, variables, &resp); err != nil {
			return page{}, err
		}

		history := resp.history()
		if history == nil {
			return page{}, nil
		}

		commits := make([]Commit, 0, len(history.Edges))
		for _, edge := range history.Edges {
			commits = append(commits, Commit{
				AuthorName:  edge.Node.Author.Name,
				AuthorEmail: edge.Node.Author.Email,
				Day:         commitDay(edge.Node.Author.Date),
			})
		}

		return page{commits: commits, info: history.PageInfo}, nil
	}

	commits, pages, truncated := drainPages(ctx, fetch, c.maxPages)
	if truncated {
		logger.WithFields(map[string]interface{}{
			"owner": owner,
			"repo":  name,
			"pages": pages,
		}).Warn("Repository history pagination stopped early")
	}

	return &PagedCommits{Commits: commits, Truncated: truncated, Pages: pages}
}
