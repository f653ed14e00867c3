package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sukruthimodem/expertiza/pkg/logger"
)

// RepositoryRef identifies a GitHub repository parsed from a submitted link
type RepositoryRef struct {
	Owner string
	Name  string
}

// PullRequestRef identifies a pull request parsed from a submitted link
type PullRequestRef struct {
	RepositoryRef
	Number int
}

// ClassifyLinks partitions a team's submitted links into pull request links
// and repository links, in submission order. Pull request data supersedes
// repository data: when any pull request link is present, every repository
// link is dropped. Malformed links are skipped; empty input yields empty
// output.
//
// Links are matched on parsed URL structure, not substrings, so a
// repository named "pull-parser" is not mistaken for a pull request.
func ClassifyLinks(links []string) ([]PullRequestRef, []RepositoryRef) {
	var pulls []PullRequestRef
	var repos []RepositoryRef

	for _, link := range links {
		parsed, err := url.Parse(strings.TrimSpace(link))
		if err != nil {
			logger.WithField("link", link).Warn("Skipping unparseable submission link")
			continue
		}
		if !isGithubHost(parsed.Hostname()) {
			continue
		}

		segments := splitPathSegments(parsed.Path)
		if pull, ok := parsePullRequestPath(segments); ok {
			pulls = append(pulls, pull)
			continue
		}
		if repo, ok := parseRepositoryPath(segments); ok {
			repos = append(repos, repo)
			continue
		}
		logger.WithField("link", link).Warn("Skipping malformed submission link")
	}

	if len(pulls) > 0 {
		return pulls, nil
	}
	return nil, repos
}

func isGithubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}

func splitPathSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// parsePullRequestPath matches owner/repo/pull/<number> with an optional
// trailing sub-path (files, commits).
func parsePullRequestPath(segments []string) (PullRequestRef, bool) {
	if len(segments) < 4 || segments[2] != "pull" {
		return PullRequestRef{}, false
	}
	number, err := strconv.Atoi(segments[3])
	if err != nil || number <= 0 {
		return PullRequestRef{}, false
	}
	return PullRequestRef{
		RepositoryRef: RepositoryRef{
			Owner: segments[0],
			Name:  strings.TrimSuffix(segments[1], ".git"),
		},
		Number: number,
	}, true
}

// parseRepositoryPath matches exactly owner/repo; deeper paths are treated
// as malformed rather than guessed at.
func parseRepositoryPath(segments []string) (RepositoryRef, bool) {
	if len(segments) != 2 {
		return RepositoryRef{}, false
	}
	return RepositoryRef{
		Owner: segments[0],
		Name:  strings.TrimSuffix(segments[1], ".git"),
	}, true
}
