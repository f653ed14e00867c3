package githubapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/sukruthimodem/expertiza/pkg/logger"
	"golang.org/x/oauth2"
)

// StatusUnknown marks a pull request whose status lookup failed, as opposed
// to a real state reported by the API.
const StatusUnknown = "unknown"

// HeadRef anchors a pull request's status lookup: the repository and the
// head commit SHA observed during aggregation.
type HeadRef struct {
	Owner         string
	Repository    string
	HeadCommitSHA string
}

// StatusResolver resolves the combined commit status for pull request heads
type StatusResolver struct {
	client *github.Client
}

// NewStatusResolver creates a resolver backed by the REST API. baseURL
// overrides the API endpoint and is primarily for tests.
func NewStatusResolver(token, baseURL string) (*StatusResolver, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), source)
	client := github.NewClient(httpClient)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = parsed
	}

	return &StatusResolver{client: client}, nil
}

// ResolveAll looks up the combined status for every recorded pull request
// head and returns the state string keyed by pull number. A failed lookup
// yields StatusUnknown rather than dropping the entry, so every processed
// pull request keeps a status.
func (r *StatusResolver) ResolveAll(ctx context.Context, heads map[int]HeadRef) map[int]string {
	statuses := make(map[int]string, len(heads))

	for number, head := range heads {
		combined, _, err := r.client.Repositories.GetCombinedStatus(ctx, head.Owner, head.Repository, head.HeadCommitSHA, nil)
		if err != nil || combined == nil {
			logger.WithFields(map[string]interface{}{
				"owner":  head.Owner,
				"repo":   head.Repository,
				"number": number,
			}).Warn("Failed to resolve commit status")
			statuses[number] = StatusUnknown
			continue
		}
		statuses[number] = combined.GetState()
	}

	return statuses
}
