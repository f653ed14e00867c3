package githubapi

// GitHub caps GraphQL connection pages at 100 items; the page size is the
// server's, not ours.
const pageSize = 100

const pullRequestCommitsQuery = `
query($owner: String!, $name: String!, $number: Int!, $cursor: String) {
	repository(owner: $owner, name: $name) {
		pullRequest(number: $number) {
			number
			additions
			deletions
			changedFiles
			merged
			mergeable
			headRefOid
			commits(first: 100, after: $cursor) {
				totalCount
				pageInfo {
					hasNextPage
					endCursor
				}
				edges {
					node {
						commit {
							author {
								name
								email
							}
							committedDate
						}
					}
				}
			}
		}
	}
}`

const repositoryHistoryQuery = `
query($owner: String!, $name: String!, $since: GitTimestamp!, $cursor: String) {
	repository(owner: $owner, name: $name) {
		defaultBranchRef {
			target {
				... on Commit {
					history(first: 100, since: $since, after: $cursor) {
						pageInfo {
							hasNextPage
							endCursor
						}
						edges {
							node {
								author {
									name
									email
									date
								}
							}
						}
					}
				}
			}
		}
	}
}`

// GraphQLError is one entry of a GraphQL error payload
type GraphQLError struct {
	Message string `json:"message"`
}

// PageInfo carries the continuation cursor of a paged connection. The
// cursor is opaque; it is passed back to the server unmodified.
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type commitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

type pullRequestNode struct {
	Number       int    `json:"number"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	ChangedFiles int    `json:"changedFiles"`
	Merged       bool   `json:"merged"`
	Mergeable    string `json:"mergeable"`
	HeadRefOid   string `json:"headRefOid"`
	Commits      struct {
		TotalCount int       `json:"totalCount"`
		PageInfo   *PageInfo `json:"pageInfo"`
		Edges      []struct {
			Node struct {
				Commit struct {
					Author        commitAuthor `json:"author"`
					CommittedDate string       `json:"committedDate"`
				} `json:"commit"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"commits"`
}

type pullRequestResponse struct {
	Data *struct {
		Repository *struct {
			PullRequest *pullRequestNode `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// pullRequest digs out the pull request object, or nil anywhere along the
// way: error payloads and permission failures omit nested fields instead of
// failing the request.
func (r *pullRequestResponse) pullRequest() *pullRequestNode {
	if len(r.Errors) > 0 || r.Data == nil || r.Data.Repository == nil {
		return nil
	}
	return r.Data.Repository.PullRequest
}

type historyNode struct {
	PageInfo *PageInfo `json:"pageInfo"`
	Edges    []struct {
		Node struct {
			Author commitAuthor `json:"author"`
		} `json:"node"`
	} `json:"edges"`
}

type repositoryHistoryResponse struct {
	Data *struct {
		Repository *struct {
			DefaultBranchRef *struct {
				Target *struct {
					History *historyNode `json:"history"`
				} `json:"target"`
			} `json:"defaultBranchRef"`
		} `json:"repository"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

func (r *repositoryHistoryResponse) history() *historyNode {
	if len(r.Errors) > 0 || r.Data == nil || r.Data.Repository == nil {
		return nil
	}
	ref := r.Data.Repository.DefaultBranchRef
	if ref == nil || ref.Target == nil {
		return nil
	}
	return ref.Target.History
}

// commitDay truncates an ISO-8601 timestamp to its date portion. No timezone
// normalization happens here: commits keep the day of the offset the server
// delivered them with.
func commitDay(timestamp string) string {
	if len(timestamp) < 10 {
		return timestamp
	}
	return timestamp[:10]
}
