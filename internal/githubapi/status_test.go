package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAllReturnsCombinedState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/project/commits/abc123/status":
			fmt.Fprint(w, `{"state":"success","total_count":2,"statuses":[]}`)
		case "/repos/octo/project/commits/def456/status":
			fmt.Fprint(w, `{"state":"failure","total_count":1,"statuses":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver, err := NewStatusResolver("test-token", srv.URL)
	require.NoError(t, err)

	statuses := resolver.ResolveAll(context.Background(), map[int]HeadRef{
		7:  {Owner: "octo", Repository: "project", HeadCommitSHA: "abc123"},
		12: {Owner: "octo", Repository: "project", HeadCommitSHA: "def456"},
	})

	assert.Equal(t, map[int]string{7: "success", 12: "failure"}, statuses)
}

func TestResolveAllFailureYieldsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resolver, err := NewStatusResolver("test-token", srv.URL)
	require.NoError(t, err)

	statuses := resolver.ResolveAll(context.Background(), map[int]HeadRef{
		3: {Owner: "octo", Repository: "project", HeadCommitSHA: "gone"},
	})

	assert.Equal(t, StatusUnknown, statuses[3])
}

func TestResolveAllEmptyInput(t *testing.T) {
	resolver, err := NewStatusResolver("test-token", "")
	require.NoError(t, err)

	statuses := resolver.ResolveAll(context.Background(), nil)

	assert.Empty(t, statuses)
}
