package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestExecuteRetriesServerErrors(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data":{"viewer":{"login":"octocat"}}}`)
	}))
	defer srv.Close()

	client := NewClient("test-token", ClientOptions{Endpoint: srv.URL, MaxRetries: 3})

	var out struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	err := client.Execute(context.Background(), `query { viewer { login } }`, nil, &out)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "octocat", out.Viewer.Login)
}

func TestExecuteRetriesRateLimit(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer srv.Close()

	client := NewClient("test-token", ClientOptions{Endpoint: srv.URL, MaxRetries: 2})

	var out map[string]interface{}
	err := client.Execute(context.Background(), `query { viewer { login } }`, nil, &out)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecuteFailsFastOnClientError(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-token", ClientOptions{Endpoint: srv.URL, MaxRetries: 3})

	var out map[string]interface{}
	err := client.Execute(context.Background(), `query { viewer { login } }`, nil, &out)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteGivesUpAfterRetryBudget(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("test-token", ClientOptions{Endpoint: srv.URL, MaxRetries: 2})

	var out map[string]interface{}
	err := client.Execute(context.Background(), `query { viewer { login } }`, nil, &out)

	// initial attempt plus two retries
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "502")
}
