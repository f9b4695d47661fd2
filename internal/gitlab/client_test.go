package gitlabapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"labscope/pkg/config"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.GitLab.URL = server.URL
	cfg.GitLab.Token = "test-token"

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestListProjects_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id":2,"name":"beta","path_with_namespace":"team/beta"}]`)
			return
		}
		w.Header().Set("X-Next-Page", "2")
		fmt.Fprint(w, `[{"id":1,"name":"alpha","path_with_namespace":"team/alpha"}]`)
	})

	client := newTestClient(t, mux)
	projects, err := client.ListProjects("")
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "team/alpha", projects[0].PathWithNamespace)
	assert.Equal(t, "team/beta", projects[1].PathWithNamespace)
}

func TestGetProject(t *testing.T) {
	mux := http.NewServeMux()
	// The client escapes the namespace path, so match the whole subtree.
	mux.HandleFunc("/api/v4/projects/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":1,"name":"alpha","path_with_namespace":"team/alpha","web_url":"https://gitlab.example.com/team/alpha"}`)
	})

	client := newTestClient(t, mux)
	project, err := client.GetProject("team/alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, project.ID)
	assert.Equal(t, "alpha", project.Name)
}

func TestGetProject_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	_, err := client.GetProject("team/gone")
	assert.Error(t, err)
}

func TestLastCommitSince_ShortCircuitsOnFirstHit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/repository/branches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"name":"main"},{"name":"develop"}]`)
	})
	mux.HandleFunc("/api/v4/projects/1/repository/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("ref_name") == "develop" {
			fmt.Fprint(w, `[{"id":"abc123","created_at":"2024-03-02T10:00:00Z"}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	})

	client := newTestClient(t, mux)
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lastCommit, active, err := client.LastCommitSince(1, since)
	require.NoError(t, err)
	assert.True(t, active)
	require.NotNil(t, lastCommit)
	assert.Equal(t, 2024, lastCommit.Year())
}

func TestLastCommitSince_Inactive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/repository/branches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"name":"main"}]`)
	})
	mux.HandleFunc("/api/v4/projects/1/repository/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	})

	client := newTestClient(t, mux)
	_, active, err := client.LastCommitSince(1, time.Now())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestListOpenIssues_FiltersByCutoff(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "opened", r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":101,"iid":7,"title":"recent","state":"opened","created_at":"2024-03-10T08:00:00Z","updated_at":"2024-03-10T08:00:00Z"},
			{"id":102,"iid":8,"title":"stale","state":"opened","created_at":"2023-01-01T08:00:00Z","updated_at":"2023-01-02T08:00:00Z"}
		]`)
	})

	client := newTestClient(t, mux)
	cutoff := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	issues, err := client.ListOpenIssues(1, cutoff)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, "recent", issues[0].Title)
}

func TestIssueIsRecent_CutoffDayInclusive(t *testing.T) {
	cutoff := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	onCutoffDay := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	before := time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC)

	assert.True(t, issueIsRecent(&gitlab.Issue{CreatedAt: &onCutoffDay}, cutoff))
	assert.True(t, issueIsRecent(&gitlab.Issue{CreatedAt: &before, UpdatedAt: &onCutoffDay}, cutoff))
	assert.False(t, issueIsRecent(&gitlab.Issue{CreatedAt: &before, UpdatedAt: &before}, cutoff))
	assert.False(t, issueIsRecent(&gitlab.Issue{}, cutoff))
}
