package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gojira.NewClient(nil, server.URL)
	require.NoError(t, err)

	return &Client{
		client:    client,
		logger:    zap.NewNop(),
		serverURL: strings.TrimRight(server.URL, "/"),
	}, server
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestNewClientVerifiesCredentials(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		sawAuth = ok && user == "bot@example.com" && pass == "secret"
		writeJSON(w, http.StatusOK, map[string]string{"name": "bot"})
	}))
	defer server.Close()

	creds := config.JiraCredentials{User: "bot@example.com", Token: "secret"}
	client, err := NewClient(creds, server.URL, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, sawAuth)
	assert.Equal(t, strings.TrimRight(server.URL, "/"), client.ServerURL())
}

func TestNewClientAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"errorMessages": []string{"Invalid credentials"},
		})
	}))
	defer server.Close()

	creds := config.JiraCredentials{User: "bot@example.com", Token: "bad"}
	_, err := NewClient(creds, server.URL, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jira authentication failed")
}

func TestBrowseURL(t *testing.T) {
	client := &Client{serverURL: "https://jira.example.com"}
	assert.Equal(t, "https://jira.example.com/browse/REL-1", client.BrowseURL("REL-1"))
}

func TestReleaseReportURL(t *testing.T) {
	client := &Client{serverURL: "https://jira.example.com"}
	assert.Equal(t,
		"https://jira.example.com/projects/PROJ/versions/42/tab/release-report-all-issues",
		client.ReleaseReportURL("PROJ", "42"))
}

func TestIssueNotFound(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"errorMessages": []string{"Issue does not exist"},
		})
	}))

	_, err := client.Issue("REL-999", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `ticket "REL-999" not found`)
}

func TestProjectNotFound(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"errorMessages": []string{"No project could be found"},
		})
	}))

	_, err := client.Project("NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `project with key "NOPE" not found`)
}

func TestCreateVersionAlreadyExists(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/api/2/project/PROJ":
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "10000", "key": "PROJ"})
		case r.URL.Path == "/rest/api/2/version" && r.Method == http.MethodPost:
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"errorMessages": []string{"A version with this name already exists in this project."},
			})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	_, err := client.CreateVersion("PROJ", "1.2")
	assert.ErrorIs(t, err, ErrVersionExists)
}

func TestCreateVersionOtherFailureSurfacesBody(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/api/2/project/PROJ":
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "10000", "key": "PROJ"})
		default:
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"errorMessages": []string{"You do not have permission to manage versions"},
			})
		}
	}))

	_, err := client.CreateVersion("PROJ", "1.2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVersionExists)
	assert.Contains(t, err.Error(), "You do not have permission to manage versions")
}

func TestTransitionNotAvailable(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"transitions": []map[string]interface{}{
				{"id": "11", "name": "Start", "to": map[string]interface{}{"name": "In Progress"}},
				{"id": "21", "name": "Reject", "to": map[string]interface{}{"name": "Rejected"}},
			},
		})
	}))

	err := client.Transition("REL-1", "Technical Release Done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid from the ticket's current status")
	assert.Contains(t, err.Error(), "Start")
	assert.Contains(t, err.Error(), "Reject")
}

func TestTransitionMatchesTransitionName(t *testing.T) {
	var transitioned string
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"transitions": []map[string]interface{}{
					{"id": "11", "name": "Start Progress", "to": map[string]interface{}{"name": "In Progress"}},
				},
			})
			return
		}
		var body struct {
			Transition struct {
				ID string `json:"id"`
			} `json:"transition"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		transitioned = body.Transition.ID
		w.WriteHeader(http.StatusNoContent)
	}))

	// "Start Progress" is the transition's name, not its target status.
	require.NoError(t, client.Transition("REL-1", "Start Progress"))
	assert.Equal(t, "11", transitioned)
}

func TestTransitionFallsBackToTargetStatus(t *testing.T) {
	var transitioned string
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"transitions": []map[string]interface{}{
					{"id": "11", "name": "Start Progress", "to": map[string]interface{}{"name": "In Progress"}},
					{"id": "41", "name": "Close it", "to": map[string]interface{}{"name": "Closed"}},
				},
			})
			return
		}
		var body struct {
			Transition struct {
				ID string `json:"id"`
			} `json:"transition"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		transitioned = body.Transition.ID
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Transition("REL-1", "Closed"))
	assert.Equal(t, "41", transitioned)
}

func TestTransitionRemoteFailureSurfacesBody(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"transitions": []map[string]interface{}{
					{"id": "31", "name": "Done", "to": map[string]interface{}{"name": "Technical Release Done"}},
				},
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errorMessages": []string{"It seems that you have tried to perform an illegal workflow operation."},
		})
	}))

	err := client.Transition("REL-1", "Technical Release Done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal workflow operation")
}

func TestSearchReleaseIssues(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		jql := r.URL.Query().Get("jql")
		assert.Contains(t, jql, `project = "PROJ"`)
		assert.Contains(t, jql, `fixVersion = "1.2"`)
		assert.Contains(t, jql, "ORDER BY issuetype ASC, key ASC")

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"startAt":    0,
			"maxResults": 100,
			"total":      2,
			"issues": []map[string]interface{}{
				{"key": "PROJ-1", "fields": map[string]interface{}{"summary": "First"}},
				{"key": "PROJ-2", "fields": map[string]interface{}{"summary": "Second"}},
			},
		})
	}))

	issues, err := client.SearchReleaseIssues("PROJ", "1.2")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "PROJ-1", issues[0].Key)
	assert.Equal(t, "PROJ-2", issues[1].Key)
}

func TestUpdateFixVersionsTrimsNames(t *testing.T) {
	var payload struct {
		Fields struct {
			FixVersions []map[string]string `json:"fixVersions"`
		} `json:"fields"`
	}
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeJSON(w, http.StatusNoContent, nil)
	}))

	err := client.UpdateFixVersions("SONAR-5", []string{"10.6", " 2025.1 "})
	require.NoError(t, err)
	require.Len(t, payload.Fields.FixVersions, 2)
	assert.Equal(t, "10.6", payload.Fields.FixVersions[0]["name"])
	assert.Equal(t, "2025.1", payload.Fields.FixVersions[1]["name"])
}

func TestProjectVersions(t *testing.T) {
	client, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":  "10000",
			"key": "PROJ",
			"versions": []map[string]interface{}{
				{"id": "1", "name": "1.1", "released": true},
				{"id": "2", "name": "1.2", "released": false},
			},
		})
	}))

	versions, err := client.ProjectVersions("PROJ")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "1.1", versions[0].Name)
	assert.True(t, Released(versions[0]))
	assert.False(t, Released(versions[1]))
}

func ExampleClient_BrowseURL() {
	client := &Client{serverURL: "https://jira.example.com"}
	fmt.Println(client.BrowseURL("REL-42"))
	// Output: https://jira.example.com/browse/REL-42
}
