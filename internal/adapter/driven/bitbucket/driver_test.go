package bitbucket_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bbDriver "github.com/ericfisherdev/checkbridge/internal/adapter/driven/bitbucket"
	"github.com/ericfisherdev/checkbridge/internal/config"
	"github.com/ericfisherdev/checkbridge/internal/domain/model"
)

const successfulPipeline = `{
	"values": [{
		"type": "pipeline",
		"run_number": 3,
		"build_number": 42,
		"state": {
			"type": "pipeline_state_completed",
			"name": "COMPLETED",
			"result": {"type": "pipeline_state_completed_successful", "name": "SUCCESSFUL"}
		},
		"repository": {"links": {"html": {"href": "https://bitbucket.org/acme/widget-ci"}}}
	}]
}`

func testConfig(baseURL string) config.DriverConfig {
	return config.DriverConfig{
		BaseURL:      baseURL,
		User:         "ci-bot",
		Password:     "hunter2",
		BranchPrefix: "changes/",
		RepoFormat:   "{repo}-ci",
		Timeout:      2 * time.Second,
	}
}

// newTestDriver serves the given body from an httptest server and returns a
// driver pointed at it, plus a capture of the last request seen.
func newTestDriver(t *testing.T, status int, body string) (*httptest.Server, *http.Request, func() []model.CheckRun) {
	t.Helper()

	var captured http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	driver, err := bbDriver.New("bitbucket", testConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	run := func() []model.CheckRun {
		return driver.Run(context.Background(), model.FetchRequest{
			Project:  "widget",
			ChangeID: 1234,
			Revision: 7,
		})
	}
	return server, &captured, run
}

func TestRunSuccessfulPipeline(t *testing.T) {
	_, captured, run := newTestDriver(t, http.StatusOK, successfulPipeline)

	runs := run()

	require.Len(t, runs, 1)
	cr := runs[0]
	assert.Equal(t, "cm:bb:pipeline", cr.CheckName)
	assert.Equal(t, model.RunStatusCompleted, cr.Status)
	assert.Equal(t, 3, cr.Attempt)

	require.Len(t, cr.Results, 1)
	result := cr.Results[0]
	assert.Equal(t, model.CategorySuccess, result.Category)
	assert.Equal(t, "Workflow pipeline", result.Summary)
	assert.Equal(t, "state=COMPLETED\nresult=SUCCESSFUL", result.Message)
	assert.Empty(t, result.Tags)
	require.Len(t, result.Links, 1)
	assert.Equal(t, "https://bitbucket.org/acme/widget-ci/pipelines/results/42", result.Links[0].URL)
	assert.True(t, result.Links[0].Primary)

	// Request shape: repo path, sharded branch filter, sort and page hints,
	// explicit Basic auth.
	assert.Equal(t, "/widget-ci/pipelines/", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, "changes/34/1234/7", q.Get("target.branch"))
	assert.Equal(t, "-created_on", q.Get("sort"))
	assert.Equal(t, "100", q.Get("pagelen"))

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("ci-bot:hunter2"))
	assert.Equal(t, wantAuth, captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Accept"))
}

func TestRunStageFallbackWhenNoResult(t *testing.T) {
	_, _, run := newTestDriver(t, http.StatusOK, `{
		"values": [{
			"type": "pipeline",
			"run_number": 1,
			"build_number": 7,
			"state": {
				"type": "pipeline_state_in_progress",
				"name": "IN PROGRESS",
				"stage": {"type": "pipeline_state_in_progress_running", "name": "RUNNING"}
			},
			"repository": {"links": {"html": {"href": "https://bitbucket.org/acme/widget-ci"}}}
		}]
	}`)

	runs := run()

	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusRunning, runs[0].Status)
	result := runs[0].Results[0]
	assert.Equal(t, model.CategoryInfo, result.Category)
	assert.Equal(t, "state=IN PROGRESS\nresult=RUNNING", result.Message)
	assert.Empty(t, result.Tags)
}

func TestRunMissingOutcomeMeansNoVerdict(t *testing.T) {
	_, _, run := newTestDriver(t, http.StatusOK, `{
		"values": [{
			"type": "pipeline",
			"state": {"type": "pipeline_state_pending", "name": "PENDING"},
			"repository": {"links": {"html": {"href": "https://bitbucket.org/acme/widget-ci"}}}
		}]
	}`)

	runs := run()

	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusScheduled, runs[0].Status)
	result := runs[0].Results[0]
	assert.Equal(t, model.CategoryInfo, result.Category)
	// Only the PENDING state tag; no verdict, so no conclusion tags.
	require.Len(t, result.Tags, 1)
	assert.Equal(t, "PENDING", result.Tags[0].Name)
}

func TestRunUnknownVocabulary(t *testing.T) {
	_, _, run := newTestDriver(t, http.StatusOK, `{
		"values": [{
			"type": "pipeline",
			"state": {
				"type": "pipeline_state_sideways",
				"name": "SIDEWAYS",
				"result": {"type": "pipeline_state_sideways_hard", "name": "HARD"}
			},
			"repository": {"links": {"html": {"href": "https://bitbucket.org/acme/widget-ci"}}}
		}]
	}`)

	runs := run()

	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusCompleted, runs[0].Status)
	result := runs[0].Results[0]
	assert.Equal(t, model.CategoryWarning, result.Category)
	require.Len(t, result.Tags, 2)
	assert.Equal(t, "Unknown state pipeline_state_sideways", result.Tags[0].Tooltip)
	assert.Equal(t, "Unknown conclusion pipeline_state_sideways_hard", result.Tags[1].Tooltip)
}

func TestRunProviderErrorYieldsNoRuns(t *testing.T) {
	_, _, run := newTestDriver(t, http.StatusBadGateway, "gateway down")
	assert.Empty(t, run())
}

func TestRunMalformedPayloadYieldsNoRuns(t *testing.T) {
	_, _, run := newTestDriver(t, http.StatusOK, `<html>maintenance</html>`)
	assert.Empty(t, run())
}

func TestRunProviderUnreachableYieldsNoRuns(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	driver, err := bbDriver.New("bitbucket", testConfig(url), zerolog.Nop())
	require.NoError(t, err)

	runs := driver.Run(context.Background(), model.FetchRequest{Project: "widget", ChangeID: 1, Revision: 1})
	assert.Empty(t, runs)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := bbDriver.New("bitbucket", config.DriverConfig{BaseURL: "https://api.example.com"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")

	_, err = bbDriver.New("bitbucket", config.DriverConfig{User: "u", Password: "p"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}
