// Package github implements the Driver port for GitHub Actions using the
// go-github library.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/rs/zerolog"

	"github.com/ericfisherdev/checkbridge/internal/config"
	"github.com/ericfisherdev/checkbridge/internal/domain/model"
	"github.com/ericfisherdev/checkbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Driver = (*Driver)(nil)

// checkNamePrefix tags every run produced here so the checks plugin can tell
// providers apart across polls.
const checkNamePrefix = "cm:gh:"

// Driver queries GitHub Actions workflow runs for the CI branch of a change
// and normalizes them into check runs.
type Driver struct {
	name   string
	cfg    config.DriverConfig
	gh     *gh.Client
	logger zerolog.Logger
}

// New creates a GitHub driver from its config section. The transport stack
// mirrors what GitHub tolerates in practice: the token goes on every request
// as an explicit Authorization header (negotiation does not work with
// GitHub), with the secondary-rate-limit middleware underneath.
func New(name string, cfg config.DriverConfig, logger zerolog.Logger) (driven.Driver, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("driver %q: 'owner' is required", name)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("driver %q: 'token' is required", name)
	}

	httpClient := github_ratelimit.NewClient(nil)
	httpClient.Timeout = cfg.Timeout

	client := gh.NewClient(httpClient).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("driver %q: parsing base_url: %w", name, err)
		}
		client.BaseURL = u
	}

	return &Driver{
		name:   name,
		cfg:    cfg,
		gh:     client,
		logger: logger,
	}, nil
}

// NewWithHTTPClient creates a Driver backed by a custom http.Client and API
// base URL. Intended for tests injecting an httptest server.
func NewWithHTTPClient(name string, cfg config.DriverConfig, httpClient *http.Client, baseURL string, logger zerolog.Logger) (*Driver, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Driver{
		name:   name,
		cfg:    cfg,
		gh:     client,
		logger: logger,
	}, nil
}

// Name returns the configured driver name.
func (d *Driver) Name() string { return d.name }

// Run lists the workflow runs on the change's CI branch and maps each one to
// a CheckRun. Any provider failure is logged and yields zero runs; it never
// fails the overall fetch.
func (d *Driver) Run(ctx context.Context, req model.FetchRequest) []model.CheckRun {
	repo := d.cfg.Repo(req.Project)
	branch := d.cfg.Branch(req.ChangeID, req.Revision)

	opts := &gh.ListWorkflowRunsOptions{Branch: branch}
	runs, _, err := d.gh.Actions.ListRepositoryWorkflowRuns(ctx, d.cfg.Owner, repo, opts)
	if err != nil {
		d.logger.Error().Err(err).
			Str("repo", repo).
			Str("branch", branch).
			Msg("cannot communicate with GitHub")
		return nil
	}

	out := make([]model.CheckRun, 0, len(runs.WorkflowRuns))
	for _, wr := range runs.WorkflowRuns {
		out = append(out, d.mapRun(wr))
	}
	return out
}

// mapRun normalizes a single workflow run through the status and conclusion
// tables into exactly one CheckRun with one summarizing result.
func (d *Driver) mapRun(wr *gh.WorkflowRun) model.CheckRun {
	status := mapStatus(wr.GetStatus())
	conclusion := mapConclusion(wr.GetConclusion())

	return model.CheckRun{
		CheckName: checkNamePrefix + wr.GetName(),
		Attempt:   wr.GetRunAttempt(),
		Status:    status.status,
		Results: []model.CheckResult{{
			Category: conclusion.category,
			Summary:  fmt.Sprintf("Workflow %s", wr.GetName()),
			Message: fmt.Sprintf(
				"status=%s\nconclusion=%s\nWorkflow %s",
				wr.GetStatus(), wr.GetConclusion(), wr.GetPath(),
			),
			Tags: joinTags(status.tags, conclusion.tags),
			Links: []model.Link{{
				URL:     wr.GetHTMLURL(),
				Tooltip: "GitHub action page",
				Primary: true,
				Icon:    model.LinkIconExternal,
			}},
		}},
	}
}
