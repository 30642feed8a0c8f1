// Package bitbucket implements the Driver port for Bitbucket Pipelines.
//
// Bitbucket has no Go SDK worth the name and its auth negotiation is broken
// for this API, so the driver issues a single raw GET with an explicit Basic
// Authorization header.
package bitbucket

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/checkbridge/internal/config"
	"github.com/ericfisherdev/checkbridge/internal/domain/model"
	"github.com/ericfisherdev/checkbridge/internal/domain/port/driven"
	"github.com/ericfisherdev/checkbridge/internal/httpfetch"
)

// Compile-time interface satisfaction check.
var _ driven.Driver = (*Driver)(nil)

const checkNamePrefix = "cm:bb:"

// Driver queries Bitbucket Pipelines for the CI branch of a change and
// normalizes them into check runs.
type Driver struct {
	name   string
	cfg    config.DriverConfig
	client *http.Client
	header map[string]string
	logger zerolog.Logger
}

// pipelinesPage is the subset of the Bitbucket pipelines listing this driver
// reads. Everything else in the payload is ignorable.
type pipelinesPage struct {
	Values []pipeline `json:"values"`
}

type pipeline struct {
	Type        string        `json:"type"`
	RunNumber   int           `json:"run_number"`
	BuildNumber int           `json:"build_number"`
	State       pipelineState `json:"state"`
	Repository  pipelineRepo  `json:"repository"`
}

type pipelineState struct {
	Type   string           `json:"type"`
	Name   string           `json:"name"`
	Result *pipelineOutcome `json:"result"`
	Stage  *pipelineOutcome `json:"stage"`
}

type pipelineOutcome struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type pipelineRepo struct {
	Links struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"links"`
}

// New creates a Bitbucket driver from its config section.
func New(name string, cfg config.DriverConfig, logger zerolog.Logger) (driven.Driver, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("driver %q: 'base_url' is required", name)
	}
	if cfg.User == "" || cfg.Password == "" {
		return nil, fmt.Errorf("driver %q: 'user' and 'password' are required", name)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(cfg.User + ":" + cfg.Password))

	return &Driver{
		name:   name,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		header: map[string]string{
			"Accept":        "application/json",
			"Authorization": "Basic " + basic,
		},
		logger: logger,
	}, nil
}

// Name returns the configured driver name.
func (d *Driver) Name() string { return d.name }

// Run lists the pipelines targeting the change's CI branch and maps each one
// to a CheckRun. Any provider failure is logged and yields zero runs.
func (d *Driver) Run(ctx context.Context, req model.FetchRequest) []model.CheckRun {
	query := url.Values{
		"target.branch": {d.cfg.Branch(req.ChangeID, req.Revision)},
		"sort":          {"-created_on"},
		"pagelen":       {"100"},
	}
	endpoint := fmt.Sprintf(
		"%s/%s/pipelines/?%s",
		d.cfg.BaseURL, d.cfg.Repo(req.Project), query.Encode(),
	)

	var page pipelinesPage
	if err := httpfetch.GetJSON(ctx, d.client, endpoint, d.header, &page); err != nil {
		d.logger.Error().Err(err).Str("url", endpoint).Msg("cannot communicate with Bitbucket")
		return nil
	}

	out := make([]model.CheckRun, 0, len(page.Values))
	for _, p := range page.Values {
		out = append(out, d.mapPipeline(p))
	}
	return out
}

// mapPipeline normalizes one pipeline entry. The verdict comes from
// state.result when present and state.stage otherwise; a missing outcome
// means the pipeline has no verdict yet.
func (d *Driver) mapPipeline(p pipeline) model.CheckRun {
	outcome := p.State.Result
	if outcome == nil {
		outcome = p.State.Stage
	}

	var resultType, resultName string
	if outcome != nil {
		resultType = outcome.Type
		resultName = outcome.Name
	}

	state := mapState(p.State.Type)
	result := mapResult(resultType)

	return model.CheckRun{
		CheckName: checkNamePrefix + p.Type,
		Attempt:   p.RunNumber,
		Status:    state.status,
		Results: []model.CheckResult{{
			Category: result.category,
			Summary:  fmt.Sprintf("Workflow %s", p.Type),
			Message:  fmt.Sprintf("state=%s\nresult=%s", p.State.Name, resultName),
			Tags:     joinTags(state.tags, result.tags),
			Links: []model.Link{{
				URL: fmt.Sprintf(
					"%s/pipelines/results/%d",
					p.Repository.Links.HTML.Href, p.BuildNumber,
				),
				Tooltip: "BitBucket pipeline page",
				Primary: true,
				Icon:    model.LinkIconExternal,
			}},
		}},
	}
}
