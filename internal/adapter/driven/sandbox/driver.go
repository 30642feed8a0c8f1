// Package sandbox implements a zero-network Driver returning fixed check
// runs, for integration tests and local demos of the checks plugin.
package sandbox

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/checkbridge/internal/config"
	"github.com/ericfisherdev/checkbridge/internal/domain/model"
	"github.com/ericfisherdev/checkbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Driver = (*Driver)(nil)

// Driver returns the same two hardcoded check runs for every request.
type Driver struct {
	name string
}

// New creates a sandbox driver. The config section and logger are unused but
// accepted so the constructor fits the registry signature.
func New(name string, _ config.DriverConfig, _ zerolog.Logger) (driven.Driver, error) {
	return &Driver{name: name}, nil
}

// Name returns the configured driver name.
func (d *Driver) Name() string { return d.name }

// Run returns the fixed pair of check runs regardless of the request.
func (d *Driver) Run(_ context.Context, _ model.FetchRequest) []model.CheckRun {
	return []model.CheckRun{
		fixedRun("cm:sb:Checks Mock - Check1", "Description1"),
		fixedRun("cm:sb:Checks Mock - Check2", "Description2"),
	}
}

func fixedRun(checkName, description string) model.CheckRun {
	return model.CheckRun{
		CheckName:        checkName,
		CheckDescription: description,
		Status:           model.RunStatusCompleted,
		StatusLink:       "https://www.google.com",
		Results: []model.CheckResult{
			{
				Category: model.CategoryError,
				Summary:  "Summary1",
				Message:  "Message1",
			},
			{
				Category: model.CategorySuccess,
				Summary:  "Summary2",
				Message:  "Message2",
				Tags: []model.Tag{
					{Name: "Name1", Tooltip: "Top1", Color: model.TagColorPink},
				},
				Links: []model.Link{
					{
						URL:     "https://www.google.com",
						Tooltip: "Tip1",
						Primary: true,
						Icon:    model.LinkIconDownload,
					},
				},
			},
		},
	}
}
