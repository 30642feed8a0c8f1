// Package application contains the use-case services sitting between the
// HTTP transport and the CI drivers.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/checkbridge/internal/domain/model"
	"github.com/ericfisherdev/checkbridge/internal/domain/port/driven"
)

// FetchService aggregates check runs from the configured drivers.
type FetchService struct {
	drivers []driven.Driver
	logger  zerolog.Logger
}

// NewFetchService creates a FetchService invoking the given drivers in slice
// order for every request.
func NewFetchService(drivers []driven.Driver, logger zerolog.Logger) *FetchService {
	return &FetchService{
		drivers: drivers,
		logger:  logger,
	}
}

// Fetch runs every configured driver against the request and concatenates
// their check runs, configured driver order first, within-driver order
// preserved. Drivers absorb their own provider failures, so the envelope is
// always OK; an unreachable provider just contributes nothing.
func (s *FetchService) Fetch(ctx context.Context, req model.FetchRequest) model.FetchResponse {
	runs := make([]model.CheckRun, 0)
	for _, d := range s.drivers {
		produced := d.Run(ctx, req)
		s.logger.Debug().
			Str("driver", d.Name()).
			Int("runs", len(produced)).
			Int("change", req.ChangeID).
			Int("revision", req.Revision).
			Msg("driver finished")
		runs = append(runs, produced...)
	}

	return model.FetchResponse{
		ResponseCode: model.ResponseCodeOK,
		Runs:         runs,
	}
}
