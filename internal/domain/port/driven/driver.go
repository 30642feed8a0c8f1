// Package driven defines the outbound ports implemented by CI provider
// adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/checkbridge/internal/domain/model"
)

// Driver is the port every CI provider adapter implements.
//
// Run deliberately has no error return: a driver that cannot reach its
// provider (network failure, timeout, malformed payload) logs the problem
// itself and contributes zero runs, so one broken provider never prevents
// the others from answering.
type Driver interface {
	// Name returns the configured driver name, used for logging and for the
	// check-name prefix.
	Name() string

	// Run queries the provider for the given change and returns the
	// normalized check runs in the provider's own ordering.
	Run(ctx context.Context, req model.FetchRequest) []model.CheckRun
}
