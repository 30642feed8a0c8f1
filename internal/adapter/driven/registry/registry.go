// Package registry maps configured driver names to their constructors.
package registry

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/checkbridge/internal/adapter/driven/bitbucket"
	"github.com/ericfisherdev/checkbridge/internal/adapter/driven/github"
	"github.com/ericfisherdev/checkbridge/internal/adapter/driven/sandbox"
	"github.com/ericfisherdev/checkbridge/internal/config"
	"github.com/ericfisherdev/checkbridge/internal/domain/port/driven"
)

// Constructor builds a driver from its name and config section.
type Constructor func(name string, cfg config.DriverConfig, logger zerolog.Logger) (driven.Driver, error)

// constructors is the fixed set of supported drivers.
var constructors = map[string]Constructor{
	"github":    github.New,
	"bitbucket": bitbucket.New,
	"sandbox":   sandbox.New,
}

// Build instantiates every driver named in cfg.Drivers, preserving the
// configured order. A name without a registered constructor is a startup
// error.
func Build(cfg *config.Config, logger zerolog.Logger) ([]driven.Driver, error) {
	out := make([]driven.Driver, 0, len(cfg.Drivers))
	for _, name := range cfg.Drivers {
		ctor, ok := constructors[name]
		if !ok {
			return nil, fmt.Errorf("unsupported driver %q", name)
		}
		d, err := ctor(name, cfg.Driver(name), logger.With().Str("driver", name).Logger())
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
