//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/quickai/server/internal/infra/config"
)

// InitializeDependencies builds the dependency graph for cfg.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		InfraSet,
		AdapterSet,
		ModuleSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
