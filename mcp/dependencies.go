package mcp

import (
	"github.com/ryftlang/restructure/internal/config"
	"github.com/ryftlang/restructure/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	config *config.Config
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{config: cfg}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// BuildRestructureService assembles a fresh restructuring service bound
// to entryName and the configured debug .dot output directory.
func (d *Dependencies) BuildRestructureService(entryName string) *service.RestructureServiceImpl {
	if entryName == "" {
		entryName = "entry"
	}
	return service.NewRestructureService(entryName, d.config.Output.DotDir)
}

func (d *Dependencies) BuildFileDiscovery() *service.FileDiscoveryImpl {
	return service.NewFileDiscovery()
}

func (d *Dependencies) BuildFormatter() *service.FormatterImpl {
	return service.NewFormatter()
}
