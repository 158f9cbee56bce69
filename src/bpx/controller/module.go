package controller

import (
	"github.com/uber/bpx/src/bpx/controller/exporter"
	"github.com/uber/bpx/src/bpx/controller/importer"
	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/controller/resolver"
	"github.com/uber/bpx/src/bpx/controller/tags"
	"go.uber.org/fx"
)

// Module provides the breakpoint exchange controllers.
var Module = fx.Options(
	fx.Provide(registry.New),
	fx.Provide(exporter.New),
	fx.Provide(importer.New),
	fx.Provide(resolver.New),
	fx.Provide(tags.New),
)
