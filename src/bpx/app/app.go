package app

import (
	"context"
	"time"

	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/controller"
	"github.com/uber/bpx/src/bpx/gateway"
	"github.com/uber/bpx/src/bpx/internal/core"
	"github.com/uber/bpx/src/bpx/internal/executor"
	"github.com/uber/bpx/src/bpx/internal/fs"
	workspaceutils "github.com/uber/bpx/src/bpx/internal/workspace-utils"
	"github.com/uber/bpx/src/bpx/repository/tags"
	"go.uber.org/fx"
)

// Module defines the bpx application module.
var Module = fx.Options(
	gateway.Module,    // outbounds
	controller.Module, // exchange pipelines
	fx.Provide(tags.New),
	fs.Module,
	executor.Module,
	workspaceutils.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newStats),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

func newStats(env Context, lc fx.Lifecycle) tally.Scope {
	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix: "bpx",
		Tags: map[string]string{
			"service": "bpx",
			"env":     env.Environment,
		},
	}, 1*time.Second)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return rs
}
