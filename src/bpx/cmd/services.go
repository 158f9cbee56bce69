package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/uber/bpx/src/bpx/controller/exporter"
	"github.com/uber/bpx/src/bpx/controller/importer"
	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/controller/resolver"
	"github.com/uber/bpx/src/bpx/controller/tags"
	"github.com/uber/bpx/src/bpx/gateway/debugger"
	"github.com/uber/bpx/src/bpx/gateway/vcs"
	"github.com/uber/bpx/src/bpx/internal/core"
	workspaceutils "github.com/uber/bpx/src/bpx/internal/workspace-utils"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type services struct {
	fx.In

	Exporter       exporter.Controller
	Importer       importer.Controller
	Resolver       resolver.Controller
	Tags           tags.Controller
	Registry       registry.Registry
	Debugger       debugger.Gateway
	VCS            vcs.Gateway
	WorkspaceUtils workspaceutils.WorkspaceUtils
}

// withServices starts the application, runs fn and stops the application so stores are flushed and closed.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, s services) error) (err error) {
	var s services
	opts := []fx.Option{
		appOptions,
		fx.Populate(&s),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	}
	if configDir != "" {
		opts = append(opts, fx.Supply(core.ConfigDir(configDir)))
	}

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, app.Stop(context.Background()))
	}()

	return fn(ctx, s)
}
