// Package gateway groups the adapters to systems outside of bpx.
package gateway

import (
	"github.com/uber/bpx/src/bpx/gateway/debugger"
	"github.com/uber/bpx/src/bpx/gateway/vcs"
	"go.uber.org/fx"
)

// Module provides the debugger and version control gateways.
var Module = fx.Options(
	fx.Provide(debugger.New),
	fx.Provide(vcs.New),
)
