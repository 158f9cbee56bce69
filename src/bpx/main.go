package main

import (
	"os"

	"github.com/uber/bpx/src/bpx/app"
	"github.com/uber/bpx/src/bpx/cmd"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	if err := cmd.Execute(opts()); err != nil {
		os.Exit(1)
	}
}
