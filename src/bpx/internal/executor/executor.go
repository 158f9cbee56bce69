// Package executor runs external commands such as git on behalf of gateways.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=executor.go -destination=executormock/executor_mock.go -package=executormock

const _nameKey = "executor"

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(func(logger *zap.SugaredLogger) Executor {
		return New(WithLogger(logger.With("component", _nameKey)))
	}),
)

// Result holds the captured output of a finished command.
type Result struct {
	Stdout string
	Stderr string
	// ExitCode is -1 when the command did not start or was killed.
	ExitCode int
}

// Executor runs commands to completion and captures their output.
type Executor interface {
	// Run executes name with args in dir. A non zero exit code is returned together with an *exec.ExitError.
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

type executorImpl struct {
	logger *zap.SugaredLogger
	run    func(cmd *exec.Cmd) error
}

// Option customizes the executor.
type Option func(*executorImpl)

// WithLogger overrides the default noop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *executorImpl) {
		e.logger = logger
	}
}

// WithRunFunc replaces the function that runs a prepared command.
func WithRunFunc(run func(cmd *exec.Cmd) error) Option {
	return func(e *executorImpl) {
		e.run = run
	}
}

// New creates an executor that runs commands with os/exec.
func New(opts ...Option) Executor {
	e := &executorImpl{
		logger: zap.NewNop().Sugar(),
		run:    func(cmd *exec.Cmd) error { return cmd.Run() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *executorImpl) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := e.run(cmd)
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
	}
	e.logger.Debugw("exec", "name", name, "args", args, "dir", dir, "exitCode", result.ExitCode, "duration", time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	return result, err
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil || cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
