package pkgmanager

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/createkit/createkit/internal/ui"
	"github.com/rs/zerolog/log"
)

// Runner executes a resolved command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, c CommandSpec) error
}

// ExecRunner runs commands as child processes with their standard streams
// attached to the configured readers and writers.
type ExecRunner struct {
	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts c.Name with c.Args in c.Dir and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, c CommandSpec) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}

// AddOptions configures AddDeps.
type AddOptions struct {
	Dev     bool
	Manager Manager
}

// Adapter issues package manager commands for a project directory.
type Adapter struct {
	// Runner defaults to an ExecRunner on the process's streams.
	Runner Runner
	// Out receives the echoed command line; defaults to os.Stdout.
	Out io.Writer
}

// New returns an Adapter that runs real subprocesses and echoes commands
// to out.
func New(out io.Writer) *Adapter {
	if out == nil {
		out = os.Stdout
	}
	return &Adapter{Runner: &ExecRunner{}, Out: out}
}

// InitPackage creates a manifest in rootDir without prompting.
func (a *Adapter) InitPackage(ctx context.Context, rootDir string, m Manager) error {
	return a.run(ctx, OpInit, InitCommand(m, rootDir))
}

// InstallDeps installs the dependencies declared in rootDir's manifest.
func (a *Adapter) InstallDeps(ctx context.Context, rootDir string, m Manager) error {
	return a.run(ctx, OpInstall, InstallCommand(m, rootDir))
}

// AddDeps adds deps to rootDir's manifest. An empty list is a no-op.
func (a *Adapter) AddDeps(ctx context.Context, rootDir string, deps []string, opts AddOptions) error {
	if len(deps) == 0 {
		return nil
	}
	return a.run(ctx, OpAdd, AddCommand(opts.Manager, rootDir, deps, opts.Dev))
}

func (a *Adapter) run(ctx context.Context, op Op, c CommandSpec) error {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	runner := a.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	ui.PrintCommand(out, c.String())
	log.Debug().Str("op", op.String()).Str("dir", c.Dir).Strs("args", c.Args).Msg("running " + c.Name)

	if err := runner.Run(ctx, c); err != nil {
		return &Error{Op: op, Command: c, Err: err}
	}
	return nil
}
