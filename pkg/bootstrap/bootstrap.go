// Copyright 2026 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This package prepares a project checkout for local development: it checks
// base tools, provisions a Python virtual environment and Node dependencies,
// materializes the env file from its template and prints next steps. Stages
// are idempotent and run strictly in order; only a failed install of a
// declared manifest stops a run.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/lk-bootstrap/pkg/config"
	"github.com/livekit/lk-bootstrap/pkg/util"
)

type ConfirmFunc func(ctx context.Context, title, description string) (bool, error)

type Options struct {
	// Dir is the project directory; defaults to the working directory.
	Dir     string
	Project *config.ProjectConfig
	User    *config.UserConfig
	Runner  Runner
	// LookPath defaults to exec.LookPath.
	LookPath LookPathFunc
	Out      io.Writer
	// OS defaults to the detected OS.
	OS OS
	// Environ defaults to os.Environ().
	Environ []string
	// Confirm is asked before installing tools; nil means no prompt.
	Confirm   ConfirmFunc
	AssumeYes bool
	NoInstall bool
	IsRoot    bool
	Verbose   bool
}

type Bootstrapper struct {
	opts     Options
	env      *Env
	runner   Runner
	lookPath LookPathFunc
	printer  *Printer

	aptUpdated bool
}

func New(opts Options) (*Bootstrapper, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}
	if !util.DirExists(dir) {
		return nil, fmt.Errorf("project directory %s does not exist", opts.Dir)
	}
	if opts.Project == nil {
		opts.Project = config.DefaultProjectConfig()
	}
	if opts.User == nil {
		opts.User = &config.UserConfig{}
	}
	if opts.Runner == nil {
		opts.Runner = NewExecRunner(opts.Verbose)
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.OS == "" {
		opts.OS = DetectOS()
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}

	return &Bootstrapper{
		opts:     opts,
		env:      NewEnv(dir, opts.OS, opts.Environ),
		runner:   opts.Runner,
		lookPath: opts.LookPath,
		printer:  NewPrinter(opts.Out),
	}, nil
}

func (b *Bootstrapper) Env() *Env {
	return b.env
}

func (b *Bootstrapper) Printer() *Printer {
	return b.printer
}

// Setup runs the full pipeline: tools, Python, Node, env file, scripts, then
// the completion report. It returns the first fatal stage error.
func (b *Bootstrapper) Setup(ctx context.Context) (*Summary, error) {
	summary := &Summary{OS: b.env.OS}
	b.printer.Info("Detected OS: %s", b.env.OS)

	stages := []func(context.Context) StageResult{
		b.EnsureTools,
		b.ProvisionPython,
		b.ProvisionNode,
		func(context.Context) StageResult { return b.MaterializeEnvFile() },
		func(context.Context) StageResult { return b.NormalizeScripts() },
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		r := stage(ctx)
		logger.Debugw("stage finished", "stage", r.Stage, "outcome", r.Outcome.String())
		summary.Results = append(summary.Results, r)
		b.printer.Result(r)
		if r.Fatal() {
			return summary, r.Err
		}
	}

	b.Report(summary)
	return summary, nil
}

// Run executes a single standalone stage, printing its result.
func (b *Bootstrapper) Run(ctx context.Context, stage func(context.Context) StageResult) error {
	r := stage(ctx)
	b.printer.Result(r)
	if r.Fatal() {
		return r.Err
	}
	return ctx.Err()
}

// Clean removes the virtual environment directory.
func (b *Bootstrapper) Clean(context.Context) StageResult {
	venv := b.opts.Project.Python.Venv
	path := b.env.Path(venv)
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return skipped(StageClean, "Nothing to clean; %s does not exist", venv)
	}
	if err := os.RemoveAll(path); err != nil {
		return failed(StageClean, err, "Could not remove %s", venv)
	}
	return installed(StageClean, "Removed %s", venv)
}

// RunTests runs the project's test commands best-effort: npm test, pytest and
// the taskfile's test task. Failures are reported and swallowed.
func (b *Bootstrapper) RunTests(ctx context.Context) StageResult {
	if n := b.LoadEnvFile(); n > 0 {
		b.printer.Info("Loaded %d variable(s) from %s", n, b.opts.Project.Env.File)
	}

	ran, failures := 0, 0
	try := func(name string, fn func() error) {
		ran++
		b.printer.Info("Running %s", name)
		if err := fn(); err != nil {
			failures++
			logger.Debugw("test command failed", "command", name, "error", err)
			b.printer.Warn("%s failed: %v", name, err)
			return
		}
		b.printer.OK("%s passed", name)
	}

	if b.manifestExists() {
		if npm, err := b.lookPath(string(NPM)); err == nil {
			try("npm test", func() error {
				return b.runner.Run(ctx, Command{Name: npm, Args: []string{"test"}, Dir: b.env.Dir, Env: b.env.Environ(), Interactive: true})
			})
		} else {
			b.printer.Warn("npm is not installed; skipping npm test")
		}
	}

	if name, args, ok := b.pytestCommand(); ok {
		try("pytest", func() error {
			return b.runner.Run(ctx, Command{Name: name, Args: args, Dir: b.env.Dir, Env: b.env.Environ(), Interactive: true})
		})
	}

	if tf := FindTaskfile(b.env.Dir); tf != "" {
		if tasks, err := ListTasks(tf); err != nil {
			b.printer.Warn("Could not read %s: %v", filepath.Base(tf), err)
		} else if slices.Contains(tasks, TaskTest) {
			try("task "+TaskTest, func() error {
				return RunTask(ctx, b.env.Dir, TaskTest, true)
			})
		}
	}

	if ran == 0 {
		return skipped(StageTests, "No tests to run")
	}
	if failures > 0 {
		return warned(StageTests, "%d of %d test command(s) failed", failures, ran)
	}
	return installed(StageTests, "%d test command(s) passed", ran)
}

// pytestCommand prefers the venv interpreter, activating the venv for the
// test run, and falls back to a pytest on PATH.
func (b *Bootstrapper) pytestCommand() (string, []string, bool) {
	if b.venvExists() {
		b.env.ActivateVenv(b.opts.Project.Python.Venv)
		return b.env.VenvBin(b.opts.Project.Python.Venv, "python"), []string{"-m", "pytest"}, true
	}
	if p, err := b.lookPath("pytest"); err == nil {
		return p, nil, true
	}
	return "", nil, false
}
