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

package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/livekit/protocol/logger"
	"github.com/pkg/errors"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

// FindPython returns the first configured interpreter found on PATH.
func (b *Bootstrapper) FindPython() (string, bool) {
	_, p, ok := b.firstCommand(b.opts.Project.Python.Interpreters...)
	return p, ok
}

// CheckPythonVersion compares the output of `python --version` against a
// minimum version. An unparsable version is reported as an error.
func CheckPythonVersion(versionOutput, minVersion string) (string, bool, error) {
	raw := util.ExtractVersion(versionOutput)
	if raw == "" {
		return "", false, fmt.Errorf("unrecognized version output %q", util.FirstLine(versionOutput))
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return raw, false, err
	}
	if minVersion == "" {
		return v.String(), true, nil
	}
	c, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return v.String(), false, err
	}
	return v.String(), c.Check(v), nil
}

func (b *Bootstrapper) warnIfOldPython(ctx context.Context, python string) {
	minVersion := b.opts.Project.Python.MinVersion
	out, err := b.runner.Output(ctx, Command{Name: python, Args: []string{"--version"}, Dir: b.env.Dir, Env: b.env.Environ()})
	if err != nil {
		logger.Debugw("could not read python version", "python", python, "error", err)
		return
	}
	version, ok, err := CheckPythonVersion(out, minVersion)
	if err != nil {
		logger.Debugw("could not parse python version", "python", python, "error", err)
		return
	}
	if !ok {
		b.printer.Warn("Python %s is older than %s; dependency installs may fail", version, minVersion)
	}
}

func (b *Bootstrapper) venvExists() bool {
	return util.DirExists(b.env.Path(b.opts.Project.Python.Venv))
}

// ensureVenv creates the virtual environment unless its directory already
// exists. It reports whether it was created.
func (b *Bootstrapper) ensureVenv(ctx context.Context, python string) (bool, error) {
	venv := b.opts.Project.Python.Venv
	if b.venvExists() {
		return false, nil
	}
	b.printer.Info("Creating virtual environment in %s", venv)
	cmd := Command{Name: python, Args: []string{"-m", "venv", venv}, Dir: b.env.Dir, Env: b.env.Environ()}
	if err := b.runner.Run(ctx, cmd); err != nil {
		return false, errors.Wrapf(err, "creating virtual environment %s", venv)
	}
	return true, nil
}

// CreateVenv creates the virtual environment only: no activation, no installs.
func (b *Bootstrapper) CreateVenv(ctx context.Context) StageResult {
	venv := b.opts.Project.Python.Venv
	python, ok := b.FindPython()
	if !ok {
		return warned(StagePython, "Python not found (tried %s); skipping virtual environment", strings.Join(b.opts.Project.Python.Interpreters, ", "))
	}
	created, err := b.ensureVenv(ctx, python)
	if err != nil {
		return failed(StagePython, err, "Could not create %s", venv)
	}
	if !created {
		return skipped(StagePython, "Virtual environment %s already exists", venv)
	}
	return installed(StagePython, "Created virtual environment %s", venv)
}

// ProvisionPython ensures the venv, activates it for the rest of the run and
// installs the requirements manifest when one exists. A failing install is
// fatal.
func (b *Bootstrapper) ProvisionPython(ctx context.Context) StageResult {
	cfg := b.opts.Project.Python
	python, ok := b.FindPython()
	if !ok {
		return warned(StagePython, "Python not found (tried %s); skipping Python setup", strings.Join(cfg.Interpreters, ", "))
	}
	b.warnIfOldPython(ctx, python)

	if _, err := b.ensureVenv(ctx, python); err != nil {
		return failed(StagePython, err, "Could not create %s", cfg.Venv)
	}
	b.env.ActivateVenv(cfg.Venv)

	requirements := b.env.Path(cfg.Requirements)
	if !util.FileExists(requirements) {
		if tool := DetectPythonTooling(b.env.Dir); tool != "" {
			return skipped(StagePython, "No %s found; pyproject.toml uses %s, run `pip install -e .` or `%s install` yourself", cfg.Requirements, tool, tool)
		}
		return skipped(StagePython, "No %s found; skipping Python dependencies", cfg.Requirements)
	}

	venvPython := b.env.VenvBin(cfg.Venv, "python")
	steps := [][]string{
		{"-m", "pip", "install", "--upgrade", "pip"},
		{"-m", "pip", "install", "-r", cfg.Requirements},
	}
	b.printer.Info("Installing Python dependencies from %s", cfg.Requirements)
	for _, args := range steps {
		cmd := Command{Name: venvPython, Args: args, Dir: b.env.Dir, Env: b.env.Environ()}
		if err := b.runner.Run(ctx, cmd); err != nil {
			return failed(StagePython, errors.Wrapf(err, "installing %s", cfg.Requirements), "Python dependency install failed")
		}
	}
	return installed(StagePython, "Installed Python dependencies from %s", cfg.Requirements)
}

// InstallPython is the standalone form of ProvisionPython.
func (b *Bootstrapper) InstallPython(ctx context.Context) StageResult {
	return b.ProvisionPython(ctx)
}
