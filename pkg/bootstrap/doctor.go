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
	"strings"

	"github.com/livekit/protocol/logger"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

type ToolStatus struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// DoctorReport describes what a setup run would find, without changing
// anything on disk.
type DoctorReport struct {
	OS                 OS                  `json:"os"`
	PackageManager     PackageManager      `json:"package_manager,omitempty"`
	Tools              []ToolStatus        `json:"tools"`
	MissingTools       int                 `json:"missing_tools"`
	FailedProbes       int                 `json:"failed_probes,omitempty"`
	Python             *ToolStatus         `json:"python,omitempty"`
	PythonTooOld       bool                `json:"python_too_old,omitempty"`
	VenvExists         bool                `json:"venv_exists"`
	ProjectKinds       []ProjectKind       `json:"project_kinds"`
	WebPackageManagers []WebPackageManager `json:"web_package_managers"`
	EnvFileExists      bool                `json:"env_file_exists"`
	EmptyEnvKeys       []string            `json:"empty_env_keys,omitempty"`
}

// Doctor inspects the machine and the project. Version probes run
// concurrently; a failed probe only leaves the version empty.
func (b *Bootstrapper) Doctor(ctx context.Context) (*DoctorReport, error) {
	cfg := b.opts.Project
	report := &DoctorReport{
		OS:                 b.env.OS,
		VenvExists:         b.venvExists(),
		ProjectKinds:       b.DetectProjectKinds(),
		WebPackageManagers: b.AutodetectWebPackageManagers(),
	}
	if pm, ok := b.PackageManager(); ok {
		report.PackageManager = pm
	}

	report.Tools = make([]ToolStatus, len(cfg.Tools.Required))
	failedProbes := atomic.NewInt32(0)
	group, groupCtx := errgroup.WithContext(ctx)
	for i, name := range cfg.Tools.Required {
		report.Tools[i].Name = name
		path, err := b.lookPath(name)
		if err != nil {
			report.MissingTools++
			continue
		}
		report.Tools[i].Found = true
		report.Tools[i].Path = path
		group.Go(func() error {
			version, ok := b.probeVersion(groupCtx, path)
			if !ok {
				failedProbes.Inc()
			}
			report.Tools[i].Version = version
			return nil
		})
	}
	if python, ok := b.FindPython(); ok {
		report.Python = &ToolStatus{Name: "python", Found: true, Path: python}
		group.Go(func() error {
			out, ok := b.probeVersion(groupCtx, python)
			if !ok {
				failedProbes.Inc()
				return nil
			}
			version, ok, err := CheckPythonVersion(out, cfg.Python.MinVersion)
			if err != nil {
				logger.Debugw("could not parse python version", "output", out, "error", err)
				return nil
			}
			report.Python.Version = version
			report.PythonTooOld = !ok
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.FailedProbes = int(failedProbes.Load())

	envFile := b.env.Path(cfg.Env.File)
	if util.FileExists(envFile) {
		report.EnvFileExists = true
		if keys, err := EmptyEnvKeys(envFile); err == nil {
			report.EmptyEnvKeys = keys
		}
	}
	return report, nil
}

// probeVersion runs `path --version` and reports whether the probe succeeded.
func (b *Bootstrapper) probeVersion(ctx context.Context, path string) (string, bool) {
	out, err := b.runner.Output(ctx, Command{Name: path, Args: []string{"--version"}, Dir: b.env.Dir, Env: b.env.Environ()})
	if err != nil {
		logger.Debugw("version probe failed", "command", path, "error", err)
		return "", false
	}
	if v := util.ExtractVersion(out); v != "" {
		return v, true
	}
	return util.EllipsizeTo(util.FirstLine(out), 40), true
}

// PrintDoctor writes a human-readable form of report.
func (b *Bootstrapper) PrintDoctor(report *DoctorReport) {
	p := b.printer
	p.Info("OS: %s", report.OS)
	if report.PackageManager != "" {
		p.Info("Package manager: %s", report.PackageManager)
	} else {
		p.Warn("No supported package manager found")
	}
	for _, t := range report.Tools {
		if t.Found {
			p.OK("%s %s (%s)", t.Name, t.Version, t.Path)
		} else {
			p.Warn("%s not found", t.Name)
		}
	}
	switch {
	case report.Python == nil:
		p.Warn("Python not found (tried %s)", strings.Join(b.opts.Project.Python.Interpreters, ", "))
	case report.PythonTooOld:
		p.Warn("Python %s is older than %s", report.Python.Version, b.opts.Project.Python.MinVersion)
	default:
		p.OK("Python %s (%s)", report.Python.Version, report.Python.Path)
	}
	if report.VenvExists {
		p.OK("Virtual environment %s exists", b.opts.Project.Python.Venv)
	} else {
		p.Info("Virtual environment %s not created yet", b.opts.Project.Python.Venv)
	}
	if len(report.ProjectKinds) > 0 {
		kinds := make([]string, len(report.ProjectKinds))
		for i, k := range report.ProjectKinds {
			kinds[i] = string(k)
		}
		p.Info("Project: %s", strings.Join(kinds, ", "))
	} else {
		p.Info("Project: no manifests found")
	}
	if len(report.WebPackageManagers) > 0 {
		pms := make([]string, len(report.WebPackageManagers))
		for i, pm := range report.WebPackageManagers {
			pms[i] = string(pm)
		}
		p.Info("Node package managers: %s", strings.Join(pms, ", "))
	}
	if report.FailedProbes > 0 {
		p.Warn("%d version probe(s) failed; rerun with --verbose for details", report.FailedProbes)
	}
	if len(report.EmptyEnvKeys) > 0 {
		p.Warn("Empty keys in %s: %s", b.opts.Project.Env.File, strings.Join(report.EmptyEnvKeys, ", "))
	}
}
