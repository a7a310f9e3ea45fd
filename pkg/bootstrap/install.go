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
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/livekit/protocol/logger"
)

type PackageManager string

const (
	AptGet   PackageManager = "apt-get"
	DNF      PackageManager = "dnf"
	Homebrew PackageManager = "brew"
)

var (
	ErrNoPackageManager = errors.New("no supported package manager found")
	ErrInstallDeclined  = errors.New("installation declined")
)

// packageManagers lists candidates per OS in preference order.
var packageManagers = map[OS][]PackageManager{
	OSLinux: {AptGet, DNF},
	OSMacOS: {Homebrew},
}

// PackageManager returns the first available package manager for the
// detected OS.
func (b *Bootstrapper) PackageManager() (PackageManager, bool) {
	for _, pm := range packageManagers[b.env.OS] {
		if b.CommandExists(string(pm)) {
			return pm, true
		}
	}
	return "", false
}

func (b *Bootstrapper) useSudo(pm PackageManager) bool {
	if pm == Homebrew || b.opts.IsRoot {
		return false
	}
	if b.opts.User != nil && !b.opts.User.SudoEnabled() {
		return false
	}
	return b.CommandExists("sudo")
}

func (b *Bootstrapper) packageCommand(pm PackageManager, args ...string) Command {
	cmd := Command{Name: string(pm), Args: args, Dir: b.env.Dir, Env: b.env.Environ()}
	if b.useSudo(pm) {
		cmd.Args = append([]string{string(pm)}, args...)
		cmd.Name = "sudo"
		cmd.Interactive = true
	}
	return cmd
}

// InstallTool installs tool with the first available package manager. A
// returned error is advisory: callers warn and carry on.
func (b *Bootstrapper) InstallTool(ctx context.Context, tool string) error {
	pm, ok := b.PackageManager()
	if !ok {
		return ErrNoPackageManager
	}
	pkg := b.opts.Project.PackageFor(tool)

	var cmds []Command
	switch pm {
	case AptGet:
		if !b.aptUpdated {
			b.aptUpdated = true
			if err := b.runner.Run(ctx, b.packageCommand(pm, "update")); err != nil {
				logger.Debugw("apt-get update failed, installing anyway", "error", err)
			}
		}
		cmds = append(cmds, b.packageCommand(pm, "install", "-y", pkg))
	case DNF:
		cmds = append(cmds, b.packageCommand(pm, "install", "-y", pkg))
	case Homebrew:
		cmds = append(cmds, b.packageCommand(pm, "install", pkg))
	}

	for _, cmd := range cmds {
		if err := b.runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("%s could not install %s: %w", pm, pkg, err)
		}
	}
	if !b.CommandExists(tool) {
		return fmt.Errorf("%s installed %s but %s is still not on PATH", pm, pkg, tool)
	}
	return nil
}

// EnsureTools checks the required base tools and installs missing ones on a
// best-effort basis. It never fails the run.
func (b *Bootstrapper) EnsureTools(ctx context.Context) StageResult {
	required := b.opts.Project.Tools.Required
	if len(required) == 0 {
		return skipped(StageTools, "No base tools configured")
	}

	missing := b.MissingTools(required)
	if len(missing) == 0 {
		return installed(StageTools, "Base tools available: %s", strings.Join(required, ", "))
	}
	b.printer.Warn("Missing tools: %s", strings.Join(missing, ", "))

	if b.opts.NoInstall || (b.opts.User != nil && !b.opts.User.AutoInstallEnabled()) {
		return warned(StageTools, "Automatic install disabled; install manually: %s", strings.Join(missing, ", "))
	}
	pm, ok := b.PackageManager()
	if !ok {
		return warned(StageTools, "%s for %s; install manually: %s", ErrNoPackageManager, b.env.OS, strings.Join(missing, ", "))
	}
	if err := b.confirmInstall(ctx, pm, missing); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, huh.ErrUserAborted) {
			return failed(StageTools, err, "Interrupted")
		}
		return warned(StageTools, "Skipped installing %s: %v", strings.Join(missing, ", "), err)
	}

	var failedTools []string
	for _, tool := range missing {
		if ctx.Err() != nil {
			return failed(StageTools, ctx.Err(), "Interrupted while installing %s", tool)
		}
		b.printer.Info("Installing %s with %s", tool, pm)
		if err := b.InstallTool(ctx, tool); err != nil {
			logger.Debugw("tool install failed", "tool", tool, "error", err)
			b.printer.Warn("Could not install %s; please install it manually", tool)
			failedTools = append(failedTools, tool)
			continue
		}
		b.printer.OK("Installed %s", tool)
	}
	if len(failedTools) > 0 {
		return warned(StageTools, "Still missing: %s", strings.Join(failedTools, ", "))
	}
	return installed(StageTools, "Installed missing tools: %s", strings.Join(missing, ", "))
}

func (b *Bootstrapper) confirmInstall(ctx context.Context, pm PackageManager, missing []string) error {
	assumeYes := b.opts.AssumeYes || (b.opts.User != nil && b.opts.User.AssumeYes)
	if assumeYes || b.opts.Confirm == nil {
		return nil
	}
	desc := fmt.Sprintf("%s will install: %s", pm, strings.Join(missing, ", "))
	if b.useSudo(pm) {
		desc += " (requires sudo)"
	}
	ok, err := b.opts.Confirm(ctx, "Install missing tools?", desc)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInstallDeclined
	}
	return nil
}
