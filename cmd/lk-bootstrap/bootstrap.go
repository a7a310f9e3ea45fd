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
package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/livekit/lk-bootstrap/pkg/bootstrap"
	"github.com/livekit/lk-bootstrap/pkg/util"
)

var BootstrapCommands = []*cli.Command{
	{
		Name:   "setup",
		Usage:  "Run the full bootstrap: tools, Python, Node, .env and scripts",
		Action: setup,
	},
	{
		Name:   "venv",
		Usage:  "Create the Python virtual environment only",
		Action: runStage(func(b *bootstrap.Bootstrapper) stageFunc { return b.CreateVenv }),
	},
	{
		Name:   "install-py",
		Usage:  "Create the virtual environment and install Python requirements",
		Action: runStage(func(b *bootstrap.Bootstrapper) stageFunc { return b.InstallPython }),
	},
	{
		Name:   "npm-install",
		Usage:  "Install Node dependencies with npm ci",
		Action: runStage(func(b *bootstrap.Bootstrapper) stageFunc { return b.ProvisionNode }),
	},
	{
		Name:   "test",
		Usage:  "Run npm test, pytest and the taskfile test task; failures are reported only",
		Action: runStage(func(b *bootstrap.Bootstrapper) stageFunc { return b.RunTests }),
	},
	{
		Name:   "clean",
		Usage:  "Remove the Python virtual environment",
		Action: runStage(func(b *bootstrap.Bootstrapper) stageFunc { return b.Clean }),
	},
	{
		Name:   "doctor",
		Usage:  "Report tools, versions and project manifests without changing anything",
		Flags:  []cli.Flag{jsonFlag},
		Action: doctor,
	},
}

type stageFunc = func(context.Context) bootstrap.StageResult

func setup(ctx context.Context, cmd *cli.Command) error {
	b, err := newBootstrapper(cmd)
	if err != nil {
		return err
	}
	_, err = b.Setup(ctx)
	return err
}

func runStage(pick func(*bootstrap.Bootstrapper) stageFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		b, err := newBootstrapper(cmd)
		if err != nil {
			return err
		}
		return b.Run(ctx, pick(b))
	}
}

func doctor(ctx context.Context, cmd *cli.Command) error {
	b, err := newBootstrapper(cmd)
	if err != nil {
		return err
	}
	report, err := b.Doctor(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		util.FprintJSON(stdout, report)
		return nil
	}
	b.PrintDoctor(report)
	return nil
}
