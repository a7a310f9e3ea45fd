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
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/livekit/lk-bootstrap/pkg/bootstrap"
	"github.com/livekit/lk-bootstrap/pkg/config"
	"github.com/livekit/lk-bootstrap/pkg/util"
)

var (
	workingDir   = "."
	tomlFilename = config.ProjectTOMLFile
	verbose      bool

	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "Project `DIR` to bootstrap",
			Value:       ".",
			Destination: &workingDir,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Project config `FILE` name, relative to --dir",
			Value:       config.ProjectTOMLFile,
			Destination: &tomlFilename,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "Stream child process output and print debug logs",
			Destination: &verbose,
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress log output",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Install missing tools without asking",
		},
		&cli.BoolFlag{
			Name:  "no-install",
			Usage: "Never install missing tools, only report them",
		},
	}
	jsonFlag = &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}

	// swapped in tests
	newRunner   = func(verbose bool) bootstrap.Runner { return bootstrap.NewExecRunner(verbose) }
	lookPath    bootstrap.LookPathFunc
	stdout      = io.Writer(os.Stdout)
	loadUserCfg = config.LoadUserConfig
)

func newBootstrapper(cmd *cli.Command) (*bootstrap.Bootstrapper, error) {
	project, exists, err := config.LoadProjectConfig(workingDir, tomlFilename)
	if err != nil {
		return nil, err
	}
	if !exists && tomlFilename != config.ProjectTOMLFile {
		return nil, fmt.Errorf("config file %s not found in %s", tomlFilename, workingDir)
	}
	user, err := loadUserCfg()
	if err != nil {
		return nil, err
	}

	opts := bootstrap.Options{
		Dir:       workingDir,
		Project:   project,
		User:      user,
		Runner:    newRunner(verbose),
		LookPath:  lookPath,
		Out:       stdout,
		AssumeYes: cmd.Bool("yes"),
		NoInstall: cmd.Bool("no-install"),
		IsRoot:    os.Geteuid() == 0,
		Verbose:   verbose,
	}
	if util.Interactive() {
		opts.Confirm = util.Confirm
	}
	return bootstrap.New(opts)
}
