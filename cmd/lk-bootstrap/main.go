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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/urfave/cli/v3"

	"github.com/livekit/protocol/logger"

	lkbootstrap "github.com/livekit/lk-bootstrap"
)

func main() {
	app := newApp()

	// Register cleanup hook for SIGINT, SIGTERM, SIGQUIT
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	app := &cli.Command{
		Name:                   "lk-bootstrap",
		Usage:                  "Prepare a project checkout for local development",
		Description:            "Checks base tools, creates a Python virtual environment, installs Python and Node dependencies, creates .env from its template and marks scripts executable.",
		Version:                lkbootstrap.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Before:                 initLogger,
		Action:                 setup,
	}
	app.Commands = append(app.Commands, BootstrapCommands...)
	return app
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("quiet") {
		logger.SetLogger(logger.LogRLogger(logr.Discard()), "lk-bootstrap")
		return nil, nil
	}
	logConfig := &logger.Config{
		Level: "info",
	}
	if cmd.Bool("verbose") {
		logConfig.Level = "debug"
	}
	logger.InitFromConfig(logConfig, "lk-bootstrap")

	return nil, nil
}
