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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

const maxCapturedOutput = 4096

type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
	// Interactive attaches the terminal, e.g. so sudo can prompt.
	Interactive bool
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner starts child processes. Every external action of a bootstrap run
// goes through it.
type Runner interface {
	// Run executes cmd to completion.
	Run(ctx context.Context, cmd Command) error
	// Output executes cmd and returns its combined output.
	Output(ctx context.Context, cmd Command) (string, error)
}

type LookPathFunc func(file string) (string, error)

// ExecRunner runs commands with os/exec. Unless Verbose is set, output is
// captured behind a spinner and only shown when the command fails.
type ExecRunner struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
}

func NewExecRunner(verbose bool) *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Verbose: verbose}
}

func (r *ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}
	return cmd
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	logger.Debugw("running command", "command", c.String(), "dir", c.Dir)
	cmd := r.command(ctx, c)

	if r.Verbose || c.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", c.String(), err)
		}
		return nil
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := util.Await("Running "+c.String(), ctx, func(ctx context.Context) error {
		return cmd.Run()
	})
	if err != nil {
		return &CommandError{Command: c.String(), Output: tail(out.String(), maxCapturedOutput), Err: err}
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	logger.Debugw("probing command", "command", c.String())
	out, err := r.command(ctx, c).CombinedOutput()
	return string(out), err
}

// CommandError carries the captured output of a failed child process.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v\nOutput:\n%s", e.Command, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// tail keeps at most the last n bytes of s, starting on a rune boundary.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return "..." + s[start:]
}
