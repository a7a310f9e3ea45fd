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

package util

import (
	"context"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether both stdin and stdout are terminals, which is
// required for prompts and spinners.
func Interactive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}

// Await runs action behind a spinner. Without a terminal the action runs
// directly.
func Await(title string, ctx context.Context, action func(ctx context.Context) error) error {
	if !IsTerminal(os.Stdout) {
		return action(ctx)
	}
	return spinner.New().
		Title(" " + title).
		ActionWithErr(action).
		Type(spinner.Pulse).
		Style(Theme.Focused.Title).
		Context(ctx).
		Run()
}

// Confirm asks a yes/no question, defaulting to yes.
func Confirm(ctx context.Context, title, description string) (bool, error) {
	ok := true
	if err := huh.NewForm(huh.NewGroup(huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&ok).
		Inline(false).
		WithTheme(Theme))).
		WithTheme(Theme).
		RunWithContext(ctx); err != nil {
		return false, err
	}
	return ok, nil
}
