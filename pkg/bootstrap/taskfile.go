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
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-task/task/v3"
	"gopkg.in/yaml.v3"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

const TaskTest = "test"

var taskfileNames = []string{"taskfile.yaml", "Taskfile.yml", "Taskfile.yaml", "taskfile.yml"}

// FindTaskfile returns the path of the project's taskfile, or "".
func FindTaskfile(dir string) string {
	for _, name := range taskfileNames {
		if p := filepath.Join(dir, name); util.FileExists(p) {
			return p
		}
	}
	return ""
}

// ListTasks returns the sorted task names declared in a taskfile. Only the
// top-level keys are read; the file is otherwise left to task itself.
func ListTasks(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf struct {
		Tasks map[string]yaml.Node `yaml:"tasks"`
	}
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tf.Tasks))
	for name := range tf.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func NewTaskExecutor(dir string, verbose bool) *task.Executor {
	var o io.Writer = io.Discard
	var e io.Writer = os.Stderr
	if verbose {
		o = os.Stdout
	}
	return &task.Executor{
		Dir:       dir,
		Force:     false,
		ForceAll:  false,
		Insecure:  false,
		Download:  false,
		Offline:   false,
		Watch:     false,
		Verbose:   false,
		Silent:    !verbose,
		AssumeYes: false,
		Dry:       false,
		Summary:   false,
		Parallel:  false,
		Color:     true,

		Stdin:  os.Stdin,
		Stdout: o,
		Stderr: e,
	}
}

// RunTask runs a single task from the taskfile in dir.
func RunTask(ctx context.Context, dir, taskName string, verbose bool) error {
	exe := NewTaskExecutor(dir, verbose)
	if err := exe.Setup(); err != nil {
		return err
	}
	return exe.Run(ctx, &task.Call{
		Task: taskName,
	})
}
