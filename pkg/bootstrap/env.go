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
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Env is the process state a shell script would keep implicitly: the project
// directory, the detected OS and the activated virtual environment. Every
// child process gets its environment from Env.Environ, which is how "activate"
// reaches pip and pytest.
type Env struct {
	Dir  string
	OS   OS
	Venv string

	base  []string
	extra map[string]string
}

func NewEnv(dir string, osKind OS, environ []string) *Env {
	return &Env{
		Dir:   dir,
		OS:    osKind,
		base:  environ,
		extra: map[string]string{},
	}
}

// Path resolves name relative to the project directory.
func (e *Env) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.Dir, name)
}

func (e *Env) ActivateVenv(venvDir string) {
	e.Venv = e.Path(venvDir)
}

func (e *Env) Activated() bool {
	return e.Venv != ""
}

// VenvBin returns the path of name inside the venv's executable directory.
func (e *Env) VenvBin(venvDir, name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Path(venvDir), "Scripts", name+".exe")
	}
	return filepath.Join(e.Path(venvDir), "bin", name)
}

// Lookup returns a variable from the environment children will see.
func (e *Env) Lookup(key string) (string, bool) {
	for _, kv := range e.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// SetDefault adds key=value for children unless the inherited environment
// already defines key.
func (e *Env) SetDefault(key, value string) bool {
	if _, ok := e.lookupBase(key); ok {
		return false
	}
	e.extra[key] = value
	return true
}

func (e *Env) Environ() []string {
	env := make([]string, 0, len(e.base)+len(e.extra)+2)
	for _, kv := range e.base {
		k, _, _ := strings.Cut(kv, "=")
		if e.Activated() && (k == "PATH" || k == "VIRTUAL_ENV" || k == "PYTHONHOME") {
			continue
		}
		env = append(env, kv)
	}
	if e.Activated() {
		bin := filepath.Dir(e.VenvBin(e.Venv, "python"))
		path := bin
		if p, ok := e.lookupBase("PATH"); ok && p != "" {
			path += string(os.PathListSeparator) + p
		}
		env = append(env, "VIRTUAL_ENV="+e.Venv, "PATH="+path)
	}
	keys := make([]string, 0, len(e.extra))
	for k := range e.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+e.extra[k])
	}
	return env
}

func (e *Env) lookupBase(key string) (string, bool) {
	for _, kv := range e.base {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}
