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

	"github.com/pelletier/go-toml"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

type ProjectKind string

const (
	ProjectKindPythonPip       ProjectKind = "python.pip"
	ProjectKindPythonPyproject ProjectKind = "python.pyproject"
	ProjectKindNode            ProjectKind = "node"
	ProjectKindTaskfile        ProjectKind = "taskfile"
)

func (p ProjectKind) IsPython() bool {
	return p == ProjectKindPythonPip || p == ProjectKindPythonPyproject
}

func (p ProjectKind) Lang() string {
	switch {
	case p.IsPython():
		return "Python"
	case p == ProjectKindNode:
		return "Node.js"
	default:
		return ""
	}
}

// DetectProjectKinds lists every ecosystem a project declares, in a stable
// order. A project may be several at once.
func (b *Bootstrapper) DetectProjectKinds() []ProjectKind {
	var kinds []ProjectKind
	if util.FileExists(b.env.Path(b.opts.Project.Python.Requirements)) {
		kinds = append(kinds, ProjectKindPythonPip)
	}
	if util.FileExists(filepath.Join(b.env.Dir, "pyproject.toml")) {
		kinds = append(kinds, ProjectKindPythonPyproject)
	}
	if b.manifestExists() {
		kinds = append(kinds, ProjectKindNode)
	}
	if FindTaskfile(b.env.Dir) != "" {
		kinds = append(kinds, ProjectKindTaskfile)
	}
	return kinds
}

// DetectPythonTooling names the build tool a pyproject.toml is configured
// for (poetry, pdm, hatch, uv), "pip" for a plain pyproject.toml, or "" when
// there is none.
func DetectPythonTooling(dir string) string {
	path := filepath.Join(dir, "pyproject.toml")
	if !util.FileExists(path) {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "pip"
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "pip"
	}
	if tool, ok := doc["tool"].(map[string]any); ok {
		for _, name := range []string{"poetry", "pdm", "hatch", "uv"} {
			if _, ok := tool[name]; ok {
				return name
			}
		}
	}
	return "pip"
}
