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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/livekit/protocol/logger"
)

const (
	ProjectTOMLFile = "bootstrap.toml"
)

var (
	ErrInvalidConfig     = errors.New("invalid configuration file")
	ErrInvalidMinVersion = fmt.Errorf("python.min_version is not a version: %w", ErrInvalidConfig)
)

// ProjectConfig describes where a project keeps the files a bootstrap run
// looks for. Every field has a default, so the TOML file is optional.
type ProjectConfig struct {
	Python  PythonConfig  `toml:"python"`
	Node    NodeConfig    `toml:"node"`
	Env     EnvConfig     `toml:"env"`
	Scripts ScriptsConfig `toml:"scripts"`
	Tools   ToolsConfig   `toml:"tools"`
}

type PythonConfig struct {
	Venv         string   `toml:"venv"`
	Requirements string   `toml:"requirements"`
	Interpreters []string `toml:"interpreters"`
	MinVersion   string   `toml:"min_version"`
}

type NodeConfig struct {
	Manifest string `toml:"manifest"`
}

type EnvConfig struct {
	Template string `toml:"template"`
	File     string `toml:"file"`
}

type ScriptsConfig struct {
	Dir     string   `toml:"dir"`
	Exclude []string `toml:"exclude"`
}

type ToolsConfig struct {
	Required []string `toml:"required"`
	// Packages maps a tool name to the package providing it, e.g. node = "nodejs".
	Packages map[string]string `toml:"packages"`
}

func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Python: PythonConfig{
			Venv:         ".venv",
			Requirements: "requirements.txt",
			Interpreters: []string{"python3", "python"},
			MinVersion:   "3.8",
		},
		Node: NodeConfig{
			Manifest: "package.json",
		},
		Env: EnvConfig{
			Template: ".env.example",
			File:     ".env",
		},
		Scripts: ScriptsConfig{
			Dir: "scripts",
		},
		Tools: ToolsConfig{
			Required: []string{"git", "curl", "make"},
			Packages: map[string]string{},
		},
	}
}

// PackageFor returns the package name that provides tool.
func (c *ProjectConfig) PackageFor(tool string) string {
	if pkg, ok := c.Tools.Packages[tool]; ok && pkg != "" {
		return pkg
	}
	return tool
}

// LoadProjectConfig reads tomlFileName from dir on top of the defaults. The
// returned bool reports whether the file existed.
func LoadProjectConfig(dir string, tomlFileName string) (*ProjectConfig, bool, error) {
	logger.Debugw(fmt.Sprintf("loading %s file", tomlFileName))
	config := DefaultProjectConfig()

	tomlFile := filepath.Join(dir, tomlFileName)
	if _, err := os.Stat(tomlFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, false, nil
		}
		return nil, true, err
	}

	if _, err := toml.DecodeFile(tomlFile, config); err != nil {
		return nil, true, fmt.Errorf("%s: %w: %v", tomlFileName, ErrInvalidConfig, err)
	}
	if err := config.validate(); err != nil {
		return nil, true, fmt.Errorf("%s: %w", tomlFileName, err)
	}
	return config, true, nil
}

func (c *ProjectConfig) validate() error {
	if c.Python.Venv == "" {
		return fmt.Errorf("python.venv cannot be empty: %w", ErrInvalidConfig)
	}
	if filepath.IsAbs(c.Python.Venv) {
		return fmt.Errorf("python.venv must be relative to the project: %w", ErrInvalidConfig)
	}
	if len(c.Python.Interpreters) == 0 {
		return fmt.Errorf("python.interpreters cannot be empty: %w", ErrInvalidConfig)
	}
	if c.Python.MinVersion != "" {
		if _, err := semver.StrictNewVersion(normalizeMinVersion(c.Python.MinVersion)); err != nil {
			return ErrInvalidMinVersion
		}
	}
	if c.Env.Template != "" && c.Env.Template == c.Env.File {
		return fmt.Errorf("env.template and env.file must differ: %w", ErrInvalidConfig)
	}
	if c.Tools.Packages == nil {
		c.Tools.Packages = map[string]string{}
	}
	return nil
}

// normalizeMinVersion pads "3" and "3.8" to a full major.minor.patch so the
// strict parser accepts them.
func normalizeMinVersion(v string) string {
	switch strings.Count(v, ".") {
	case 0:
		return v + ".0.0"
	case 1:
		return v + ".0"
	default:
		return v
	}
}
