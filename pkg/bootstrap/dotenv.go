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
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/livekit/protocol/logger"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

// MaterializeEnvFile copies the env template to the env file when the template
// exists and the env file does not. An existing env file is never touched.
func (b *Bootstrapper) MaterializeEnvFile() StageResult {
	cfg := b.opts.Project.Env
	if cfg.Template == "" || !util.FileExists(b.env.Path(cfg.Template)) {
		return skipped(StageEnvFile, "")
	}
	if util.FileExists(b.env.Path(cfg.File)) {
		return skipped(StageEnvFile, "Keeping existing %s", cfg.File)
	}

	b.printer.Info("Copying %s -> %s", cfg.Template, cfg.File)
	copied, err := util.CopyFileIfAbsent(b.env.Path(cfg.Template), b.env.Path(cfg.File))
	if err != nil {
		return warned(StageEnvFile, "Could not create %s: %v", cfg.File, err)
	}
	if !copied {
		return skipped(StageEnvFile, "Keeping existing %s", cfg.File)
	}
	return installed(StageEnvFile, "Created %s; edit it with your local settings", cfg.File)
}

// EmptyEnvKeys returns the keys of an env file that have no value, sorted.
func EmptyEnvKeys(path string) ([]string, error) {
	envMap, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	var keys []string
	for k, v := range envMap {
		if strings.TrimSpace(v) == "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// LoadEnvFile exposes the project's env file to child processes without
// overriding variables already set in the environment.
func (b *Bootstrapper) LoadEnvFile() int {
	path := b.env.Path(b.opts.Project.Env.File)
	if !util.FileExists(path) {
		return 0
	}
	envMap, err := godotenv.Read(path)
	if err != nil {
		b.printer.Warn("Could not parse %s: %v", b.opts.Project.Env.File, err)
		return 0
	}
	n := 0
	for k, v := range envMap {
		if b.env.SetDefault(k, v) {
			n++
		}
	}
	logger.Debugw("loaded env file", "path", path, "vars", n)
	return n
}
