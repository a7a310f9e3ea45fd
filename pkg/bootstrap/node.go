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
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

type WebPackageManager string

const (
	NPM  WebPackageManager = "npm"
	PNPM WebPackageManager = "pnpm"
	Yarn WebPackageManager = "yarn"
)

// AutodetectWebPackageManagers lists the Node package managers on PATH.
func (b *Bootstrapper) AutodetectWebPackageManagers() []WebPackageManager {
	var pms []WebPackageManager
	for _, pm := range []WebPackageManager{NPM, PNPM, Yarn} {
		if b.CommandExists(string(pm)) {
			pms = append(pms, pm)
		}
	}
	return pms
}

func (b *Bootstrapper) manifestExists() bool {
	return util.FileExists(b.env.Path(b.opts.Project.Node.Manifest))
}

// ProvisionNode runs a clean install when a package manifest exists. Without
// npm it warns and does not attempt the install; a failing install is fatal.
func (b *Bootstrapper) ProvisionNode(ctx context.Context) StageResult {
	manifest := b.opts.Project.Node.Manifest
	if !b.manifestExists() {
		return skipped(StageNode, "")
	}
	npm, err := b.lookPath(string(NPM))
	if err != nil {
		return warned(StageNode, "%s found but npm is not installed; skipping Node dependencies", manifest)
	}

	b.printer.Info("Installing Node dependencies (npm ci)")
	cmd := Command{Name: npm, Args: []string{"ci"}, Dir: b.env.Dir, Env: b.env.Environ()}
	if err := b.runner.Run(ctx, cmd); err != nil {
		return failed(StageNode, errors.Wrapf(err, "installing %s", manifest), "Node dependency install failed")
	}
	return installed(StageNode, "Installed Node dependencies from %s", manifest)
}

// PackageScripts returns the sorted script names declared in a package.json.
func PackageScripts(manifestPath string) ([]string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pkg.Scripts))
	for name := range pkg.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
