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

	"github.com/livekit/protocol/logger"
	"github.com/moby/patternmatcher"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

const executeBits os.FileMode = 0o111

// NormalizeScripts marks every direct entry of the scripts directory as
// executable. Failures are logged and swallowed.
func (b *Bootstrapper) NormalizeScripts() StageResult {
	cfg := b.opts.Project.Scripts
	dir := b.env.Path(cfg.Dir)
	if cfg.Dir == "" || !util.DirExists(dir) {
		return skipped(StageScripts, "")
	}

	var matcher *patternmatcher.PatternMatcher
	if len(cfg.Exclude) > 0 {
		m, err := patternmatcher.New(cfg.Exclude)
		if err != nil {
			logger.Debugw("invalid scripts exclude patterns", "patterns", cfg.Exclude, "error", err)
		} else {
			matcher = m
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debugw("could not read scripts directory", "dir", dir, "error", err)
		return skipped(StageScripts, "")
	}

	n := 0
	for _, entry := range entries {
		if matcher != nil {
			if excluded, err := matcher.MatchesOrParentMatches(entry.Name()); err == nil && excluded {
				continue
			}
		}
		p := filepath.Join(dir, entry.Name())
		info, err := os.Stat(p)
		if err != nil {
			logger.Debugw("could not stat script", "path", p, "error", err)
			continue
		}
		if err := os.Chmod(p, info.Mode().Perm()|executeBits); err != nil {
			logger.Debugw("could not chmod script", "path", p, "error", err)
			continue
		}
		n++
	}
	return installed(StageScripts, "Marked %d file(s) in %s executable", n, cfg.Dir)
}
