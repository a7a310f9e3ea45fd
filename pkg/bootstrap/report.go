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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

// Printer writes operator-facing status lines, each prefixed with a colored
// tag.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) line(tag string, format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	p.line(util.InfoTag.String(), format, args...)
}

func (p *Printer) OK(format string, args ...any) {
	p.line(util.OKTag.String(), format, args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.line(util.WarnTag.String(), format, args...)
}

func (p *Printer) Err(format string, args ...any) {
	p.line(util.ErrTag.String(), format, args...)
}

func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Result prints a stage result. Results without detail are silent.
func (p *Printer) Result(r StageResult) {
	if r.Detail == "" && r.Err == nil {
		return
	}
	switch r.Outcome {
	case OutcomeSkipped:
		p.Info("%s", r.Detail)
	case OutcomeInstalled:
		p.OK("%s", r.Detail)
	case OutcomeWarned:
		p.Warn("%s", r.Detail)
	case OutcomeFailed:
		if r.Err != nil {
			p.Err("%s: %v", r.Detail, r.Err)
		} else {
			p.Err("%s", r.Detail)
		}
	}
}

// Report prints the completion summary and the next steps that apply to
// what is on disk now.
func (b *Bootstrapper) Report(summary *Summary) {
	cfg := b.opts.Project
	p := b.printer

	p.Plain("")
	if summary != nil && summary.Count(OutcomeWarned) > 0 {
		p.OK("Bootstrap complete with %d warning(s)", summary.Count(OutcomeWarned))
	} else {
		p.OK("Bootstrap complete")
	}
	p.Plain("")
	p.Plain("%s", util.HeaderStyle.Render("Next steps:"))

	if b.venvExists() {
		activate := filepath.ToSlash(filepath.Join(cfg.Python.Venv, "bin", "activate"))
		p.Plain("  - Activate the Python environment: %s", util.Accented("source "+activate))
	}
	if b.manifestExists() {
		scripts, err := PackageScripts(b.env.Path(cfg.Node.Manifest))
		if err != nil {
			logger.Debugw("could not read package scripts", "error", err)
		}
		if len(scripts) > 0 {
			p.Plain("  - Run package scripts with %s (available: %s)", util.Accented("npm run <script>"), strings.Join(scripts, ", "))
		} else {
			p.Plain("  - Run package scripts with %s", util.Accented("npm run <script>"))
		}
	}
	if util.FileExists(b.env.Path(cfg.Env.File)) {
		if keys, err := EmptyEnvKeys(b.env.Path(cfg.Env.File)); err != nil {
			p.Warn("Could not parse %s: %v", cfg.Env.File, err)
		} else if len(keys) > 0 {
			p.Plain("  - Fill in %s in %s", strings.Join(keys, ", "), cfg.Env.File)
		}
	}
	if tf := FindTaskfile(b.env.Dir); tf != "" {
		if tasks, err := ListTasks(tf); err == nil && len(tasks) > 0 {
			p.Plain("  - Taskfile tasks: %s", strings.Join(util.MapStrings(tasks, util.WrapWith("`")), ", "))
		}
	}
	p.Plain("  - Run tests with %s (or %s); see %s for build targets", util.Accented("lk-bootstrap test"), util.Accented("make test"), util.Dimmed("lk-bootstrap --help"))
}
