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

import "fmt"

type Stage string

const (
	StageTools   Stage = "tools"
	StagePython  Stage = "python"
	StageNode    Stage = "node"
	StageEnvFile Stage = "env-file"
	StageScripts Stage = "scripts"
	StageTests   Stage = "tests"
	StageClean   Stage = "clean"
)

// Outcome is the result class of a stage. Only OutcomeFailed stops a run.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeInstalled
	OutcomeWarned
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInstalled:
		return "installed"
	case OutcomeWarned:
		return "warned"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type StageResult struct {
	Stage   Stage
	Outcome Outcome
	// Detail is printed with the result; an empty detail prints nothing.
	Detail string
	Err    error
}

func (r StageResult) Fatal() bool {
	return r.Outcome == OutcomeFailed
}

func skipped(stage Stage, format string, args ...any) StageResult {
	return StageResult{Stage: stage, Outcome: OutcomeSkipped, Detail: fmt.Sprintf(format, args...)}
}

func installed(stage Stage, format string, args ...any) StageResult {
	return StageResult{Stage: stage, Outcome: OutcomeInstalled, Detail: fmt.Sprintf(format, args...)}
}

func warned(stage Stage, format string, args ...any) StageResult {
	return StageResult{Stage: stage, Outcome: OutcomeWarned, Detail: fmt.Sprintf(format, args...)}
}

func failed(stage Stage, err error, format string, args ...any) StageResult {
	return StageResult{Stage: stage, Outcome: OutcomeFailed, Detail: fmt.Sprintf(format, args...), Err: err}
}

// Summary collects the results of a run in execution order.
type Summary struct {
	OS      OS
	Results []StageResult
}

func (s *Summary) Result(stage Stage) (StageResult, bool) {
	for _, r := range s.Results {
		if r.Stage == stage {
			return r, true
		}
	}
	return StageResult{}, false
}

// Count returns how many results have the given outcome.
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
