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
	"runtime"
	"strings"
)

type OS string

const (
	OSLinux OS = "linux"
	OSMacOS OS = "macos"
	OSOther OS = "other"
)

// ClassifyOS maps an OS identification string, either `uname -s` output
// ("Linux", "Darwin") or a GOOS value ("linux", "darwin"), to an OS. Unknown
// or empty strings classify as OSOther.
func ClassifyOS(id string) OS {
	id = strings.ToLower(strings.TrimSpace(id))
	switch {
	case strings.HasPrefix(id, "linux"):
		return OSLinux
	case strings.HasPrefix(id, "darwin"), id == "macos", id == "mac os x":
		return OSMacOS
	default:
		return OSOther
	}
}

// DetectOS classifies the OS this binary is running on.
func DetectOS() OS {
	return ClassifyOS(runtime.GOOS)
}
