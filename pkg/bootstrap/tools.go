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

// CommandExists reports whether cmd resolves on PATH.
func (b *Bootstrapper) CommandExists(cmd string) bool {
	_, err := b.lookPath(cmd)
	return err == nil
}

// MissingTools returns the tools in names that are not on PATH, in order.
func (b *Bootstrapper) MissingTools(names []string) []string {
	var missing []string
	for _, name := range names {
		if !b.CommandExists(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// firstCommand returns the path of the first name that resolves on PATH.
func (b *Bootstrapper) firstCommand(names ...string) (string, string, bool) {
	for _, name := range names {
		if p, err := b.lookPath(name); err == nil {
			return name, p, true
		}
	}
	return "", "", false
}
