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
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/livekit/lk-bootstrap/pkg/util"
)

const (
	userConfigDir  = "lk-bootstrap"
	userConfigFile = "config.yaml"
)

// UserConfig holds per-machine preferences. It lives outside of any project
// and is never written by a bootstrap run.
type UserConfig struct {
	// AutoInstall controls whether missing base tools are installed with the
	// system package manager.
	AutoInstall *bool `yaml:"auto_install"`
	// AssumeYes skips the confirmation prompt before installing.
	AssumeYes bool `yaml:"assume_yes"`
	// UseSudo prefixes package manager commands with sudo when not root.
	UseSudo *bool `yaml:"use_sudo"`
}

func (c *UserConfig) AutoInstallEnabled() bool {
	return c.AutoInstall == nil || *c.AutoInstall
}

func (c *UserConfig) SudoEnabled() bool {
	return c.UseSudo == nil || *c.UseSudo
}

// LoadUserConfig reads the user config, returning defaults when it does not
// exist.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := UserConfigLocation()
	if err != nil {
		return nil, err
	}
	return LoadUserConfigFile(configPath)
}

func LoadUserConfigFile(configPath string) (*UserConfig, error) {
	c := &UserConfig{}
	if !util.FileExists(configPath) {
		return c, nil
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", configPath, ErrInvalidConfig, err)
	}
	return c, nil
}

// UserConfigLocation honors XDG_CONFIG_HOME and falls back to ~/.config.
func UserConfigLocation() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, userConfigDir, userConfigFile), nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".config", userConfigDir, userConfigFile), nil
}
