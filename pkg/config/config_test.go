package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadProjectConfigDefaults(t *testing.T) {
	cfg, exists, err := LoadProjectConfig(t.TempDir(), ProjectTOMLFile)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, DefaultProjectConfig(), cfg)
	assert.Equal(t, ".venv", cfg.Python.Venv)
	assert.Equal(t, []string{"python3", "python"}, cfg.Python.Interpreters)
	assert.Equal(t, ".env.example", cfg.Env.Template)
	assert.Equal(t, ".env", cfg.Env.File)
}

func TestLoadProjectConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectTOMLFile, `
[python]
venv = "env"
min_version = "3.10"

[scripts]
exclude = ["*.md"]

[tools]
required = ["git", "node"]

[tools.packages]
node = "nodejs"
`)

	cfg, exists, err := LoadProjectConfig(dir, ProjectTOMLFile)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "env", cfg.Python.Venv)
	assert.Equal(t, "3.10", cfg.Python.MinVersion)
	// untouched keys keep their defaults
	assert.Equal(t, "requirements.txt", cfg.Python.Requirements)
	assert.Equal(t, "package.json", cfg.Node.Manifest)
	assert.Equal(t, []string{"*.md"}, cfg.Scripts.Exclude)
	assert.Equal(t, []string{"git", "node"}, cfg.Tools.Required)
	assert.Equal(t, "nodejs", cfg.PackageFor("node"))
	assert.Equal(t, "git", cfg.PackageFor("git"))
}

func TestLoadProjectConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed toml", content: "[python\nvenv = "},
		{name: "empty venv", content: "[python]\nvenv = \"\"\n"},
		{name: "absolute venv", content: "[python]\nvenv = \"/opt/venv\"\n"},
		{name: "no interpreters", content: "[python]\ninterpreters = []\n"},
		{name: "bad min version", content: "[python]\nmin_version = \"three\"\n"},
		{name: "template equals file", content: "[env]\ntemplate = \".env\"\nfile = \".env\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ProjectTOMLFile, tt.content)
			_, exists, err := LoadProjectConfig(dir, ProjectTOMLFile)
			require.Error(t, err)
			assert.True(t, exists)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "expected ErrInvalidConfig, got %v", err)
		})
	}
}

func TestLoadProjectConfigMinVersion(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"3", true},
		{"3.8", true},
		{"3.10.2", true},
		{"3..8", false},
		{"3.8.1.4", false},
		{".3", false},
		{"3.", false},
		{"v3.8", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ProjectTOMLFile, "[python]\nmin_version = \""+tt.version+"\"\n")
			cfg, _, err := LoadProjectConfig(dir, ProjectTOMLFile)
			if !tt.valid {
				require.ErrorIs(t, err, ErrInvalidMinVersion)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, cfg.Python.MinVersion)
		})
	}
}

func TestLoadUserConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	loc, err := UserConfigLocation()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lk-bootstrap", "config.yaml"), loc)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AutoInstallEnabled())
	assert.True(t, cfg.SudoEnabled())
	assert.False(t, cfg.AssumeYes)

	writeFile(t, dir, "lk-bootstrap/config.yaml", "auto_install: false\nassume_yes: true\nuse_sudo: false\n")
	cfg, err = LoadUserConfig()
	require.NoError(t, err)
	assert.False(t, cfg.AutoInstallEnabled())
	assert.False(t, cfg.SudoEnabled())
	assert.True(t, cfg.AssumeYes)
}

func TestLoadUserConfigInvalid(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "auto_install: [nope\n")
	_, err := LoadUserConfigFile(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
