package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPythonTooling(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "poetry", content: "[tool.poetry]\nname = \"app\"\n", expected: "poetry"},
		{name: "uv", content: "[project]\nname = \"app\"\n\n[tool.uv]\ndev-dependencies = []\n", expected: "uv"},
		{name: "pdm", content: "[tool.pdm.dev-dependencies]\ntest = [\"pytest\"]\n", expected: "pdm"},
		{name: "plain", content: "[project]\nname = \"app\"\n", expected: "pip"},
		{name: "unrelated tool", content: "[tool.black]\nline-length = 100\n", expected: "pip"},
		{name: "malformed", content: "[project\n", expected: "pip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "pyproject.toml", tt.content)
			assert.Equal(t, tt.expected, DetectPythonTooling(dir))
		})
	}

	assert.Equal(t, "", DetectPythonTooling(t.TempDir()))
}

func TestDetectProjectKinds(t *testing.T) {
	dir := t.TempDir()
	b, _ := newTestBootstrapper(t, dir, newFakeSystem())
	assert.Empty(t, b.DetectProjectKinds())

	writeFile(t, dir, "requirements.txt", "")
	writeFile(t, dir, "package.json", "{}")
	writeFile(t, dir, "Taskfile.yml", "version: '3'\n")
	kinds := b.DetectProjectKinds()
	assert.Equal(t, []ProjectKind{ProjectKindPythonPip, ProjectKindNode, ProjectKindTaskfile}, kinds)
	assert.True(t, kinds[0].IsPython())
	assert.Equal(t, "Node.js", kinds[1].Lang())
}

func TestPackageScripts(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "package.json", `{"name":"app","scripts":{"test":"vitest","dev":"vite"}}`)
	scripts, err := PackageScripts(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "test"}, scripts)

	p = writeFile(t, dir, "empty/package.json", `{"name":"app"}`)
	scripts, err = PackageScripts(p)
	require.NoError(t, err)
	assert.Empty(t, scripts)

	_, err = PackageScripts(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestListTasks(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", FindTaskfile(dir))

	writeFile(t, dir, "taskfile.yaml", `version: "3"
tasks:
  test:
    cmds:
      - go test ./...
  build:
    cmds:
      - go build ./...
`)
	tf := FindTaskfile(dir)
	require.NotEmpty(t, tf)
	tasks, err := ListTasks(tf)
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "test"}, tasks)
}
