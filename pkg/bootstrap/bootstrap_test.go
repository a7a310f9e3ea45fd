package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMissingDir(t *testing.T) {
	_, err := New(Options{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestSetupEmptyProject(t *testing.T) {
	dir := t.TempDir()
	sys := newFakeSystem(append(baseTools, "python3")...)
	b, out := newTestBootstrapper(t, dir, sys)

	summary, err := b.Setup(context.Background())
	require.NoError(t, err)

	r, ok := summary.Result(StagePython)
	require.True(t, ok)
	assert.Equal(t, OutcomeSkipped, r.Outcome)
	r, ok = summary.Result(StageNode)
	require.True(t, ok)
	assert.Equal(t, OutcomeSkipped, r.Outcome)
	assert.Zero(t, summary.Count(OutcomeFailed))

	assert.DirExists(t, filepath.Join(dir, ".venv"))
	assert.NoFileExists(t, filepath.Join(dir, ".env"))
	assert.False(t, sys.ran("pip install"))
	assert.Contains(t, out.String(), "Detected OS: linux")
	assert.Contains(t, out.String(), "Bootstrap complete")
	assert.Contains(t, out.String(), "source .venv/bin/activate")
	assert.NotContains(t, out.String(), "npm")
	assert.NotContains(t, out.String(), "Node")
}

func TestSetupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask==3.0.0\n")
	writeFile(t, dir, ".env.example", "API_KEY=\nDEBUG=1\n")
	sys := newFakeSystem(append(baseTools, "python3")...)

	b, out := newTestBootstrapper(t, dir, sys)
	_, err := b.Setup(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Copying .env.example -> .env")
	assert.Contains(t, out.String(), "Fill in API_KEY in .env")
	assert.True(t, sys.ran("-m venv .venv"))
	assert.True(t, sys.ran("-m pip install --upgrade pip"))
	assert.True(t, sys.ran("-m pip install -r requirements.txt"))

	// local edits to .env survive a second run
	writeFile(t, dir, ".env", "API_KEY=secret\nDEBUG=1\n")
	sys2 := newFakeSystem(append(baseTools, "python3")...)
	b, out = newTestBootstrapper(t, dir, sys2)
	_, err = b.Setup(context.Background())
	require.NoError(t, err)

	assert.False(t, sys2.ran("-m venv"))
	assert.NotContains(t, out.String(), "Copying")
	assert.Contains(t, out.String(), "Keeping existing .env")
	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=secret\nDEBUG=1\n", string(data))
}

func TestSetupPipFailureStopsRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "nonexistent-package==0.0.0\n")
	writeFile(t, dir, "package.json", `{"name":"app"}`)
	sys := newFakeSystem(append(baseTools, "python3", "npm")...)
	sys.fail["pip install -r"] = errors.New("exit status 1")

	b, out := newTestBootstrapper(t, dir, sys)
	summary, err := b.Setup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requirements.txt")

	r, ok := summary.Result(StagePython)
	require.True(t, ok)
	assert.Equal(t, OutcomeFailed, r.Outcome)
	_, ok = summary.Result(StageNode)
	assert.False(t, ok, "stages after a failure must not run")
	assert.False(t, sys.ran("npm ci"))
	assert.NotContains(t, out.String(), "Bootstrap complete")
}

func TestSetupVenvFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	sys := newFakeSystem(append(baseTools, "python3")...)
	sys.fail["-m venv"] = errors.New("ensurepip is not available")

	b, _ := newTestBootstrapper(t, dir, sys)
	summary, err := b.Setup(context.Background())
	require.Error(t, err)
	r, _ := summary.Result(StagePython)
	assert.Equal(t, OutcomeFailed, r.Outcome)
}

func TestSetupWithoutPython(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask\n")
	sys := newFakeSystem(baseTools...)

	b, out := newTestBootstrapper(t, dir, sys)
	summary, err := b.Setup(context.Background())
	require.NoError(t, err)
	r, _ := summary.Result(StagePython)
	assert.Equal(t, OutcomeWarned, r.Outcome)
	assert.Contains(t, out.String(), "Python not found")
	assert.NoDirExists(t, filepath.Join(dir, ".venv"))
}

func TestSetupNode(t *testing.T) {
	t.Run("installs with npm ci", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", `{"name":"app","scripts":{"dev":"vite","build":"vite build"}}`)
		sys := newFakeSystem(append(baseTools, "npm")...)

		b, out := newTestBootstrapper(t, dir, sys)
		summary, err := b.Setup(context.Background())
		require.NoError(t, err)

		r, _ := summary.Result(StageNode)
		assert.Equal(t, OutcomeInstalled, r.Outcome)
		require.True(t, sys.ran("npm ci"))
		for _, c := range sys.commands {
			if strings.HasSuffix(c.String(), "npm ci") {
				assert.Equal(t, b.Env().Dir, c.Dir)
			}
		}
		assert.Contains(t, out.String(), "npm run <script>")
		assert.Contains(t, out.String(), "build, dev")
	})

	t.Run("warns without npm", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", `{"name":"app"}`)
		sys := newFakeSystem(baseTools...)

		b, out := newTestBootstrapper(t, dir, sys)
		summary, err := b.Setup(context.Background())
		require.NoError(t, err)

		r, _ := summary.Result(StageNode)
		assert.Equal(t, OutcomeWarned, r.Outcome)
		assert.False(t, sys.ran("npm"))
		assert.Contains(t, out.String(), "npm is not installed")
	})

	t.Run("failed install is fatal", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", `{"name":"app"}`)
		writeFile(t, dir, ".env.example", "A=1\n")
		sys := newFakeSystem(append(baseTools, "npm")...)
		sys.fail["npm ci"] = errors.New("exit status 1")

		b, _ := newTestBootstrapper(t, dir, sys)
		summary, err := b.Setup(context.Background())
		require.Error(t, err)
		_, ok := summary.Result(StageEnvFile)
		assert.False(t, ok)
		assert.NoFileExists(t, filepath.Join(dir, ".env"))
	})
}

func TestSetupCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b, _ := newTestBootstrapper(t, t.TempDir(), newFakeSystem(baseTools...))
	_, err := b.Setup(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	b, _ := newTestBootstrapper(t, dir, newFakeSystem())

	r := b.Clean(context.Background())
	assert.Equal(t, OutcomeSkipped, r.Outcome)

	writeFile(t, dir, ".venv/bin/python", "")
	r = b.Clean(context.Background())
	assert.Equal(t, OutcomeInstalled, r.Outcome)
	assert.NoDirExists(t, filepath.Join(dir, ".venv"))
}

func TestRunTests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name":"app"}`)
	writeFile(t, dir, ".venv/bin/python", "")
	writeFile(t, dir, ".env", "API_KEY=from-file\nHOME=/elsewhere\n")
	sys := newFakeSystem("npm")
	sys.fail["npm test"] = errors.New("exit status 1")

	b, out := newTestBootstrapper(t, dir, sys)
	r := b.RunTests(context.Background())
	assert.Equal(t, OutcomeWarned, r.Outcome)
	assert.False(t, r.Fatal())
	assert.True(t, sys.ran("-m pytest"))
	assert.Contains(t, out.String(), "npm test failed")
	assert.Contains(t, out.String(), "pytest passed")

	v, _ := b.Env().Lookup("API_KEY")
	assert.Equal(t, "from-file", v)
	v, _ = b.Env().Lookup("HOME")
	assert.Equal(t, "/home/dev", v)
}

func TestRunTestsNothingToRun(t *testing.T) {
	b, _ := newTestBootstrapper(t, t.TempDir(), newFakeSystem())
	r := b.RunTests(context.Background())
	assert.Equal(t, OutcomeSkipped, r.Outcome)
}
