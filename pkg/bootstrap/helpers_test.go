package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/lk-bootstrap/pkg/config"
)

// fakeSystem stands in for PATH and for child processes. Package manager
// installs put the package on PATH; `python -m venv` creates the venv dir.
type fakeSystem struct {
	mu       sync.Mutex
	tools    map[string]string
	commands []Command
	// fail maps a substring of a command line to the error it returns.
	fail    map[string]error
	outputs map[string]string
}

func newFakeSystem(tools ...string) *fakeSystem {
	s := &fakeSystem{
		tools:   map[string]string{},
		fail:    map[string]error{},
		outputs: map[string]string{},
	}
	for _, t := range tools {
		s.tools[t] = "/usr/bin/" + t
	}
	return s
}

func (s *fakeSystem) LookPath(file string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.tools[file]; ok {
		return p, nil
	}
	return "", exec.ErrNotFound
}

func (s *fakeSystem) Run(_ context.Context, cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
	line := cmd.String()
	for substr, err := range s.fail {
		if strings.Contains(line, substr) {
			return err
		}
	}
	if i := slices.Index(cmd.Args, "venv"); i > 0 && cmd.Args[i-1] == "-m" && i+1 < len(cmd.Args) {
		if err := os.MkdirAll(filepath.Join(cmd.Dir, cmd.Args[i+1], "bin"), 0o755); err != nil {
			return err
		}
	}
	switch cmd.Name {
	case "sudo", string(AptGet), string(DNF), string(Homebrew):
		if slices.Contains(cmd.Args, "install") {
			pkg := cmd.Args[len(cmd.Args)-1]
			s.tools[pkg] = "/usr/bin/" + pkg
		}
	}
	return nil
}

func (s *fakeSystem) Output(_ context.Context, cmd Command) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
	if out, ok := s.outputs[cmd.Name]; ok {
		return out, nil
	}
	return "", errors.New("no output scripted")
}

func (s *fakeSystem) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, len(s.commands))
	for i, c := range s.commands {
		lines[i] = c.String()
	}
	return lines
}

func (s *fakeSystem) ran(substr string) bool {
	for _, l := range s.lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

var baseTools = []string{"git", "curl", "make"}

func newTestBootstrapper(t *testing.T, dir string, sys *fakeSystem, mutate ...func(*Options)) (*Bootstrapper, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts := Options{
		Dir:      dir,
		Project:  config.DefaultProjectConfig(),
		User:     &config.UserConfig{},
		Runner:   sys,
		LookPath: sys.LookPath,
		Out:      out,
		OS:       OSLinux,
		Environ:  []string{"PATH=/usr/bin:/bin", "HOME=/home/dev"},
	}
	for _, m := range mutate {
		m(&opts)
	}
	b, err := New(opts)
	require.NoError(t, err)
	return b, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
