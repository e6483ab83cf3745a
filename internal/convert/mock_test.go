package convert

import (
	"context"
	"errors"
	"io"
	"strings"
)

// mockExecutor records calls and returns configured responses
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	existing      map[string]bool // path -> whether Stat succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runFunc       func(cmd command) error
	calls         []command
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Stat(path string) error {
	if m.existing[path] {
		return nil
	}
	return errors.New("no such file: " + path)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) Run(_ context.Context, cmd command) error {
	m.calls = append(m.calls, cmd)
	if m.runFunc != nil {
		return m.runFunc(cmd)
	}
	return nil
}

func writeOutput(stdout, stderr string, err error) func(cmd command) error {
	return func(cmd command) error {
		if cmd.Stdout != nil {
			_, _ = io.WriteString(cmd.Stdout, stdout)
		}
		if cmd.Stderr != nil {
			_, _ = io.WriteString(cmd.Stderr, stderr)
		}
		return err
	}
}
