package convert

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// command is a single external process invocation
type command struct {
	Name   string
	Args   []string
	Env    []string // appended to the current process environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// executor abstracts command execution for testing
type executor interface {
	LookPath(file string) (string, error)
	Stat(path string) error
	RunSilent(ctx context.Context, name string, args ...string) error
	Run(ctx context.Context, cmd command) error
}

// osExecutor is the production executor backed by os/exec
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Stat(path string) error {
	_, err := os.Stat(path)
	return err
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) Run(ctx context.Context, c command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

var defaultExec executor = osExecutor{}
