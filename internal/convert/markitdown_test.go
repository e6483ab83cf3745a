package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBinary(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		exec    *mockExecutor
		want    string
		wantErr bool
	}{
		{
			name: "explicit path",
			path: "/custom/markitdown",
			exec: &mockExecutor{existing: map[string]bool{"/custom/markitdown": true}},
			want: "/custom/markitdown",
		},
		{
			name:    "explicit path missing",
			path:    "/custom/markitdown",
			exec:    &mockExecutor{availableBins: map[string]bool{"markitdown": true}},
			wantErr: true,
		},
		{
			name: "on PATH",
			exec: &mockExecutor{availableBins: map[string]bool{"markitdown": true}},
			want: "/usr/bin/markitdown",
		},
		{
			name: "common install dir",
			exec: &mockExecutor{existing: map[string]bool{"/opt/homebrew/bin/markitdown": true}},
			want: "/opt/homebrew/bin/markitdown",
		},
		{
			name:    "not found",
			exec:    &mockExecutor{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			got, err := findBinary(tt.path, tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBinaryNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestCLI(t *testing.T, exec *mockExecutor) *MarkitdownCLI {
	t.Helper()
	exec.availableBins = map[string]bool{"markitdown": true}
	m, err := newMarkitdownCLI("", exec, zerolog.Nop())
	require.NoError(t, err)
	return m
}

func TestMarkitdownCLI_Convert(t *testing.T) {
	exec := &mockExecutor{runFunc: writeOutput("# Report\n\nBody\n", "", nil)}
	m := newTestCLI(t, exec)

	env := []string{"HTTP_PROXY=http://proxy:8080", "HTTPS_PROXY=http://proxy:8080"}
	result, err := m.Convert(context.Background(), " /tmp/report.pdf ", Options{EnablePlugins: true, Env: env})
	require.NoError(t, err)

	assert.Equal(t, "# Report\n\nBody\n", result.Markdown)
	assert.Equal(t, "/tmp/report.pdf", result.Source)

	require.Len(t, exec.calls, 1)
	call := exec.calls[0]
	assert.Equal(t, "/usr/bin/markitdown", call.Name)
	assert.Equal(t, []string{"--use-plugins", "/tmp/report.pdf"}, call.Args)
	assert.Equal(t, env, call.Env)
}

func TestMarkitdownCLI_ConvertWithoutPlugins(t *testing.T) {
	exec := &mockExecutor{runFunc: writeOutput("text", "", nil)}
	m := newTestCLI(t, exec)

	_, err := m.Convert(context.Background(), "a.docx", Options{})
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"a.docx"}, exec.calls[0].Args)
}

func TestMarkitdownCLI_Failure(t *testing.T) {
	exitErr := errors.New("exit status 1")
	exec := &mockExecutor{runFunc: writeOutput("", "Traceback\nUnsupportedFormatException: .xyz", exitErr)}
	m := newTestCLI(t, exec)

	_, err := m.Convert(context.Background(), "file.xyz", Options{})
	require.Error(t, err)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.ErrorIs(t, err, exitErr)
	assert.Equal(t, "file.xyz", convErr.Source)
	assert.Contains(t, err.Error(), "UnsupportedFormatException")
	assert.Contains(t, convErr.Detail(), "Traceback")
}

func TestMarkitdownCLI_EmptyOutput(t *testing.T) {
	exec := &mockExecutor{runFunc: writeOutput("  \n", "", nil)}
	m := newTestCLI(t, exec)

	_, err := m.Convert(context.Background(), "empty.pdf", Options{})
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestMarkitdownCLI_EmptySource(t *testing.T) {
	exec := &mockExecutor{}
	m := newTestCLI(t, exec)

	_, err := m.Convert(context.Background(), "   ", Options{})
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Empty(t, exec.calls)
}

func TestConversionError_Detail(t *testing.T) {
	inner := errors.New("exit status 2")
	err := &ConversionError{Source: "x", Err: inner, Stderr: "line one\nline two\n"}

	assert.Equal(t, "conversion of x failed: exit status 2: line two", err.Error())
	assert.Equal(t, "exit status 2\n\nstderr:\nline one\nline two", err.Detail())
}
