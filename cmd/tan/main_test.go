package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestRunCommandPrintsResult(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prog.tan")
	require.NoError(t, os.WriteFile(file, []byte("(+ 1 2)"), 0o644))

	out, stderr, err := execCmd(t, "run", file)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Equal(t, "3\n", out)
}

func TestRunCommandReportsEvaluationErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.tan")
	require.NoError(t, os.WriteFile(file, []byte("(undefined-thing)"), 0o644))

	_, stderr, err := execCmd(t, "run", file)
	require.Error(t, err)
	assert.Contains(t, stderr, "undefined")
}
