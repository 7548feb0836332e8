package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/cli"
)

func TestRun_ConfigError(t *testing.T) {
	t.Parallel()

	// Arrange
	invalidHCL := `
		task "scripts" {
			stage "concat" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "assetgrid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600))

	out := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, []string{"-C", tempDir})

	// Assert
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse HCL file")

	var exitErr *cli.ExitError
	require.False(t, errors.As(err, &exitErr), "configuration errors are not usage errors")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag --this-is-not-a-valid-flag")
}

func TestRun_UnknownTask(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	hcl := `
task "build" {
  description = "Nothing to do."
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "assetgrid.hcl"), []byte(hcl), 0600))

	err := run(context.Background(), &bytes.Buffer{}, []string{"-C", tempDir, "deploy"})

	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown task "deploy"`)
}
