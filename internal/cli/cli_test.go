package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	root, err := filepath.Abs(".")
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Task)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, []string{filepath.Join(root, "assetgrid.hcl")}, cfg.ConfigPaths)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Zero(t, cfg.Jobs)
}

func TestParse_Flags(t *testing.T) {
	root := t.TempDir()
	args := []string{
		"-c", "a.hcl", "-c", "conf",
		"-C", root,
		"--log-level", "debug",
		"--log-format", "json",
		"-j", "3",
		"--reload-addr", "off",
		"-n",
		"scripts",
	}

	cfg, exit, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, []string{"a.hcl", "conf"}, cfg.ConfigPaths)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "off", cfg.ReloadAddr)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "scripts", cfg.Task)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"--help"}, out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage: assetgrid")
}

func TestParse_UsageErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":     {"--this-is-not-a-valid-flag"},
		"bad log level":    {"--log-level", "loud"},
		"bad log format":   {"--log-format", "xml"},
		"negative jobs":    {"--jobs=-1"},
		"list and dry run": {"-l", "-n"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, exit, err := Parse(args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
