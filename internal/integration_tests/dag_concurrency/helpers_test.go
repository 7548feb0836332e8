package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/app"
	"github.com/vk/assetgrid/internal/registry"
)

// newApp writes hcl as the pipeline file of root and builds an app from it.
func newApp(t *testing.T, root, hcl, task string, jobs int, modules ...registry.Module) *app.App {
	t.Helper()
	path := filepath.Join(root, "assetgrid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(hcl), 0o600))
	testApp, _ := app.SetupAppTest(t, &app.Config{
		ConfigPaths: []string{path},
		Root:        root,
		Task:        task,
		Jobs:        jobs,
		ReloadAddr:  app.ReloadOff,
	}, modules...)
	return testApp
}
