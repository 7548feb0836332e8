package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/hcl_adapter"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The logs are
// captured and printed when ASSETGRID_TEST_LOGS is "true".
func SetupAppTest(t *testing.T, appConfig *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	cfg, err := NewConfig(*appConfig)
	require.NoError(t, err)

	testApp, err := NewApp(logBuffer, cfg, hcl_adapter.NewLoader(), modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("ASSETGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

// CoreModules returns every built-in stage module, for tests that combine
// them with test modules.
func CoreModules() []registry.Module {
	return append([]registry.Module(nil), coreModules...)
}
