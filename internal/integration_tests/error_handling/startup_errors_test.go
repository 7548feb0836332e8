package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/dag"
	"github.com/vk/assetgrid/internal/testutil"
)

// Test for: a cycle is rejected before any stage runs
func TestErrorHandling_CycleIsRejectedAtStartup(t *testing.T) {
	// Arrange
	hcl := `
selector "all" {
  include = ["src/*"]
}

task "a" {
  depends_on = ["b"]
  src        = ["all"]
  stage "record" { label = "a" }
}

task "b" {
  depends_on = ["a"]
  src        = ["all"]
  stage "record" { label = "b" }
}

task "c" {
  src = ["all"]
  stage "record" { label = "c" }
}
`
	root := t.TempDir()
	rec := &testutil.RecordingModule{}

	// Act
	_, err := newApp(t, writeConfig(t, root, hcl, "c"), rec)

	// Assert
	var cycle *dag.CycleError
	require.True(t, errors.As(err, &cycle), "got %v", err)
	assert.Contains(t, err.Error(), "dependency cycle detected")
	assert.Empty(t, rec.Records())
}

// Test for: references are checked when the pipeline is assembled
func TestErrorHandling_InvalidReferences(t *testing.T) {
	cases := map[string]struct {
		hcl  string
		want string
	}{
		"unknown prerequisite": {
			hcl: `
task "build" {
  depends_on = ["scripts"]
}
`,
			want: `unknown task "scripts" (prerequisite of "build")`,
		},
		"unknown stage kind": {
			hcl: `
selector "all" {
  include = ["src/*"]
}

task "scripts" {
  src = ["all"]
  stage "babel" {}
}
`,
			want: "unknown stage kind 'babel'",
		},
		"unknown selector": {
			hcl: `
task "scripts" {
  src = ["nowhere"]
  stage "record" {}
}
`,
			want: "unknown selector 'nowhere'",
		},
		"watch of unknown task": {
			hcl: `
selector "all" {
  include = ["src/*"]
}

watch "all" {
  paths = ["all"]
  task  = "deploy"
}
`,
			want: "watch 'all': unknown task 'deploy'",
		},
		"unsupported stage argument": {
			hcl: `
selector "all" {
  include = ["src/*"]
}

task "scripts" {
  src = ["all"]
  stage "record" {
    colour = "blue"
  }
}
`,
			want: "Unsupported argument",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newApp(t, writeConfig(t, t.TempDir(), tc.hcl, "default"), &testutil.RecordingModule{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

// Test for: syntax errors are reported with the file name
func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	root := t.TempDir()
	_, err := newApp(t, writeConfig(t, root, `task "a" {`, "a"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
	assert.Contains(t, err.Error(), "assetgrid.hcl")
}
