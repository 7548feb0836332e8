package integration_tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/testutil"
)

const diamondHCL = `
selector "all" {
  include = ["src/*.txt"]
}

task "a" {
  src = ["all"]
  stage "record" { label = "a" }
}

task "b" {
  depends_on = ["a"]
  src        = ["all"]
  stage "record" { label = "b" }
}

task "c" {
  depends_on = ["a"]
  src        = ["all"]
  stage "record" { label = "c" }
}

task "d" {
  depends_on = ["b", "c"]
  src        = ["all"]
  stage "record" { label = "d" }
}
`

// Test for: every prerequisite runs exactly once, after its own prerequisites
func TestDagConcurrency_DiamondRunsEachTaskOnce(t *testing.T) {
	// Arrange
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"src/a.txt": "a"})
	rec := &testutil.RecordingModule{Sleep: 50 * time.Millisecond}
	testApp := newApp(t, root, diamondHCL, "d", 4, rec)

	// Act
	require.NoError(t, testApp.Run(context.Background()))

	// Assert
	for _, label := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, 1, rec.Count(label), label)
	}
	byLabel := make(map[string]testutil.ExecutionRecord)
	for _, r := range rec.Records() {
		byLabel[r.Task] = r
	}
	assert.False(t, byLabel["b"].Start.Before(byLabel["a"].End))
	assert.False(t, byLabel["c"].Start.Before(byLabel["a"].End))
	assert.False(t, byLabel["d"].Start.Before(byLabel["b"].End))
	assert.False(t, byLabel["d"].Start.Before(byLabel["c"].End))
}

// Test for: independent branches overlap when workers allow it
func TestDagConcurrency_BranchesRunInParallel(t *testing.T) {
	root := t.TempDir()
	rec := &testutil.RecordingModule{Sleep: 200 * time.Millisecond}
	testApp := newApp(t, root, diamondHCL, "d", 4, rec)

	require.NoError(t, testApp.Run(context.Background()))

	byLabel := make(map[string]testutil.ExecutionRecord)
	for _, r := range rec.Records() {
		byLabel[r.Task] = r
	}
	b, c := byLabel["b"], byLabel["c"]
	assert.True(t, b.Start.Before(c.End) && c.Start.Before(b.End), "b and c should overlap")
}
