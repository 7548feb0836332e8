package clean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/testutil"
)

func TestApply(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"dist/trumbowyg.js":    "x",
		"dist/langs/fr.min.js": "y",
		"src/trumbowyg.js":     "keep",
	})
	env, _ := testutil.NewEnv(root)
	base := filepath.Join(root, "dist")
	in := fileset.FileSet{
		{Path: filepath.Join(base, "trumbowyg.js"), Base: base},
		{Path: filepath.Join(base, "langs", "fr.min.js"), Base: base},
		{Path: filepath.Join(base, "gone.js"), Base: base},
	}

	out, err := (&Stage{}).Apply(testutil.Context(), env, in)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, testutil.ReadTree(t, root, "dist"))
	_, err = os.Stat(filepath.Join(base, "langs"))
	assert.True(t, os.IsNotExist(err), "empty directories are pruned")
	_, err = os.Stat(base)
	assert.NoError(t, err, "the base itself is kept")
	assert.Equal(t, map[string]string{"src/trumbowyg.js": "keep"}, testutil.ReadTree(t, root, "src"))
}
