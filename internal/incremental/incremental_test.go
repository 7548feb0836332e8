package incremental

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/fileset"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestStale(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	in := &fileset.File{Path: "in.js", ModTime: base}

	t.Run("missing output is stale", func(t *testing.T) {
		assert.True(t, Stale(in, filepath.Join(dir, "missing.js")))
	})

	t.Run("older output is stale", func(t *testing.T) {
		out := filepath.Join(dir, "older.js")
		touch(t, out, base.Add(-time.Minute))
		assert.True(t, Stale(in, out))
	})

	t.Run("newer output is current", func(t *testing.T) {
		out := filepath.Join(dir, "newer.js")
		touch(t, out, base.Add(time.Minute))
		assert.False(t, Stale(in, out))
	})

	t.Run("equal timestamps are current", func(t *testing.T) {
		out := filepath.Join(dir, "equal.js")
		touch(t, out, base)
		assert.False(t, Stale(in, out))
	})

	t.Run("directory in place of output is stale", func(t *testing.T) {
		out := filepath.Join(dir, "adir")
		require.NoError(t, os.Mkdir(out, 0755))
		assert.True(t, Stale(in, out))
	})

	t.Run("unknown input time is stale", func(t *testing.T) {
		out := filepath.Join(dir, "zero.js")
		touch(t, out, base)
		assert.True(t, Stale(&fileset.File{Path: "in.js"}, out))
	})

	t.Run("future input time is stale", func(t *testing.T) {
		orig := now
		t.Cleanup(func() { now = orig })
		now = func() time.Time { return base.Add(-time.Hour) }

		out := filepath.Join(dir, "skew.js")
		touch(t, out, base.Add(time.Minute))
		assert.True(t, Stale(in, out))
	})
}

func TestAnyStale(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	target := filepath.Join(dir, "bundle.js")
	touch(t, target, base)

	fresh := &fileset.File{Path: "a.js", ModTime: base.Add(-time.Minute)}
	changed := &fileset.File{Path: "b.js", ModTime: base.Add(time.Minute)}

	assert.False(t, AnyStale(fileset.FileSet{fresh}, target))
	assert.True(t, AnyStale(fileset.FileSet{fresh, changed}, target))
	assert.False(t, AnyStale(nil, target))
}
