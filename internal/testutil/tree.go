package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WriteTree creates every file of tree (slash-separated relative path to
// contents) under root.
func WriteTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for rel, contents := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
}

// ReadTree returns every regular file under dir, keyed by its slash-separated
// path relative to root. A missing dir yields an empty map.
func ReadTree(t *testing.T, root, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	start := filepath.Join(root, filepath.FromSlash(dir))
	if _, err := os.Stat(start); os.IsNotExist(err) {
		return out
	}
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

// Touch sets the modification time of a file under root.
func Touch(t *testing.T, root, rel string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(filepath.Join(root, filepath.FromSlash(rel)), mtime, mtime))
}
