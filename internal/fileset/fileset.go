// Package fileset defines the in-memory file records that flow between
// transform stages.
package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File is a single file-content record. Path is the file's current path,
// which stages may rewrite (rename, concat); Base is the directory Path is
// relative to when the file is written to a destination.
type File struct {
	Path     string
	Base     string
	Contents []byte
	ModTime  time.Time
}

// FileSet is an ordered sequence of files. Order is significant for
// concatenation and otherwise carries no meaning.
type FileSet []*File

// Read loads the file at path. An empty base defaults to the file's directory.
func Read(path, base string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if base == "" {
		base = filepath.Dir(path)
	}
	return &File{Path: path, Base: base, Contents: data, ModTime: info.ModTime()}, nil
}

// Rel returns the path of f relative to its base, using forward slashes.
// Files whose path escapes the base fall back to their file name.
func (f *File) Rel() string {
	rel, err := filepath.Rel(f.Base, f.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(f.Path)
	}
	return filepath.ToSlash(rel)
}

// Clone returns a deep copy of f.
func (f *File) Clone() *File {
	c := *f
	c.Contents = append([]byte(nil), f.Contents...)
	return &c
}

// WithContents returns a copy of f carrying new contents.
func (f *File) WithContents(data []byte) *File {
	c := *f
	c.Contents = data
	return &c
}

// Paths lists the current path of every file in order.
func (fs FileSet) Paths() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Path
	}
	return out
}

// Size returns the total number of content bytes in the set.
func (fs FileSet) Size() int {
	n := 0
	for _, f := range fs {
		n += len(f.Contents)
	}
	return n
}

// MinName inserts the ".min" marker before the final extension of path:
// "dist/trumbowyg.js" becomes "dist/trumbowyg.min.js". A path without an
// extension gets the marker appended.
func MinName(path string) string {
	return InsertSuffix(path, ".min")
}

// InsertSuffix inserts suffix between the stem and the final extension of path.
func InsertSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
