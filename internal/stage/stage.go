// Package stage defines the contract shared by every transform stage: a
// stateless operation that consumes one FileSet and produces another, or a
// side effect on the report channel.
//
// Stages are implemented by the packages under modules/ and registered into
// the registry by kind name. A task applies its stages strictly in declared
// order, each consuming the previous stage's output.
package stage

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vk/assetgrid/internal/fileset"
)

// Stage is a single file transform.
type Stage interface {
	Apply(ctx context.Context, env *Env, in fileset.FileSet) (fileset.FileSet, error)
}

// Func adapts a plain function to the Stage interface.
type Func func(ctx context.Context, env *Env, in fileset.FileSet) (fileset.FileSet, error)

// Apply calls f.
func (f Func) Apply(ctx context.Context, env *Env, in fileset.FileSet) (fileset.FileSet, error) {
	return f(ctx, env, in)
}

// BannerKind selects one of the two banner formats.
type BannerKind string

const (
	// BannerVerbose is the multi-line banner used on unminified artifacts.
	BannerVerbose BannerKind = "verbose"
	// BannerCondensed is the one-line banner used on minified artifacts.
	BannerCondensed BannerKind = "condensed"
)

// Banners renders license banners from package metadata.
type Banners interface {
	Render(kind BannerKind, description string) (string, error)
}

// Reporter is the console report channel used by lint and size stages.
type Reporter interface {
	Lint(path string, diags []Diagnostic)
	Size(title string, bytes int)
}

// Severity of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one lint finding. Diagnostics are reported and never fail a
// task.
type Diagnostic struct {
	Line     int
	Column   int
	Severity Severity
	Code     string
	Message  string
}

// Env carries what a stage needs from the running pipeline. A fresh Env with
// its own OutputLog is created for every task execution.
type Env struct {
	// Root is the project root every relative path is resolved against.
	Root     string
	Logger   *slog.Logger
	Reporter Reporter
	Banners  Banners
	Outputs  *OutputLog
}

// Abs resolves a root-relative, slash-separated path.
func (e *Env) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(e.Root, filepath.FromSlash(rel))
}

// Rel returns path relative to the root with forward slashes. Paths outside
// the root are returned unchanged.
func (e *Env) Rel(path string) string {
	rel, err := filepath.Rel(e.Root, path)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return path
	}
	return filepath.ToSlash(rel)
}

// OutputLog records the files a task wrote. It is safe for concurrent use.
type OutputLog struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// Record adds path to the log.
func (l *OutputLog) Record(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.paths == nil {
		l.paths = make(map[string]struct{})
	}
	l.paths[path] = struct{}{}
}

// Paths returns the recorded paths in sorted order.
func (l *OutputLog) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.paths))
	for p := range l.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
