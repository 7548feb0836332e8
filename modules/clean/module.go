// Package clean deletes the files of a set.
package clean

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/fsutil"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Stage removes every file it receives, then prunes directories below the
// files' bases that were left empty.
type Stage struct{}

// Apply deletes the files. It writes nothing and passes nothing on.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	bases := make(map[string]struct{})
	for _, f := range in {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("clean: %w", err)
		}
		env.Logger.Debug("Deleted file.", "path", env.Rel(f.Path))
		bases[f.Base] = struct{}{}
	}
	for base := range bases {
		if err := pruneEmpty(base); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
	}
	env.Logger.Info("Cleaned files.", "count", len(in))
	return nil, nil
}

// pruneEmpty removes empty directories strictly below base, deepest first.
func pruneEmpty(base string) error {
	dirs, err := fsutil.Dirs(base)
	if err != nil {
		return err
	}
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})
	for _, d := range dirs {
		if filepath.Clean(d) == filepath.Clean(base) {
			continue
		}
		entries, err := os.ReadDir(d)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := os.Remove(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("clean", &registry.RegisteredStage{
		Build: func(any) (stage.Stage, error) { return &Stage{}, nil },
	})
}
