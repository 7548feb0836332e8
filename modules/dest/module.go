// Package dest writes files into a destination directory.
package dest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the dest stage.
type Args struct {
	Dir string `hcl:"dir"`
}

// Stage writes every file to Dir, keeping its path relative to its base.
type Stage struct {
	Dir string
}

// Apply writes the files and records each written path as a task output. The
// returned set points at the written copies, so later stages see the
// destination as the new base.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	base := env.Abs(s.Dir)
	out := make(fileset.FileSet, 0, len(in))
	for _, f := range in {
		data := f.Contents
		if data == nil {
			var err error
			if data, err = os.ReadFile(f.Path); err != nil {
				return nil, fmt.Errorf("dest: %w", err)
			}
		}
		target := filepath.Join(base, filepath.FromSlash(f.Rel()))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("dest: %w", err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return nil, fmt.Errorf("dest: %w", err)
		}
		env.Outputs.Record(env.Rel(target))
		env.Logger.Debug("Wrote file.", "path", env.Rel(target), "bytes", len(data))
		out = append(out, &fileset.File{Path: target, Base: base, Contents: data, ModTime: time.Now()})
	}
	return out, nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("dest", &registry.RegisteredStage{
		NewArgs: func() any { return new(Args) },
		Build: func(a any) (stage.Stage, error) {
			args := a.(*Args)
			if args.Dir == "" {
				return nil, fmt.Errorf("dest: dir is required")
			}
			return &Stage{Dir: args.Dir}, nil
		},
	})
}
