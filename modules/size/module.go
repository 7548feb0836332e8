// Package size reports the byte size of a set on the console.
package size

import (
	"context"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the size stage.
type Args struct {
	Title     string `hcl:"title,optional"`
	ShowFiles bool   `hcl:"show_files,optional"`
}

// Stage reports sizes and passes files through.
type Stage struct {
	Args
}

// Apply reports the total size under Title and, with ShowFiles, each file.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	if len(in) == 0 || env.Reporter == nil {
		return in, nil
	}
	if s.ShowFiles {
		for _, f := range in {
			env.Reporter.Size(f.Rel(), len(f.Contents))
		}
	}
	env.Reporter.Size(s.Title, in.Size())
	return in, nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("size", &registry.RegisteredStage{
		NewArgs: func() any { return new(Args) },
		Build: func(a any) (stage.Stage, error) {
			return &Stage{Args: *a.(*Args)}, nil
		},
	})
}
