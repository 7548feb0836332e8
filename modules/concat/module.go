// Package concat joins every file of a set into one.
package concat

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the concat stage.
type Args struct {
	Name      string `hcl:"name"`
	Separator string `hcl:"separator,optional"`
}

// Stage concatenates files in set order.
type Stage struct {
	Args
}

// Apply joins the files with the separator into one file named Name in the
// first file's base directory. An empty set stays empty.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	if len(in) == 0 {
		return nil, nil
	}
	first := in[0]
	out := &fileset.File{
		Path: filepath.Join(first.Base, filepath.FromSlash(s.Name)),
		Base: first.Base,
	}
	size := 0
	for _, f := range in {
		size += len(f.Contents) + len(s.Separator)
	}
	buf := make([]byte, 0, size)
	for i, f := range in {
		if i > 0 {
			buf = append(buf, s.Separator...)
		}
		buf = append(buf, f.Contents...)
		if f.ModTime.After(out.ModTime) {
			out.ModTime = f.ModTime
		}
	}
	out.Contents = buf
	env.Logger.Debug("Concatenated files.", "name", s.Name, "files", len(in))
	return fileset.FileSet{out}, nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("concat", &registry.RegisteredStage{
		NewArgs: func() any { return &Args{Separator: "\n"} },
		Build: func(a any) (stage.Stage, error) {
			args := a.(*Args)
			if args.Name == "" {
				return nil, fmt.Errorf("concat: name is required")
			}
			return &Stage{Args: *args}, nil
		},
	})
}
