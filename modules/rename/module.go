// Package rename rewrites file names.
package rename

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the rename stage. Suffix goes between the
// stem and the extension; Extname replaces the extension.
type Args struct {
	Prefix  string `hcl:"prefix,optional"`
	Suffix  string `hcl:"suffix,optional"`
	Extname string `hcl:"extname,optional"`
}

// Stage renames files in place; directories and bases are kept.
type Stage struct {
	Args
}

// Apply returns the renamed set.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	out := make(fileset.FileSet, len(in))
	for i, f := range in {
		c := *f
		c.Path = s.rename(f.Path)
		out[i] = &c
	}
	return out, nil
}

func (s *Stage) rename(path string) string {
	dir, name := filepath.Split(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if s.Extname != "" {
		ext = s.Extname
	}
	return dir + s.Prefix + stem + s.Suffix + ext
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("rename", &registry.RegisteredStage{
		NewArgs: func() any { return new(Args) },
		Build: func(a any) (stage.Stage, error) {
			return &Stage{Args: *a.(*Args)}, nil
		},
	})
}
