// Package header prepends a license banner to every file.
package header

import (
	"context"
	"fmt"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the header stage.
type Args struct {
	Banner      string `hcl:"banner"`
	Description string `hcl:"description,optional"`
}

// Stage prepends a rendered banner.
type Stage struct {
	Kind        stage.BannerKind
	Description string
}

// Apply renders the banner once and prepends it to each file.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	if len(in) == 0 {
		return in, nil
	}
	text, err := env.Banners.Render(s.Kind, s.Description)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	out := make(fileset.FileSet, len(in))
	for i, f := range in {
		data := make([]byte, 0, len(text)+len(f.Contents))
		data = append(data, text...)
		data = append(data, f.Contents...)
		out[i] = f.WithContents(data)
	}
	return out, nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("header", &registry.RegisteredStage{
		NewArgs: func() any { return new(Args) },
		Build: func(a any) (stage.Stage, error) {
			args := a.(*Args)
			kind := stage.BannerKind(args.Banner)
			if kind != stage.BannerVerbose && kind != stage.BannerCondensed {
				return nil, fmt.Errorf("header: banner must be %q or %q, got %q", stage.BannerVerbose, stage.BannerCondensed, args.Banner)
			}
			return &Stage{Kind: kind, Description: args.Description}, nil
		},
	})
}
