// Package minify provides the uglify, minify_css and svgmin stages.
package minify

import (
	"context"
	"runtime"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
	"golang.org/x/sync/errgroup"
)

const (
	mediaJS  = "application/javascript"
	mediaCSS = "text/css"
	mediaSVG = "image/svg+xml"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments shared by the minify stages. Jobs bounds how many
// files are minified at once; zero means one per CPU.
type Args struct {
	Jobs int `hcl:"jobs,optional"`
}

// Stage minifies every file of a set with one minifier.
type Stage struct {
	kind      string
	mediaType string
	m         *minify.M
	jobs      int
}

// New creates a stage for kind minifying mediaType.
func New(kind, mediaType string, jobs int) *Stage {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	m := minify.New()
	m.AddFunc(mediaJS, js.Minify)
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFunc(mediaSVG, svg.Minify)
	return &Stage{kind: kind, mediaType: mediaType, m: m, jobs: jobs}
}

// Apply minifies the files concurrently. Output order matches input order and
// the output is a pure function of the input.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	out := make(fileset.FileSet, len(in))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, f := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := s.m.Bytes(s.mediaType, f.Contents)
			if err != nil {
				return stage.Wrap(s.kind, env.Rel(f.Path), err)
			}
			out[i] = f.WithContents(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	env.Logger.Debug("Minified files.", "stage", s.kind, "files", len(in), "bytes_in", in.Size(), "bytes_out", out.Size())
	return out, nil
}

// Register registers the three minify stages with the registry.
func (m *Module) Register(r *registry.Registry) {
	for kind, mediaType := range map[string]string{
		"uglify":     mediaJS,
		"minify_css": mediaCSS,
		"svgmin":     mediaSVG,
	} {
		r.RegisterStage(kind, &registry.RegisteredStage{
			NewArgs: func() any { return new(Args) },
			Build: func(a any) (stage.Stage, error) {
				return New(kind, mediaType, a.(*Args).Jobs), nil
			},
		})
	}
}
