// Package sass compiles SCSS through the Dart Sass command line compiler.
package sass

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the sass stage.
type Args struct {
	Binary    string   `hcl:"binary,optional"`
	Style     string   `hcl:"style,optional"`
	LoadPaths []string `hcl:"load_paths,optional"`
}

// Stage compiles every non-partial .scss file to .css.
type Stage struct {
	Args
}

// Apply runs the compiler once per entry file, feeding the current contents on
// stdin. Partials (names starting with "_") are only reachable through imports
// and are dropped from the set.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	var out fileset.FileSet
	for _, f := range in {
		name := filepath.Base(f.Path)
		if strings.HasPrefix(name, "_") {
			continue
		}
		css, err := s.compile(ctx, env, f)
		if err != nil {
			return nil, stage.Wrap("sass", env.Rel(f.Path), err)
		}
		c := *f
		c.Path = strings.TrimSuffix(f.Path, filepath.Ext(f.Path)) + ".css"
		c.Contents = css
		out = append(out, &c)
	}
	return out, nil
}

func (s *Stage) compile(ctx context.Context, env *stage.Env, f *fileset.File) ([]byte, error) {
	args := []string{"--stdin", "--no-source-map", "--style=" + s.Style, "--load-path=" + filepath.Dir(f.Path)}
	for _, p := range s.LoadPaths {
		args = append(args, "--load-path="+env.Abs(p))
	}
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Dir = env.Root
	cmd.Stdin = bytes.NewReader(f.Contents)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	env.Logger.Debug("Compiling stylesheet.", "path", env.Rel(f.Path), "binary", s.Binary)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("sass", &registry.RegisteredStage{
		NewArgs: func() any { return &Args{Binary: "sass", Style: "expanded"} },
		Build: func(a any) (stage.Stage, error) {
			args := a.(*Args)
			if args.Style != "expanded" && args.Style != "compressed" {
				return nil, fmt.Errorf("sass: style must be 'expanded' or 'compressed', got '%s'", args.Style)
			}
			return &Stage{Args: *args}, nil
		},
	})
}
