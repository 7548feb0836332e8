// Package newer drops inputs whose outputs are already up to date.
package newer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/incremental"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the newer stage. Exactly one of Target and
// Dest is set. Target compares every input against one output file; Dest
// maps each input to its own output below a directory, with Ext replacing
// the extension and Suffix inserted before it.
type Args struct {
	Target string `hcl:"target,optional"`
	Dest   string `hcl:"dest,optional"`
	Ext    string `hcl:"ext,optional"`
	Suffix string `hcl:"suffix,optional"`
}

// Stage is the incremental filter.
type Stage struct {
	Args
}

// Apply keeps the stale inputs. In target mode either all inputs pass or
// none does.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	if s.Target != "" {
		if incremental.AnyStale(in, env.Abs(s.Target)) {
			return in, nil
		}
		env.Logger.Debug("Target is up to date.", "target", s.Target, "inputs", len(in))
		return nil, nil
	}

	var out fileset.FileSet
	for _, f := range in {
		if incremental.Stale(f, s.OutputPath(env, f)) {
			out = append(out, f)
		}
	}
	if skipped := len(in) - len(out); skipped > 0 {
		env.Logger.Debug("Skipped up to date inputs.", "dest", s.Dest, "skipped", skipped)
	}
	return out, nil
}

// OutputPath returns where f is expected to be written in dest mode.
func (s *Stage) OutputPath(env *stage.Env, f *fileset.File) string {
	rel := filepath.FromSlash(f.Rel())
	if s.Ext != "" {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + s.Ext
	}
	if s.Suffix != "" {
		rel = fileset.InsertSuffix(rel, s.Suffix)
	}
	return filepath.Join(env.Abs(s.Dest), rel)
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("newer", &registry.RegisteredStage{
		NewArgs: func() any { return new(Args) },
		Build: func(a any) (stage.Stage, error) {
			args := a.(*Args)
			if (args.Target == "") == (args.Dest == "") {
				return nil, fmt.Errorf("newer: exactly one of target and dest is required")
			}
			if args.Target != "" && (args.Ext != "" || args.Suffix != "") {
				return nil, fmt.Errorf("newer: ext and suffix only apply to dest mode")
			}
			return &Stage{Args: *args}, nil
		},
	})
}
