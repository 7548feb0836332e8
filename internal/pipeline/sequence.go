package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/assetgrid/internal/catalog"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/dag"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/stage"
)

// NamedStage is a built stage and the kind it was configured with.
type NamedStage struct {
	Kind  string
	Stage stage.Stage
}

// Sequence is the action of a task with stages: resolve the source
// selectors, then thread the file set through every stage in order.
type Sequence struct {
	Task      string
	Selectors []*catalog.Selector
	Read      bool
	Stages    []NamedStage
	Root      string
	Reporter  stage.Reporter
	Banners   stage.Banners
}

var _ dag.Action = (*Sequence)(nil)

// Execute runs the sequence and returns the files it wrote. A started
// sequence is never interrupted: ctx only carries the logger.
func (s *Sequence) Execute(ctx context.Context) ([]string, error) {
	ctx = context.WithoutCancel(ctx)
	logger := ctxlog.FromContext(ctx)

	files, err := s.resolve()
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved sources.", "files", len(files))

	env := &stage.Env{
		Root:     s.Root,
		Logger:   logger,
		Reporter: s.Reporter,
		Banners:  s.Banners,
		Outputs:  &stage.OutputLog{},
	}
	for i, st := range s.Stages {
		files, err = st.Stage.Apply(ctx, env, files)
		if err != nil {
			return env.Outputs.Paths(), fmt.Errorf("stage %d (%s): %w", i+1, st.Kind, err)
		}
		logger.Debug("Applied stage.", "stage", st.Kind, "files", len(files))
	}
	return env.Outputs.Paths(), nil
}

// resolve materializes the union of the source selectors; a file selected by
// several selectors keeps its first position.
func (s *Sequence) resolve() (fileset.FileSet, error) {
	var out fileset.FileSet
	seen := make(map[string]struct{})
	for _, sel := range s.Selectors {
		files, err := sel.Resolve(s.Root, s.Read)
		if err != nil {
			return nil, fmt.Errorf("resolving selector '%s': %w", sel.Name, err)
		}
		for _, f := range files {
			if _, ok := seen[f.Path]; ok {
				continue
			}
			seen[f.Path] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}
