package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/assetgrid/internal/catalog"
	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/dag"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
	"github.com/vk/assetgrid/internal/watch"
)

// Options carries what assembly needs besides the model.
type Options struct {
	Registry  *registry.Registry
	Converter config.Converter
	// EvalContext is used to evaluate stage bodies.
	EvalContext *hcl.EvalContext
	// Root is the project directory selectors and destinations are relative to.
	Root     string
	Reporter stage.Reporter
	Banners  stage.Banners
	// Builtins implements the named task actions, such as "watch".
	Builtins map[string]dag.Action
}

// Pipeline is the assembled, immutable build definition.
type Pipeline struct {
	Graph    *dag.Graph
	Catalog  *catalog.Catalog
	Bindings []watch.Binding
	// Tasks keeps the configured tasks in declaration order for listing.
	Tasks []*config.Task
}

// Build validates the model against the registry and assembles the pipeline.
func Build(ctx context.Context, model *config.Model, opts Options) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	if err := opts.Registry.Validate(ctx, model); err != nil {
		return nil, err
	}

	var selectors []*catalog.Selector
	for _, s := range model.Selectors {
		sel, err := catalog.NewSelector(s.Name, s.Include, s.Exclude)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	cat, err := catalog.New(selectors...)
	if err != nil {
		return nil, err
	}

	defs := make([]dag.Definition, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		action, err := buildAction(ctx, t, cat, opts)
		if err != nil {
			return nil, fmt.Errorf("task '%s': %w", t.Name, err)
		}
		defs = append(defs, dag.Definition{Name: t.Name, DependsOn: t.DependsOn, Action: action})
	}
	graph, err := dag.New(defs)
	if err != nil {
		return nil, err
	}

	bindings := make([]watch.Binding, 0, len(model.Watches))
	for _, w := range model.Watches {
		sels, err := cat.Selectors(w.Paths...)
		if err != nil {
			return nil, fmt.Errorf("watch '%s': %w", w.Name, err)
		}
		bindings = append(bindings, watch.Binding{Name: w.Name, Selectors: sels, Task: w.Task})
	}

	logger.Debug("Pipeline assembled.", "tasks", len(defs), "selectors", len(selectors), "watches", len(bindings))
	return &Pipeline{Graph: graph, Catalog: cat, Bindings: bindings, Tasks: model.Tasks}, nil
}

// buildAction returns the action of t, or nil for an aggregate.
func buildAction(ctx context.Context, t *config.Task, cat *catalog.Catalog, opts Options) (dag.Action, error) {
	if t.Action != "" {
		a, ok := opts.Builtins[t.Action]
		if !ok {
			return nil, fmt.Errorf("action '%s' is not available", t.Action)
		}
		return a, nil
	}
	if t.IsAggregate() {
		return nil, nil
	}

	sels, err := cat.Selectors(t.Src...)
	if err != nil {
		return nil, err
	}
	seq := &Sequence{
		Task:      t.Name,
		Selectors: sels,
		Read:      t.Read,
		Root:      opts.Root,
		Reporter:  opts.Reporter,
		Banners:   opts.Banners,
	}
	for i, st := range t.Stages {
		built, err := buildStage(ctx, st, opts)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i+1, st.Kind, err)
		}
		seq.Stages = append(seq.Stages, NamedStage{Kind: st.Kind, Stage: built})
	}
	return seq, nil
}

func buildStage(ctx context.Context, st *config.Stage, opts Options) (stage.Stage, error) {
	rs, ok := opts.Registry.Lookup(st.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown stage kind '%s'", st.Kind)
	}
	var args any
	if rs.NewArgs != nil {
		args = rs.NewArgs()
	}
	if err := opts.Converter.DecodeStage(ctx, st, args, opts.EvalContext); err != nil {
		return nil, err
	}
	return rs.Build(args)
}
