package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
)

// Validate checks that every stage used by the model is registered and that
// every name a task, selector or watch refers to exists.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	selectors := make(map[string]struct{}, len(model.Selectors))
	for _, s := range model.Selectors {
		selectors[s.Name] = struct{}{}
	}
	tasks := make(map[string]struct{}, len(model.Tasks))
	for _, t := range model.Tasks {
		tasks[t.Name] = struct{}{}
	}

	for _, t := range model.Tasks {
		for _, src := range t.Src {
			if _, ok := selectors[src]; !ok {
				errs = append(errs, fmt.Sprintf("task '%s': unknown selector '%s'", t.Name, src))
			}
		}
		for _, st := range t.Stages {
			if _, ok := r.stages[st.Kind]; !ok {
				errs = append(errs, fmt.Sprintf("task '%s': unknown stage kind '%s' (known: %s)", t.Name, st.Kind, strings.Join(r.Kinds(), ", ")))
			}
		}
		if t.IsAggregate() && len(t.DependsOn) == 0 {
			logger.Warn("Task has no prerequisites and does nothing.", "task", t.Name)
		}
	}

	for _, w := range model.Watches {
		if _, ok := tasks[w.Task]; !ok {
			errs = append(errs, fmt.Sprintf("watch '%s': unknown task '%s'", w.Name, w.Task))
		}
		for _, p := range w.Paths {
			if _, ok := selectors[p]; !ok {
				errs = append(errs, fmt.Sprintf("watch '%s': unknown selector '%s'", w.Name, p))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
