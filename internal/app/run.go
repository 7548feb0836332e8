package app

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vk/assetgrid/internal/ctxlog"
)

func defaultJobs() int { return runtime.NumCPU() }

// Run executes the configured task, or lists tasks or prints the plan when
// asked to.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "task", a.config.Task)

	switch {
	case a.config.List:
		return a.list()
	case a.config.DryRun:
		return a.dryRun()
	}

	a.logger.Info("🚀 Starting build...", "task", a.config.Task, "jobs", a.jobs())
	start := time.Now()
	rep, err := a.executor.Run(ctx, a.config.Task)
	if err != nil {
		if rep != nil {
			a.logger.Error("Build failed.", "task", a.config.Task, "completed", len(rep.Completed), "elapsed", time.Since(start))
		}
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Build finished.", "task", a.config.Task, "tasks", len(rep.Completed), "outputs", len(rep.Outputs()), "elapsed", time.Since(start))
	return nil
}

// list prints every task with its prerequisites and description.
func (a *App) list() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, t := range a.pipeline.Tasks {
		deps := "-"
		if len(t.DependsOn) > 0 {
			deps = strings.Join(t.DependsOn, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, deps, t.Description)
	}
	return tw.Flush()
}

// dryRun prints the resolved order of the configured task without running it.
func (a *App) dryRun() error {
	g := a.pipeline.Graph
	id, err := g.Lookup(a.config.Task)
	if err != nil {
		return err
	}
	plan, err := g.Plan(id)
	if err != nil {
		return err
	}
	for i, tid := range plan {
		kind := "run"
		if g.IsAggregate(tid) {
			kind = "group"
		}
		fmt.Fprintf(a.outW, "%d. %s (%s)\n", i+1, tid, kind)
	}
	return nil
}
