package dag

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/assetgrid/internal/ctxlog"
)

// Status is the execution state of a task within one invocation.
type Status int32

const (
	Pending Status = iota
	Running
	Done
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// TaskReport is the outcome of one task in one invocation.
type TaskReport struct {
	ID       TaskID
	Status   Status
	Outputs  []string
	Err      error
	Started  time.Time
	Finished time.Time
}

// Report is the outcome of one invocation.
type Report struct {
	Target TaskID
	// Plan is the resolved dependency order.
	Plan  []TaskID
	Tasks map[TaskID]*TaskReport
	// Completed lists tasks in the order they finished successfully.
	Completed []TaskID
}

// Outputs returns the sorted union of all files written during the invocation.
func (r *Report) Outputs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range r.Tasks {
		for _, p := range t.Outputs {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Executor runs invocations against a graph with a fixed worker pool.
type Executor struct {
	graph      *Graph
	numWorkers int
}

// NewExecutor creates an executor. Fewer than one worker means one.
func NewExecutor(g *Graph, numWorkers int) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{graph: g, numWorkers: numWorkers}
}

// Graph returns the graph the executor runs.
func (e *Executor) Graph() *Graph { return e.graph }

// Run executes name with one worker per CPU.
func (g *Graph) Run(ctx context.Context, name string) (*Report, error) {
	return NewExecutor(g, runtime.NumCPU()).Run(ctx, name)
}

// runNode is the per-invocation state of a task.
type runNode struct {
	report     *TaskReport
	action     Action
	dependents []*runNode
	depCount   atomic.Int32
	state      atomic.Int32
	finishOnce sync.Once
}

// invocation holds the mutable state of a single Run call.
type invocation struct {
	nodes     map[TaskID]*runNode
	wg        sync.WaitGroup
	mu        sync.Mutex
	completed []TaskID
}

// Run resolves name, then executes its transitive prerequisites and the task
// itself. Every task in the closure runs at most once. A task starts only when
// all of its prerequisites are done; when one fails, every task depending on
// it is skipped while unrelated tasks keep running. Plan errors (unknown task,
// cycle) are returned before anything executes.
func (e *Executor) Run(ctx context.Context, name string) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	id, err := e.graph.Lookup(name)
	if err != nil {
		return nil, err
	}
	plan, err := e.graph.Plan(id)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved task plan.", "task", id, "plan", plan)

	inv := e.newInvocation(plan)
	report := &Report{Target: id, Plan: plan, Tasks: make(map[TaskID]*TaskReport, len(plan))}
	for tid, n := range inv.nodes {
		report.Tasks[tid] = n.report
	}

	readyChan := make(chan *runNode, len(plan))
	for _, tid := range plan {
		if n := inv.nodes[tid]; n.depCount.Load() == 0 {
			logger.Debug("Found root task.", "task", tid)
			readyChan <- n
		}
	}

	inv.wg.Add(len(plan))
	workers := min(e.numWorkers, len(plan))
	logger.Debug("Starting worker pool.", "workers", workers)
	for i := 0; i < workers; i++ {
		go e.worker(ctx, inv, readyChan, i)
	}
	inv.wg.Wait()
	close(readyChan)

	report.Completed = inv.completed

	var errs []error
	for _, tid := range plan {
		t := report.Tasks[tid]
		if t.Status == Failed {
			errs = append(errs, fmt.Errorf("task %q failed: %w", tid, t.Err))
		}
	}
	if len(errs) == 0 {
		for _, tid := range plan {
			if t := report.Tasks[tid]; t.Status == Skipped && t.Err != nil {
				errs = append(errs, fmt.Errorf("task %q not run: %w", tid, t.Err))
				break
			}
		}
	}
	return report, errors.Join(errs...)
}

func (e *Executor) newInvocation(plan []TaskID) *invocation {
	inv := &invocation{nodes: make(map[TaskID]*runNode, len(plan))}
	for _, tid := range plan {
		inv.nodes[tid] = &runNode{
			report: &TaskReport{ID: tid, Status: Pending},
			action: e.graph.nodes[tid].action,
		}
	}
	for _, tid := range plan {
		n := inv.nodes[tid]
		deps := e.graph.nodes[tid].deps
		n.depCount.Store(int32(len(deps)))
		for _, dep := range deps {
			inv.nodes[dep.id].dependents = append(inv.nodes[dep.id].dependents, n)
		}
	}
	return inv
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, inv *invocation, readyChan chan *runNode, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for n := range readyChan {
		tid := n.report.ID
		taskLogger := logger.With("workerID", workerID, "task", tid)

		if err := ctx.Err(); err != nil {
			taskLogger.Warn("Context canceled, skipping task.")
			inv.finish(n, Skipped, nil, err)
			inv.skipDependents(ctx, n)
			continue
		}

		if !n.state.CompareAndSwap(int32(Pending), int32(Running)) {
			continue
		}
		n.report.Started = time.Now()

		var outputs []string
		var err error
		if n.action != nil {
			taskLogger.Info("▶️  Starting task.")
			outputs, err = n.action.Execute(ctxlog.WithLogger(ctx, taskLogger))
		}

		if err != nil {
			taskLogger.Error("Task failed.", "error", err, "elapsed", time.Since(n.report.Started))
			inv.finish(n, Failed, outputs, err)
			inv.skipDependents(ctx, n)
			continue
		}
		if n.action != nil {
			taskLogger.Info("✅ Finished task.", "outputs", len(outputs), "elapsed", time.Since(n.report.Started))
		}

		// Record completion before unlocking dependents so their reads see
		// every write of this task.
		inv.finish(n, Done, outputs, nil)
		for _, dependent := range n.dependents {
			if dependent.depCount.Add(-1) == 0 {
				taskLogger.Debug("Unlocking dependent task.", "dependent", dependent.report.ID)
				readyChan <- dependent
			}
		}
	}
}

// finish records the terminal state of n exactly once and releases its slot
// in the wait group.
func (inv *invocation) finish(n *runNode, status Status, outputs []string, err error) {
	n.finishOnce.Do(func() {
		n.state.Store(int32(status))
		inv.mu.Lock()
		n.report.Status = status
		n.report.Outputs = outputs
		n.report.Err = err
		n.report.Finished = time.Now()
		if status == Done {
			inv.completed = append(inv.completed, n.report.ID)
		}
		inv.mu.Unlock()
		inv.wg.Done()
	})
}

// skipDependents recursively marks all downstream tasks as skipped.
func (inv *invocation) skipDependents(ctx context.Context, n *runNode) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range n.dependents {
		if Status(dependent.state.Load()) != Pending {
			continue
		}
		logger.Warn("Skipping dependent task due to upstream failure.", "task", dependent.report.ID, "dependency", n.report.ID)
		inv.finish(dependent, Skipped, nil, nil)
		inv.skipDependents(ctx, dependent)
	}
}
