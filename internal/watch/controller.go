package watch

import (
	"context"
	"sync/atomic"

	"github.com/vk/assetgrid/internal/catalog"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/dag"
)

// Event reports a change to one file, as a slash-separated path relative to
// the project root.
type Event struct {
	Path string
}

// Binding reruns Task when a file matched by any of Selectors changes.
type Binding struct {
	Name      string
	Selectors []*catalog.Selector
	Task      string
}

// Matches reports whether rel belongs to the binding.
func (b Binding) Matches(rel string) bool {
	for _, s := range b.Selectors {
		if s.Match(rel) {
			return true
		}
	}
	return false
}

// Runner executes a task invocation.
type Runner interface {
	Run(ctx context.Context, name string) (*dag.Report, error)
}

// Notifier is the live-reload channel.
type Notifier interface {
	Notify(ctx context.Context, task string, paths []string) error
}

// State of the controller.
type State int32

const (
	Idle State = iota
	Rebuilding
)

func (s State) String() string {
	if s == Rebuilding {
		return "rebuilding"
	}
	return "idle"
}

// Controller serializes rebuilds triggered by change events.
type Controller struct {
	bindings []Binding
	runner   Runner
	notifier Notifier
	state    atomic.Int32
}

// NewController creates a controller. A nil notifier disables notifications.
func NewController(bindings []Binding, runner Runner, notifier Notifier) *Controller {
	return &Controller{bindings: bindings, runner: runner, notifier: notifier}
}

// State returns the current state.
func (c *Controller) State() State { return State(c.state.Load()) }

type result struct {
	binding Binding
	report  *dag.Report
	err     error
}

// Run consumes events until ctx is done or events is closed. Only one rebuild
// runs at a time; a binding triggered again while queued is queued once, and
// one triggered while it is rebuilding is queued for a rerun. When ctx is done
// the in-flight rebuild is allowed to finish and the queue is dropped; when
// events is closed the queue is drained first.
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("👀 Watching for changes.", "bindings", len(c.bindings))

	var queue []int
	queued := make(map[int]bool)
	done := make(chan result, 1)
	running := false
	closed := false

	start := func() {
		idx := queue[0]
		queue = queue[1:]
		delete(queued, idx)
		b := c.bindings[idx]
		running = true
		c.state.Store(int32(Rebuilding))
		logger.Info("🔁 Rebuilding.", "binding", b.Name, "task", b.Task)
		go func() {
			rep, err := c.runner.Run(ctxlog.With(context.WithoutCancel(ctx), "binding", b.Name), b.Task)
			done <- result{binding: b, report: rep, err: err}
		}()
	}

	for {
		if !running && len(queue) > 0 {
			start()
		}
		if closed && !running {
			logger.Info("Change feed closed, watch stopped.")
			return nil
		}

		select {
		case ev, ok := <-events:
			if !ok {
				closed = true
				events = nil
				continue
			}
			for i, b := range c.bindings {
				if !b.Matches(ev.Path) || queued[i] {
					continue
				}
				logger.Debug("Change matched binding.", "path", ev.Path, "binding", b.Name)
				queued[i] = true
				queue = append(queue, i)
			}
		case r := <-done:
			running = false
			c.finish(ctx, r)
		case <-ctx.Done():
			if running {
				logger.Info("Waiting for the running rebuild before stopping.")
				c.finish(ctx, <-done)
			}
			logger.Info("🏁 Watch stopped.")
			return nil
		}
	}
}

func (c *Controller) finish(ctx context.Context, r result) {
	logger := ctxlog.FromContext(ctx)
	defer c.state.Store(int32(Idle))

	if r.err != nil {
		logger.Error("Rebuild failed.", "binding", r.binding.Name, "task", r.binding.Task, "error", r.err)
		return
	}
	outputs := r.report.Outputs()
	logger.Info("✅ Rebuild finished.", "task", r.binding.Task, "outputs", len(outputs))
	if len(outputs) == 0 || c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(context.WithoutCancel(ctx), r.binding.Task, outputs); err != nil {
		logger.Error("Reload notification failed.", "task", r.binding.Task, "error", err)
	}
}
