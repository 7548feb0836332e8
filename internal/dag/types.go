package dag

import "context"

// TaskID is a task identifier that has been validated against a Graph.
type TaskID string

// Action is the body of a task. It returns the paths of every file it wrote.
// Implementations decide how they react to ctx: stage sequences run to
// completion once started, long-lived actions such as watch stop when ctx is
// done.
type Action interface {
	Execute(ctx context.Context) ([]string, error)
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context) ([]string, error)

// Execute calls f.
func (f ActionFunc) Execute(ctx context.Context) ([]string, error) { return f(ctx) }

// Definition declares one task. A definition with a nil Action and only
// prerequisites is an aggregate used for grouping.
type Definition struct {
	Name      string
	DependsOn []string
	Action    Action
}

// Graph is the immutable task graph. It is built once by New and is safe for
// concurrent use by any number of invocations.
type Graph struct {
	// nodes stores all tasks, keyed by their identifier.
	nodes map[TaskID]*node
	// order keeps the declaration order for listing.
	order []TaskID
}

// node is a single task vertex.
type node struct {
	id     TaskID
	action Action
	// deps are the prerequisites in declared order.
	deps []*node
}
